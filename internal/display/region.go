package display

import (
	"sync"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// Snapshot is a copy of the region state at one point in time.
type Snapshot struct {
	Seq     uint64       // bumped by Begin and Clear; stale completions are dropped
	Form    model.FormID // form that last wrote to the region
	Loading bool
	Content string // result HTML, verbatim
	Error   string
	Focus   uint64 // bumped on every lifecycle transition; readers move focus when it changes
}

// HasResult reports whether a result is being shown.
func (s Snapshot) HasResult() bool { return s.Content != "" }

// HasError reports whether an error is being shown.
func (s Snapshot) HasError() bool { return s.Error != "" }

// Observer is notified after every region change.
type Observer interface {
	RegionChanged(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) RegionChanged(s Snapshot) { f(s) }

// Region is the single shared area where results and errors are rendered.
// It is safe for concurrent use by the request goroutines of several forms.
type Region struct {
	mu        sync.Mutex
	state     Snapshot
	observers []Observer
}

// NewRegion returns an empty, hidden region.
func NewRegion(observers ...Observer) *Region {
	return &Region{observers: observers}
}

// Observe registers o for all later changes.
func (r *Region) Observe(o Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

// Begin starts a request for form: previous result and error are cleared and
// the loading indicator is shown. The returned sequence must be passed to
// Complete or Fail.
func (r *Region) Begin(form model.FormID) uint64 {
	return r.update(func(s *Snapshot) bool {
		s.Seq++
		s.Form = form
		s.Loading = true
		s.Content = ""
		s.Error = ""
		s.Focus++
		return true
	}).Seq
}

// Complete shows html verbatim for the request started with seq.
// It returns false when a later Begin or Clear superseded that request.
func (r *Region) Complete(seq uint64, html string) bool {
	applied := false
	r.update(func(s *Snapshot) bool {
		if s.Seq != seq {
			return false
		}
		s.Loading = false
		s.Content = html
		s.Error = ""
		s.Focus++
		applied = true
		return true
	})
	return applied
}

// Fail shows msg as the error for the request started with seq.
// It returns false when the request was superseded.
func (r *Region) Fail(seq uint64, msg string) bool {
	applied := false
	r.update(func(s *Snapshot) bool {
		if s.Seq != seq {
			return false
		}
		s.Loading = false
		s.Content = ""
		s.Error = msg
		s.Focus++
		applied = true
		return true
	})
	return applied
}

// ShowError displays an inline error that did not come from a request,
// e.g. a local validation failure. A request in flight keeps its loading
// indicator and will replace the error when it finishes.
func (r *Region) ShowError(form model.FormID, msg string) {
	r.update(func(s *Snapshot) bool {
		if !s.Loading {
			s.Form = form
			s.Content = ""
		}
		s.Error = msg
		s.Focus++
		return true
	})
}

// DismissError hides the error, leaving any result in place.
func (r *Region) DismissError() {
	r.update(func(s *Snapshot) bool {
		if s.Error == "" {
			return false
		}
		s.Error = ""
		return true
	})
}

// Clear hides result, error and loading indicator, and supersedes any
// request still in flight.
func (r *Region) Clear() {
	r.update(func(s *Snapshot) bool {
		s.Seq++
		s.Loading = false
		s.Content = ""
		s.Error = ""
		return true
	})
}

// Snapshot returns the current state.
func (r *Region) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// update applies fn under the lock and notifies observers outside it when fn
// reports a change.
func (r *Region) update(fn func(s *Snapshot) bool) Snapshot {
	r.mu.Lock()
	changed := fn(&r.state)
	snap := r.state
	observers := r.observers
	r.mu.Unlock()

	if changed {
		for _, o := range observers {
			o.RegionChanged(snap)
		}
	}
	return snap
}
