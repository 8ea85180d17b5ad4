package candidates

import (
	"fmt"
	"strings"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// List is the ordered set of candidate profile URLs used in ranking mode.
// It is a value type: Add and Remove return the updated list and leave the
// receiver untouched. Entries are distinct (exact, case-sensitive match).
type List struct {
	items []string
	max   int // 0 means unbounded
}

// New returns an empty list holding at most max entries. max <= 0 disables the limit.
func New(max int) List {
	if max < 0 {
		max = 0
	}
	return List{max: max}
}

// Add trims raw and appends it. The returned error wraps one of
// model.ErrEmptyCandidate, model.ErrDuplicateCandidate or model.ErrCandidateLimit;
// on error the returned list equals the receiver.
func (l List) Add(raw string) (List, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return l, model.ErrEmptyCandidate
	}
	if l.Contains(url) {
		return l, fmt.Errorf("%q: %w", url, model.ErrDuplicateCandidate)
	}
	if l.max > 0 && len(l.items) >= l.max {
		return l, fmt.Errorf("maximum of %d candidates: %w", l.max, model.ErrCandidateLimit)
	}

	items := make([]string, len(l.items), len(l.items)+1)
	copy(items, l.items)
	return List{items: append(items, url), max: l.max}, nil
}

// Remove drops the entry equal to url. Unknown URLs leave the list unchanged.
func (l List) Remove(url string) List {
	items := make([]string, 0, len(l.items))
	for _, c := range l.items {
		if c != url {
			items = append(items, c)
		}
	}
	return List{items: items, max: l.max}
}

// Contains reports whether url is already in the list.
func (l List) Contains(url string) bool {
	for _, c := range l.items {
		if c == url {
			return true
		}
	}
	return false
}

// Items returns a copy of the entries in insertion order.
func (l List) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l List) Len() int { return len(l.items) }

// Max returns the capacity; 0 means unbounded.
func (l List) Max() int { return l.max }

// Full reports whether another Add would hit the capacity limit.
func (l List) Full() bool {
	return l.max > 0 && len(l.items) >= l.max
}
