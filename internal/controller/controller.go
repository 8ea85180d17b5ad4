package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/LeoncioDev/github-analyzer/internal/display"
	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// DefaultTimeout bounds a single backend call when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options configures payload shaping and request limits.
type Options struct {
	Endpoints      Endpoints
	ProfilePayload model.ProfilePayloadVariant
	FilterDefaults FilterDefaults
	// Timeout bounds each request. Negative disables the bound.
	Timeout time.Duration
}

// Outcome describes a finished request.
type Outcome struct {
	Form     model.FormID
	HTML     string
	Duration time.Duration
	// Shown is false when a later request or a view change superseded this
	// one before it finished, so the region was left untouched.
	Shown bool
}

// slot is the per-form request lifecycle.
type slot struct {
	sem *semaphore.Weighted

	mu     sync.Mutex
	state  model.RequestState
	cancel context.CancelFunc
}

func (s *slot) start(cancel context.CancelFunc) {
	s.mu.Lock()
	s.state = model.StateInFlight
	s.cancel = cancel
	s.mu.Unlock()
}

func (s *slot) finish(state model.RequestState) {
	s.mu.Lock()
	s.state = state
	s.cancel = nil
	s.mu.Unlock()
}

// Controller binds the forms to the backend and the shared result region.
// Each form may have at most one request in flight; different forms may run
// concurrently.
type Controller struct {
	backend model.Backend
	region  *display.Region
	opts    Options
	logger  *slog.Logger
	slots   map[model.FormID]*slot
}

// New creates a Controller. Zero-valued endpoints and timeout take defaults.
func New(backend model.Backend, region *display.Region, opts Options, logger *slog.Logger) *Controller {
	def := DefaultEndpoints()
	if opts.Endpoints.Profile == "" {
		opts.Endpoints.Profile = def.Profile
	}
	if opts.Endpoints.Ranking == "" {
		opts.Endpoints.Ranking = def.Ranking
	}
	if opts.Endpoints.Filters == "" {
		opts.Endpoints.Filters = def.Filters
	}
	if !opts.ProfilePayload.Valid() {
		opts.ProfilePayload = model.PayloadUsernameOrURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	slots := make(map[model.FormID]*slot, len(model.Forms))
	for _, f := range model.Forms {
		slots[f] = &slot{sem: semaphore.NewWeighted(1)}
	}

	return &Controller{
		backend: backend,
		region:  region,
		opts:    opts,
		logger:  logger,
		slots:   slots,
	}
}

// Region returns the shared result region.
func (c *Controller) Region() *display.Region {
	return c.region
}

// Submit performs req. A form that already has a request in flight is
// rejected with model.ErrInFlight and no call is made. Otherwise the region
// shows the loading state, exactly one backend call is made, and the region
// then shows the result verbatim or the described error. The form is
// released on every path.
func (c *Controller) Submit(ctx context.Context, req Request) (Outcome, error) {
	s, ok := c.slots[req.Form]
	if !ok {
		return Outcome{}, fmt.Errorf("unknown form %q", req.Form)
	}
	if !s.sem.TryAcquire(1) {
		c.logger.Debug("submit ignored, form busy", "form", req.Form)
		return Outcome{Form: req.Form}, model.ErrInFlight
	}
	defer s.sem.Release(1)

	var cancel context.CancelFunc
	if c.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	s.start(cancel)
	seq := c.region.Begin(req.Form)
	c.logger.Info("request started", "form", req.Form, "endpoint", req.Endpoint, "seq", seq)

	start := time.Now()
	html, err := c.backend.Post(ctx, req.Endpoint, req.Payload)
	elapsed := time.Since(start)

	if err != nil {
		s.finish(model.StateError)
		shown := c.region.Fail(seq, model.Describe(err))
		c.logger.Warn("request failed",
			"form", req.Form,
			"endpoint", req.Endpoint,
			"duration", elapsed,
			"shown", shown,
			"error", err,
		)
		return Outcome{Form: req.Form, Duration: elapsed, Shown: shown}, fmt.Errorf("submit %s: %w", req.Form, err)
	}

	s.finish(model.StateSuccess)
	shown := c.region.Complete(seq, html)
	c.logger.Info("request completed",
		"form", req.Form,
		"endpoint", req.Endpoint,
		"duration", elapsed,
		"shown", shown,
	)
	return Outcome{Form: req.Form, HTML: html, Duration: elapsed, Shown: shown}, nil
}

// Reject shows a local validation failure for form. No request is made and
// the form's lifecycle state is unchanged.
func (c *Controller) Reject(form model.FormID, err error) {
	c.logger.Debug("validation failed", "form", form, "error", err)
	c.region.ShowError(form, model.Describe(err))
}

// Cancel aborts the in-flight request of form. It reports whether there was
// one to abort.
func (c *Controller) Cancel(form model.FormID) bool {
	s, ok := c.slots[form]
	if !ok {
		return false
	}
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return false
	}
	c.logger.Info("request cancelled", "form", form)
	cancel()
	return true
}

// State returns the lifecycle state of form.
func (c *Controller) State(form model.FormID) model.RequestState {
	s, ok := c.slots[form]
	if !ok {
		return model.StateIdle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ClearView hides the result region after a view transition. Requests still
// in flight finish normally but no longer write to the region.
func (c *Controller) ClearView() {
	c.region.Clear()
}
