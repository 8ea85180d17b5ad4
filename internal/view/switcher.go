// Package view maps the selected context and ranking toggle to the set of
// visible form containers.
package view

import "github.com/LeoncioDev/github-analyzer/internal/model"

// Visibility says which containers are shown for a view state.
type Visibility struct {
	AnalysisArea  bool // holds the simple and ranking forms
	RankingToggle bool
	SimpleForm    bool
	RankingForm   bool
	FiltersArea   bool
}

// Switcher holds the view state. The zero value is not valid; use New.
type Switcher struct {
	context model.Context
	ranking bool
}

// New returns a switcher starting in ctx with the ranking toggle off.
// Unknown contexts fall back to self-analysis.
func New(ctx model.Context) Switcher {
	if !ctx.Valid() {
		ctx = model.ContextSelfAnalysis
	}
	return Switcher{context: ctx}
}

// Select switches context. Self-analysis always clears the ranking toggle.
func (s Switcher) Select(ctx model.Context) Switcher {
	if !ctx.Valid() {
		return s
	}
	s.context = ctx
	if ctx == model.ContextSelfAnalysis {
		s.ranking = false
	}
	return s
}

// SetRanking sets the ranking toggle. It is ignored outside the recruiter context.
func (s Switcher) SetRanking(on bool) Switcher {
	if s.context != model.ContextRecruiter {
		return s
	}
	s.ranking = on
	return s
}

// CancelRanking turns the ranking toggle off, returning to the simple form.
func (s Switcher) CancelRanking() Switcher {
	s.ranking = false
	return s
}

func (s Switcher) Context() model.Context { return s.context }

func (s Switcher) Ranking() bool { return s.ranking }

func (s Switcher) Mode() model.Mode {
	return model.ResolveMode(s.context, s.ranking)
}

// Visibility returns the container assignment for the current state.
func (s Switcher) Visibility() Visibility {
	switch s.Mode() {
	case model.ModeSelfAnalysis:
		return Visibility{AnalysisArea: true, SimpleForm: true}
	case model.ModeRecruiterSimple:
		return Visibility{AnalysisArea: true, RankingToggle: true, SimpleForm: true}
	case model.ModeRecruiterRanking:
		return Visibility{AnalysisArea: true, RankingToggle: true, RankingForm: true}
	default:
		return Visibility{FiltersArea: true}
	}
}

// Placeholder is the hint shown in the username input.
func (s Switcher) Placeholder() string {
	if s.context == model.ContextRecruiter {
		return "Paste the candidate's GitHub link or username..."
	}
	return "Enter your GitHub username..."
}
