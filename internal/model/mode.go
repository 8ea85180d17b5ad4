package model

// Context is the analysis context tag chosen by the user. The values are the
// tags the backend expects in the `contexto` payload field.
type Context string

const (
	ContextSelfAnalysis Context = "autoanalise"
	ContextRecruiter    Context = "recrutamento"
	ContextFilters      Context = "filtros"
)

// Contexts lists the selectable contexts in display order.
var Contexts = []Context{ContextSelfAnalysis, ContextRecruiter, ContextFilters}

// Valid reports whether c is one of the known contexts.
func (c Context) Valid() bool {
	switch c {
	case ContextSelfAnalysis, ContextRecruiter, ContextFilters:
		return true
	}
	return false
}

// Label returns the human-readable name shown in selectors.
func (c Context) Label() string {
	switch c {
	case ContextSelfAnalysis:
		return "Self-analysis"
	case ContextRecruiter:
		return "Recruiter"
	case ContextFilters:
		return "Advanced filters"
	default:
		return string(c)
	}
}

// Mode is the active view state. Exactly one mode is active at a time.
type Mode int

const (
	ModeSelfAnalysis Mode = iota
	ModeRecruiterSimple
	ModeRecruiterRanking
	ModeAdvancedFilters
)

func (m Mode) String() string {
	switch m {
	case ModeSelfAnalysis:
		return "self-analysis"
	case ModeRecruiterSimple:
		return "recruiter-simple"
	case ModeRecruiterRanking:
		return "recruiter-ranking"
	case ModeAdvancedFilters:
		return "advanced-filters"
	default:
		return "unknown"
	}
}

// Form returns the form that submits in this mode.
func (m Mode) Form() FormID {
	switch m {
	case ModeRecruiterRanking:
		return FormRanking
	case ModeAdvancedFilters:
		return FormFilters
	default:
		return FormProfile
	}
}

// ResolveMode maps the (context, ranking toggle) pair to a mode.
// The ranking toggle only has meaning in the recruiter context.
func ResolveMode(c Context, ranking bool) Mode {
	switch c {
	case ContextRecruiter:
		if ranking {
			return ModeRecruiterRanking
		}
		return ModeRecruiterSimple
	case ContextFilters:
		return ModeAdvancedFilters
	default:
		return ModeSelfAnalysis
	}
}

// FormID identifies one of the input forms. Each form owns its own request lifecycle.
type FormID string

const (
	FormProfile FormID = "profile"
	FormRanking FormID = "ranking"
	FormFilters FormID = "filters"
)

// Forms lists every form.
var Forms = []FormID{FormProfile, FormRanking, FormFilters}

// RequestState is the lifecycle state of a single form's request.
type RequestState int

const (
	StateIdle RequestState = iota
	StateInFlight
	StateSuccess
	StateError
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in-flight"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Theme is the persisted light/dark preference. Values match the stored strings.
type Theme string

const (
	ThemeLight Theme = "claro"
	ThemeDark  Theme = "escuro"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme maps a stored value to a Theme. Unknown values report false.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}
