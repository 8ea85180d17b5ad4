package model

import "context"

// ProfilePayloadVariant selects the JSON shape sent to the profile endpoint.
// Backend revisions accepted different bodies for the same operation.
type ProfilePayloadVariant string

const (
	PayloadUsernameOrURL ProfilePayloadVariant = "usernameOrUrl" // {usernameOrUrl, contexto}
	PayloadUsername      ProfilePayloadVariant = "username"      // {username, contexto}
	PayloadGithubURL     ProfilePayloadVariant = "github_url"    // {github_url}
)

// Valid reports whether v is a known payload variant.
func (v ProfilePayloadVariant) Valid() bool {
	switch v {
	case PayloadUsernameOrURL, PayloadUsername, PayloadGithubURL:
		return true
	}
	return false
}

// ProfileRequest is the current profile-analysis body.
type ProfileRequest struct {
	UsernameOrURL string  `json:"usernameOrUrl"`
	Contexto      Context `json:"contexto"`
}

// LegacyUsernameRequest is the {username, contexto} body.
type LegacyUsernameRequest struct {
	Username string  `json:"username"`
	Contexto Context `json:"contexto,omitempty"`
}

// LegacyURLRequest is the original {github_url} body.
type LegacyURLRequest struct {
	GithubURL string `json:"github_url"`
}

// RankingRequest compares candidate profiles against one job description.
type RankingRequest struct {
	JobDescription string   `json:"jobDescription"`
	CandidateURLs  []string `json:"candidateUrls"`
}

// FilterRequest searches for a profile matching the selected filters.
// Optional fields are omitted from the body when nil.
type FilterRequest struct {
	Linguagens       []string `json:"linguagens"`
	Habilidades      []string `json:"habilidades"`
	Metodologias     []string `json:"metodologias"`
	MinRepos         *int     `json:"minRepos,omitempty"`
	MinStars         *int     `json:"minStars,omitempty"`
	MinFollowers     *int     `json:"minFollowers,omitempty"`
	AtividadeRecente *bool    `json:"atividadeRecente,omitempty"`
	Localizacao      *string  `json:"localizacao,omitempty"`
}

// Backend posts a JSON payload to an endpoint and returns the result HTML.
// Failures are *HTTPError, *TransportError or ErrUnexpectedResponse.
type Backend interface {
	Post(ctx context.Context, endpoint string, payload any) (string, error)
}

// PreferenceStore persists the theme preference.
type PreferenceStore interface {
	// LoadTheme returns the stored theme; ok is false when nothing is stored.
	LoadTheme() (theme Theme, ok bool, err error)
	SaveTheme(theme Theme) error
}
