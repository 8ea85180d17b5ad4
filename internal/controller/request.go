package controller

import (
	"strings"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// Default backend endpoints.
const (
	DefaultProfileEndpoint = "/analisar-perfil"
	DefaultRankingEndpoint = "/ranking-vaga"
	DefaultFiltersEndpoint = "/analisar-com-filtros"
)

// Endpoints holds the backend path for each form.
type Endpoints struct {
	Profile string
	Ranking string
	Filters string
}

// DefaultEndpoints returns the endpoints of the current backend revision.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Profile: DefaultProfileEndpoint,
		Ranking: DefaultRankingEndpoint,
		Filters: DefaultFiltersEndpoint,
	}
}

// FilterDefaults are sent when the user leaves an optional filter unset.
// Nil fields are omitted from the payload.
type FilterDefaults struct {
	MinRepos         *int
	MinStars         *int
	MinFollowers     *int
	AtividadeRecente *bool
}

// Request is a validated, ready-to-send call for one form.
type Request struct {
	Form     model.FormID
	Endpoint string
	Payload  any
}

// ProfileInput is the simple analysis form.
type ProfileInput struct {
	UsernameOrURL string
	Context       model.Context
}

// RankingInput is the recruiter ranking form.
type RankingInput struct {
	JobDescription string
	Candidates     []string
}

// FilterInput is the advanced filters form. Nil numeric fields fall back to
// the configured defaults.
type FilterInput struct {
	Languages      []string
	Skills         []string
	Methodologies  []string
	MinRepos       *int
	MinStars       *int
	MinFollowers   *int
	RecentActivity *bool
	Location       string
}

// BuildProfile validates in and shapes the profile payload for the configured
// variant. The username is trimmed but otherwise sent as typed; the backend
// accepts bare names, @names and profile URLs.
func (c *Controller) BuildProfile(in ProfileInput) (Request, error) {
	user := strings.TrimSpace(in.UsernameOrURL)
	if user == "" {
		return Request{}, &model.ValidationError{Form: model.FormProfile, Err: model.ErrEmptyUsername}
	}

	ctx := in.Context
	if ctx != model.ContextRecruiter {
		ctx = model.ContextSelfAnalysis
	}

	var payload any
	switch c.opts.ProfilePayload {
	case model.PayloadUsername:
		payload = model.LegacyUsernameRequest{Username: user, Contexto: ctx}
	case model.PayloadGithubURL:
		payload = model.LegacyURLRequest{GithubURL: user}
	default:
		payload = model.ProfileRequest{UsernameOrURL: user, Contexto: ctx}
	}

	return Request{Form: model.FormProfile, Endpoint: c.opts.Endpoints.Profile, Payload: payload}, nil
}

// BuildRanking validates the job description and candidate list.
func (c *Controller) BuildRanking(in RankingInput) (Request, error) {
	job := strings.TrimSpace(in.JobDescription)
	if job == "" {
		return Request{}, &model.ValidationError{Form: model.FormRanking, Err: model.ErrEmptyJobDescription}
	}
	if len(in.Candidates) == 0 {
		return Request{}, &model.ValidationError{Form: model.FormRanking, Err: model.ErrNoCandidates}
	}

	urls := make([]string, len(in.Candidates))
	copy(urls, in.Candidates)

	return Request{
		Form:     model.FormRanking,
		Endpoint: c.opts.Endpoints.Ranking,
		Payload:  model.RankingRequest{JobDescription: job, CandidateURLs: urls},
	}, nil
}

// BuildFilters requires at least one language, skill or methodology.
func (c *Controller) BuildFilters(in FilterInput) (Request, error) {
	langs := nonEmpty(in.Languages)
	skills := nonEmpty(in.Skills)
	methods := nonEmpty(in.Methodologies)
	if len(langs)+len(skills)+len(methods) == 0 {
		return Request{}, &model.ValidationError{Form: model.FormFilters, Err: model.ErrNoFilters}
	}

	d := c.opts.FilterDefaults
	payload := model.FilterRequest{
		Linguagens:       langs,
		Habilidades:      skills,
		Metodologias:     methods,
		MinRepos:         firstInt(in.MinRepos, d.MinRepos),
		MinStars:         firstInt(in.MinStars, d.MinStars),
		MinFollowers:     firstInt(in.MinFollowers, d.MinFollowers),
		AtividadeRecente: firstBool(in.RecentActivity, d.AtividadeRecente),
	}
	if loc := strings.TrimSpace(in.Location); loc != "" {
		payload.Localizacao = &loc
	}

	return Request{Form: model.FormFilters, Endpoint: c.opts.Endpoints.Filters, Payload: payload}, nil
}

// nonEmpty returns the trimmed non-blank values, never nil so the payload
// always carries an array.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstInt(v, fallback *int) *int {
	if v != nil {
		n := *v
		return &n
	}
	if fallback != nil {
		n := *fallback
		return &n
	}
	return nil
}

func firstBool(v, fallback *bool) *bool {
	if v != nil {
		b := *v
		return &b
	}
	if fallback != nil {
		b := *fallback
		return &b
	}
	return nil
}
