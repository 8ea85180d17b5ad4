package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LeoncioDev/github-analyzer/internal/backend"
	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "GITHUB_ANALYZER_CONFIG"

// LocalPath is the config file looked up in the working directory.
const LocalPath = "config.yaml"

const (
	defaultBaseURL       = "http://localhost:8000"
	defaultTimeout       = 60 * time.Second
	defaultCandidatesMax = 3
	defaultStorePath     = "~/.github-analyzer/prefs.db"
	defaultMinRepos      = 5
	defaultRetryDelay    = 2 * time.Second
)

var (
	defaultLanguages     = []string{"Go", "Python", "JavaScript", "TypeScript", "Java", "C#", "Rust", "Ruby", "PHP", "Kotlin"}
	defaultSkills        = []string{"Docker", "Kubernetes", "AWS", "SQL", "React", "Node.js", "Machine Learning", "CI/CD"}
	defaultMethodologies = []string{"Scrum", "Kanban", "TDD", "DDD", "Clean Architecture"}
)

// Config is the root configuration for github-analyzer.
type Config struct {
	Backend    BackendConfig
	Candidates CandidatesConfig
	Filters    FiltersConfig
	Store      StoreConfig
	Theme      ThemeConfig
}

// BackendConfig describes how to reach the analysis service.
type BackendConfig struct {
	BaseURL        string
	Timeout        time.Duration // per-request bound
	Endpoints      EndpointsConfig
	ProfilePayload model.ProfilePayloadVariant
	ResultFields   []string // response fields holding the result HTML, in lookup order
	ErrorFields    []string // response fields holding an error message, in lookup order
	Retry          RetryConfig
}

// RetryConfig controls retries of transient backend failures. MaxRetries 0
// sends every request exactly once.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration // doubled on each further retry
}

// EndpointsConfig holds the path of each backend operation.
type EndpointsConfig struct {
	Profile string `yaml:"profile"`
	Ranking string `yaml:"ranking"`
	Filters string `yaml:"filters"`
}

// CandidatesConfig bounds the ranking candidate list. Max 0 means unbounded.
type CandidatesConfig struct {
	Max int
}

// FiltersConfig holds the advanced-filter options and the values sent when
// the user leaves an optional filter unset.
type FiltersConfig struct {
	Defaults      FilterDefaults
	Languages     []string
	Skills        []string
	Methodologies []string
}

// FilterDefaults are optional payload values. Nil means omitted.
type FilterDefaults struct {
	MinRepos         *int  `yaml:"min_repos"`
	MinStars         *int  `yaml:"min_stars"`
	MinFollowers     *int  `yaml:"min_followers"`
	AtividadeRecente *bool `yaml:"atividade_recente"`
}

// StoreConfig locates the preference database.
type StoreConfig struct {
	Path string // "~" is expanded to the home directory
}

// ThemeConfig controls whether the theme choice is persisted.
type ThemeConfig struct {
	Persist bool
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Backend    rawBackendConfig    `yaml:"backend"`
	Candidates rawCandidatesConfig `yaml:"candidates"`
	Filters    rawFiltersConfig    `yaml:"filters"`
	Store      StoreConfig         `yaml:"store"`
	Theme      rawThemeConfig      `yaml:"theme"`
}

type rawBackendConfig struct {
	BaseURL        string          `yaml:"base_url"`
	Timeout        string          `yaml:"timeout"`
	Endpoints      EndpointsConfig `yaml:"endpoints"`
	ProfilePayload string          `yaml:"profile_payload"`
	Response       struct {
		ResultFields []string `yaml:"result_fields"`
		ErrorFields  []string `yaml:"error_fields"`
	} `yaml:"response"`
	Retry struct {
		MaxRetries int    `yaml:"max_retries"`
		BaseDelay  string `yaml:"base_delay"`
	} `yaml:"retry"`
}

type rawCandidatesConfig struct {
	Max *int `yaml:"max"`
}

type rawFiltersConfig struct {
	Defaults      *FilterDefaults `yaml:"defaults"`
	Languages     []string        `yaml:"languages"`
	Skills        []string        `yaml:"skills"`
	Methodologies []string        `yaml:"methodologies"`
}

type rawThemeConfig struct {
	Persist *bool `yaml:"persist"`
}

// Discover returns the config file to use: flagPath if set, then the file
// named by $GITHUB_ANALYZER_CONFIG, then ./config.yaml when it exists.
// An empty result means built-in defaults.
func Discover(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	if _, err := os.Stat(LocalPath); err == nil {
		return LocalPath
	}
	return ""
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(rawConfig{})
	if err != nil {
		// Built-in defaults always validate.
		panic(err)
	}
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return parse(raw)
}

func parse(raw rawConfig) (*Config, error) {
	var err error

	timeout := defaultTimeout
	if raw.Backend.Timeout != "" {
		timeout, err = time.ParseDuration(raw.Backend.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse backend.timeout %q: %w", raw.Backend.Timeout, err)
		}
	}

	retryDelay := defaultRetryDelay
	if raw.Backend.Retry.BaseDelay != "" {
		retryDelay, err = time.ParseDuration(raw.Backend.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse backend.retry.base_delay %q: %w", raw.Backend.Retry.BaseDelay, err)
		}
	}

	baseURL := raw.Backend.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	def := controller.DefaultEndpoints()
	endpoints := raw.Backend.Endpoints
	if endpoints.Profile == "" {
		endpoints.Profile = def.Profile
	}
	if endpoints.Ranking == "" {
		endpoints.Ranking = def.Ranking
	}
	if endpoints.Filters == "" {
		endpoints.Filters = def.Filters
	}

	payload := model.ProfilePayloadVariant(raw.Backend.ProfilePayload)
	if payload == "" {
		payload = model.PayloadUsernameOrURL
	}

	resultFields := orDefaultList(raw.Backend.Response.ResultFields, backend.DefaultResultFields)
	errorFields := orDefaultList(raw.Backend.Response.ErrorFields, backend.DefaultErrorFields)

	candidatesMax := defaultCandidatesMax
	if raw.Candidates.Max != nil {
		candidatesMax = *raw.Candidates.Max
	}

	defaults := FilterDefaults{MinRepos: intPtr(defaultMinRepos), AtividadeRecente: boolPtr(true)}
	if raw.Filters.Defaults != nil {
		defaults = *raw.Filters.Defaults
	}

	storePath := expandHome(orDefault(raw.Store.Path, defaultStorePath))

	persist := true
	if raw.Theme.Persist != nil {
		persist = *raw.Theme.Persist
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(baseURL, "/"),
			Timeout:        timeout,
			Endpoints:      endpoints,
			ProfilePayload: payload,
			ResultFields:   resultFields,
			ErrorFields:    errorFields,
			Retry:          RetryConfig{MaxRetries: raw.Backend.Retry.MaxRetries, BaseDelay: retryDelay},
		},
		Candidates: CandidatesConfig{Max: candidatesMax},
		Filters: FiltersConfig{
			Defaults:      defaults,
			Languages:     orDefaultList(raw.Filters.Languages, defaultLanguages),
			Skills:        orDefaultList(raw.Filters.Skills, defaultSkills),
			Methodologies: orDefaultList(raw.Filters.Methodologies, defaultMethodologies),
		},
		Store: StoreConfig{Path: storePath},
		Theme: ThemeConfig{Persist: persist},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.Retry.MaxRetries < 0 {
		return fmt.Errorf("backend.retry.max_retries must not be negative, got %d", cfg.Backend.Retry.MaxRetries)
	}
	if cfg.Backend.Retry.MaxRetries > 0 && cfg.Backend.Retry.BaseDelay <= 0 {
		return fmt.Errorf("backend.retry.base_delay must be positive, got %v", cfg.Backend.Retry.BaseDelay)
	}
	if !cfg.Backend.ProfilePayload.Valid() {
		return fmt.Errorf("backend.profile_payload must be one of usernameOrUrl, username, github_url, got %q", cfg.Backend.ProfilePayload)
	}
	for name, ep := range map[string]string{
		"profile": cfg.Backend.Endpoints.Profile,
		"ranking": cfg.Backend.Endpoints.Ranking,
		"filters": cfg.Backend.Endpoints.Filters,
	} {
		if !strings.HasPrefix(ep, "/") {
			return fmt.Errorf("backend.endpoints.%s must start with \"/\", got %q", name, ep)
		}
	}
	if cfg.Candidates.Max < 0 {
		return fmt.Errorf("candidates.max must be zero (unbounded) or positive, got %d", cfg.Candidates.Max)
	}

	d := cfg.Filters.Defaults
	for name, v := range map[string]*int{"min_repos": d.MinRepos, "min_stars": d.MinStars, "min_followers": d.MinFollowers} {
		if v != nil && *v < 0 {
			return fmt.Errorf("filters.defaults.%s must not be negative, got %d", name, *v)
		}
	}

	if cfg.Theme.Persist && cfg.Store.Path == "" {
		return errors.New("store.path is required when theme.persist is true")
	}
	return nil
}

// expandHome replaces a leading "~" with the home directory. Without a home
// directory the path is made relative to the working directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")
	home, err := os.UserHomeDir()
	if err != nil {
		return rest
	}
	return filepath.Join(home, rest)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultList(v, def []string) []string {
	if len(v) == 0 {
		out := make([]string, len(def))
		copy(out, def)
		return out
	}
	return v
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }
