package model

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		ctx     Context
		ranking bool
		want    Mode
		form    FormID
	}{
		{ContextSelfAnalysis, false, ModeSelfAnalysis, FormProfile},
		{ContextSelfAnalysis, true, ModeSelfAnalysis, FormProfile},
		{ContextRecruiter, false, ModeRecruiterSimple, FormProfile},
		{ContextRecruiter, true, ModeRecruiterRanking, FormRanking},
		{ContextFilters, false, ModeAdvancedFilters, FormFilters},
		{ContextFilters, true, ModeAdvancedFilters, FormFilters},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.ctx, tt.ranking), func(t *testing.T) {
			got := ResolveMode(tt.ctx, tt.ranking)
			if got != tt.want {
				t.Errorf("ResolveMode = %v, want %v", got, tt.want)
			}
			if got.Form() != tt.form {
				t.Errorf("Form() = %v, want %v", got.Form(), tt.form)
			}
		})
	}
}

func TestThemeToggleTwiceRestores(t *testing.T) {
	for _, th := range []Theme{ThemeLight, ThemeDark} {
		if got := th.Toggle().Toggle(); got != th {
			t.Errorf("%q toggled twice = %q", th, got)
		}
		if th.Toggle() == th {
			t.Errorf("%q toggled once should differ", th)
		}
	}
}

func TestParseTheme(t *testing.T) {
	if th, ok := ParseTheme("claro"); !ok || th != ThemeLight {
		t.Errorf("ParseTheme(claro) = %q, %v", th, ok)
	}
	if th, ok := ParseTheme("escuro"); !ok || th != ThemeDark {
		t.Errorf("ParseTheme(escuro) = %q, %v", th, ok)
	}
	if _, ok := ParseTheme("sepia"); ok {
		t.Error("ParseTheme(sepia) should fail")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Form: FormRanking, Err: ErrNoCandidates}, "Add candidates."},
		{"wrapped duplicate", &ValidationError{Form: FormRanking, Err: fmt.Errorf("%q: %w", "https://github.com/alice", ErrDuplicateCandidate)}, "Candidate already added."},
		{"wrapped limit", &ValidationError{Form: FormRanking, Err: fmt.Errorf("maximum of 3 candidates: %w", ErrCandidateLimit)}, "Candidate limit reached."},
		{"http with message", &HTTPError{StatusCode: 404, Message: "User not found"}, "User not found"},
		{"http without message", &HTTPError{StatusCode: 502}, "Request failed (HTTP 502)."},
		{"transport", &TransportError{Err: errors.New("dial tcp: refused")}, "Connection error: dial tcp: refused"},
		{"unexpected", fmt.Errorf("post: %w", ErrUnexpectedResponse), "Unexpected response from server."},
		{"cancelled", &TransportError{Err: context.Canceled}, "Request cancelled."},
		{"timeout", &TransportError{Err: context.DeadlineExceeded}, "Request timed out."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe = %q, want %q", got, tt.want)
			}
		})
	}
}
