package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/display"
	"github.com/LeoncioDev/github-analyzer/internal/model"
	"github.com/LeoncioDev/github-analyzer/internal/store"
	"github.com/LeoncioDev/github-analyzer/internal/theme"
)

type fakeBackend struct {
	mu       sync.Mutex
	payloads []any
	html     string
	block    chan struct{}
}

func (f *fakeBackend) Post(ctx context.Context, endpoint string, payload any) (string, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.html, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestModel(t *testing.T, b model.Backend) (Model, *theme.Manager) {
	t.Helper()
	logger := discardLogger()
	minRepos := 5
	ctrl := controller.New(b, display.NewRegion(), controller.Options{
		FilterDefaults: controller.FilterDefaults{MinRepos: &minRepos},
	}, logger)
	themes := theme.NewManager(store.NewNopStore(), logger)
	m := New(ctrl, themes, Options{
		CandidatesMax: 3,
		Languages:     []string{"Go", "Rust"},
		Skills:        []string{"Docker"},
		Methodologies: []string{"Scrum"},
	}, logger)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, themes
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, t tea.KeyType) Model {
	m, _ = update(m, tea.KeyMsg{Type: t})
	return m
}

func typeText(m Model, s string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// runSubmit runs cmd, expanding batches, and returns the submit result.
func runSubmit(cmd tea.Cmd) (submitDoneMsg, bool) {
	if cmd == nil {
		return submitDoneMsg{}, false
	}
	switch msg := cmd().(type) {
	case submitDoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if done, ok := c().(submitDoneMsg); ok {
				return done, true
			}
		}
	}
	return submitDoneMsg{}, false
}

func findSubmit(t *testing.T, cmd tea.Cmd) submitDoneMsg {
	t.Helper()
	done, ok := runSubmit(cmd)
	if !ok {
		t.Fatal("expected a submit command")
	}
	return done
}

func TestSelfAnalysisSubmit(t *testing.T) {
	b := &fakeBackend{html: "<p>looks great</p>"}
	m, _ := newTestModel(t, b)

	m = typeText(m, "octocat")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	done := findSubmit(t, cmd)
	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	m, _ = update(m, done)

	if b.calls() != 1 {
		t.Fatalf("expected 1 backend call, got %d", b.calls())
	}
	want := model.ProfileRequest{UsernameOrURL: "octocat", Contexto: model.ContextSelfAnalysis}
	if b.payloads[0] != want {
		t.Errorf("expected payload %+v, got %+v", want, b.payloads[0])
	}
	if m.snap.Content != "<p>looks great</p>" {
		t.Errorf("expected region content verbatim, got %q", m.snap.Content)
	}
	if m.focus != fieldResult {
		t.Errorf("expected focus on result, got %v", m.focus)
	}
	if !strings.Contains(m.View(), "looks great") {
		t.Errorf("view should show the rendered result:\n%s", m.View())
	}
	if len(m.pending) != 0 {
		t.Errorf("expected no pending forms, got %v", m.pending)
	}
}

func TestEmptyUsernameShowsErrorWithoutRequest(t *testing.T) {
	b := &fakeBackend{}
	m, _ := newTestModel(t, b)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no command for an invalid form")
	}
	if b.calls() != 0 {
		t.Errorf("expected no backend call, got %d", b.calls())
	}
	if !strings.Contains(m.View(), "Enter a GitHub username or profile URL.") {
		t.Errorf("view should show the validation message:\n%s", m.View())
	}
}

func TestDigitsGoIntoTextInput(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m = typeText(m, "user1")
	m = typeText(m, "2")

	if m.switcher.Context() != model.ContextSelfAnalysis {
		t.Errorf("digits typed in a text field must not switch context, got %s", m.switcher.Context())
	}
	if got := m.username.Value(); got != "user12" {
		t.Errorf("expected username user12, got %q", got)
	}
}

func TestRankingWithoutCandidates(t *testing.T) {
	b := &fakeBackend{}
	m, _ := newTestModel(t, b)

	m = press(m, tea.KeyF2)
	m = press(m, tea.KeyCtrlR)
	if m.switcher.Mode() != model.ModeRecruiterRanking {
		t.Fatalf("expected ranking mode, got %s", m.switcher.Mode())
	}
	if m.focus != fieldJob {
		t.Fatalf("expected focus on job description, got %v", m.focus)
	}

	m = typeText(m, "Senior Go engineer")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no command")
	}
	if b.calls() != 0 {
		t.Errorf("expected no backend call, got %d", b.calls())
	}
	if m.snap.Error != "Add candidates." {
		t.Errorf("expected 'Add candidates.', got %q", m.snap.Error)
	}
}

func TestCandidateEditing(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m = press(m, tea.KeyF2)
	m = press(m, tea.KeyCtrlR)
	m = press(m, tea.KeyTab)
	if m.focus != fieldCandidateInput {
		t.Fatalf("expected focus on candidate input, got %v", m.focus)
	}

	m = typeText(m, "https://github.com/alice")
	m = press(m, tea.KeyEnter)
	if m.candidates.Len() != 1 {
		t.Fatalf("expected 1 candidate, got %d", m.candidates.Len())
	}
	if m.candidate.Value() != "" {
		t.Errorf("input should be cleared after add, got %q", m.candidate.Value())
	}

	m = typeText(m, "https://github.com/alice")
	m = press(m, tea.KeyEnter)
	if m.candidates.Len() != 1 {
		t.Errorf("duplicate must not be added, got %d", m.candidates.Len())
	}
	if !m.snap.HasError() {
		t.Error("expected duplicate error in the result region")
	}

	m = press(m, tea.KeyTab) // back to the form after focus moved to the result
	for m.focus != fieldCandidateInput {
		m = press(m, tea.KeyTab)
	}
	m.candidate.SetValue("")
	m = typeText(m, "https://github.com/bob")
	m = press(m, tea.KeyEnter)
	if m.candidates.Len() != 2 {
		t.Fatalf("expected 2 candidates, got %d", m.candidates.Len())
	}
	if m.snap.HasError() {
		t.Error("successful add should dismiss the error")
	}

	m = press(m, tea.KeyTab)
	if m.focus != fieldCandidateList {
		t.Fatalf("expected focus on candidate list, got %v", m.focus)
	}
	m = typeText(m, "x")
	items := m.candidates.Items()
	if len(items) != 1 || items[0] != "https://github.com/bob" {
		t.Errorf("expected only bob to remain, got %v", items)
	}
}

func TestContextSwitchClearsResult(t *testing.T) {
	b := &fakeBackend{html: "<p>report</p>"}
	m, _ := newTestModel(t, b)

	m = typeText(m, "octocat")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(m, findSubmit(t, cmd))
	if !m.snap.HasResult() {
		t.Fatal("expected a result before switching")
	}

	m = press(m, tea.KeyF3)
	if m.switcher.Mode() != model.ModeAdvancedFilters {
		t.Fatalf("expected filters mode, got %s", m.switcher.Mode())
	}
	if m.snap.HasResult() || m.snap.HasError() {
		t.Errorf("region should be cleared on view change, got %+v", m.snap)
	}
	if strings.Contains(m.View(), "report") {
		t.Error("old result still visible")
	}
}

func TestNumberKeysSwitchContextOutsideTextFields(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m = press(m, tea.KeyF3) // filters: focus lands on the languages checklist
	m = typeText(m, "2")
	if m.switcher.Context() != model.ContextRecruiter {
		t.Errorf("expected recruiter context, got %s", m.switcher.Context())
	}
}

func TestFiltersSubmit(t *testing.T) {
	b := &fakeBackend{html: "<p>match</p>"}
	m, _ := newTestModel(t, b)
	m = press(m, tea.KeyF3)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.snap.Error != "Select at least one filter." {
		t.Fatalf("expected filter validation error, got %q", m.snap.Error)
	}

	// Focus moved to the result; cycle back to the languages list.
	for m.focus != fieldLanguages {
		m = press(m, tea.KeyTab)
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	for m.focus != fieldMinStars {
		m = press(m, tea.KeyTab)
	}
	m = typeText(m, "abc")
	m = typeText(m, "12")
	if got := m.minStars.Value(); got != "12" {
		t.Errorf("numeric input should accept digits only, got %q", got)
	}

	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(m, findSubmit(t, cmd))

	if b.calls() != 1 {
		t.Fatalf("expected 1 call, got %d", b.calls())
	}
	p, ok := b.payloads[0].(model.FilterRequest)
	if !ok {
		t.Fatalf("expected FilterRequest, got %T", b.payloads[0])
	}
	if len(p.Linguagens) != 1 || p.Linguagens[0] != "Go" {
		t.Errorf("expected linguagens [Go], got %v", p.Linguagens)
	}
	if p.MinStars == nil || *p.MinStars != 12 {
		t.Errorf("expected minStars 12, got %v", p.MinStars)
	}
	if p.MinRepos == nil || *p.MinRepos != 5 {
		t.Errorf("expected default minRepos, got %v", p.MinRepos)
	}
}

func TestEscCancelsInFlight(t *testing.T) {
	b := &fakeBackend{block: make(chan struct{})}
	defer close(b.block)
	m, _ := newTestModel(t, b)

	m = typeText(m, "octocat")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.pending[model.FormProfile] {
		t.Fatal("expected profile form pending")
	}

	doneCh := make(chan submitDoneMsg, 1)
	go func() {
		done, _ := runSubmit(cmd)
		doneCh <- done
	}()

	// Wait until the request is in flight before cancelling.
	for m.ctrl.State(model.FormProfile) != model.StateInFlight {
		time.Sleep(time.Millisecond)
	}

	// A second submit while pending is ignored.
	m, cmd2 := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd2 != nil {
		t.Error("expected no command while the form is in flight")
	}

	m = press(m, tea.KeyEsc)
	m, _ = update(m, <-doneCh)

	if m.snap.Error != "Request cancelled." {
		t.Errorf("expected cancelled message, got %q", m.snap.Error)
	}
	if m.pending[model.FormProfile] {
		t.Error("form should be released")
	}
	if b.calls() != 1 {
		t.Errorf("expected exactly 1 call, got %d", b.calls())
	}
}

func TestThemeToggle(t *testing.T) {
	m, themes := newTestModel(t, &fakeBackend{})
	if themes.Current() != model.ThemeDark {
		t.Fatalf("expected dark default, got %s", themes.Current())
	}

	m = press(m, tea.KeyCtrlT)
	if themes.Current() != model.ThemeLight {
		t.Errorf("expected light after toggle, got %s", themes.Current())
	}
	if !strings.Contains(m.View(), "theme: claro") {
		t.Error("header should show the current theme")
	}

	press(m, tea.KeyCtrlT)
	if themes.Current() != model.ThemeDark {
		t.Errorf("expected dark after second toggle, got %s", themes.Current())
	}
}

func TestRankingToggleOnlyInRecruiter(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m = press(m, tea.KeyCtrlR)
	if m.switcher.Ranking() {
		t.Error("ranking should stay off outside recruiter")
	}
	if m.status == "" {
		t.Error("expected a status hint")
	}

	m = press(m, tea.KeyF2)
	m = press(m, tea.KeyCtrlR)
	m = press(m, tea.KeyCtrlR)
	if m.switcher.Mode() != model.ModeRecruiterSimple {
		t.Errorf("second ctrl+r should return to the simple form, got %s", m.switcher.Mode())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestDuplicateCandidateWhileRankingInFlight(t *testing.T) {
	b := &fakeBackend{html: "<p>ranked</p>", block: make(chan struct{})}
	m, _ := newTestModel(t, b)
	m = press(m, tea.KeyF2)
	m = press(m, tea.KeyCtrlR)
	m = typeText(m, "Senior Go engineer")
	m = press(m, tea.KeyTab)
	m = typeText(m, "https://github.com/alice")
	m = press(m, tea.KeyEnter)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	doneCh := make(chan submitDoneMsg, 1)
	go func() {
		done, _ := runSubmit(cmd)
		doneCh <- done
	}()
	for m.ctrl.State(model.FormRanking) != model.StateInFlight {
		time.Sleep(time.Millisecond)
	}
	m, _ = update(m, regionChangedMsg{})

	for m.focus != fieldCandidateInput {
		m = press(m, tea.KeyTab)
	}
	m = typeText(m, "https://github.com/alice")
	m = press(m, tea.KeyEnter)

	if !m.snap.Loading || !m.pending[model.FormRanking] {
		t.Errorf("loading indicator should stay while the request runs, got %+v", m.snap)
	}
	if m.snap.Error != "Candidate already added." {
		t.Errorf("expected duplicate message, got %q", m.snap.Error)
	}
	view := m.View()
	if !strings.Contains(view, "Analyzing...") || !strings.Contains(view, "Candidate already added.") {
		t.Errorf("expected spinner and error together, got:\n%s", view)
	}

	close(b.block)
	m, _ = update(m, <-doneCh)
	if m.snap.Loading || m.snap.HasError() || m.snap.Content != "<p>ranked</p>" {
		t.Errorf("request result should replace the local error, got %+v", m.snap)
	}
	if m.candidates.Len() != 1 {
		t.Errorf("expected 1 candidate, got %d", m.candidates.Len())
	}
}

func TestSupersededResultNoted(t *testing.T) {
	b := &fakeBackend{html: "<p>late</p>", block: make(chan struct{})}
	m, _ := newTestModel(t, b)

	m = typeText(m, "octocat")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	doneCh := make(chan submitDoneMsg, 1)
	go func() {
		done, _ := runSubmit(cmd)
		doneCh <- done
	}()
	for m.ctrl.State(model.FormProfile) != model.StateInFlight {
		time.Sleep(time.Millisecond)
	}

	m = press(m, tea.KeyF3)
	close(b.block)
	m, _ = update(m, <-doneCh)

	if m.snap.HasResult() {
		t.Errorf("superseded result must not be shown, got %q", m.snap.Content)
	}
	if !strings.Contains(m.status, "finished in another view") {
		t.Errorf("expected a status note, got %q", m.status)
	}
	if !strings.Contains(m.View(), "finished in another view") {
		t.Error("status note should be visible")
	}
}
