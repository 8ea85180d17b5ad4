// Package tui is the interactive terminal page: context selector, the three
// forms, and the shared result region.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LeoncioDev/github-analyzer/internal/candidates"
	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/display"
	"github.com/LeoncioDev/github-analyzer/internal/model"
	"github.com/LeoncioDev/github-analyzer/internal/render"
	"github.com/LeoncioDev/github-analyzer/internal/theme"
	"github.com/LeoncioDev/github-analyzer/internal/view"
)

const helpText = "ctrl+s submit • tab focus • f1-f3 context • ctrl+r ranking • ctrl+t theme • esc cancel • ctrl+c quit"

// Options configures the page.
type Options struct {
	CandidatesMax int
	Languages     []string
	Skills        []string
	Methodologies []string
}

// submitDoneMsg is sent when a backend request for a form finishes.
type submitDoneMsg struct {
	out controller.Outcome
	err error
}

// regionChangedMsg is sent when a request goroutine updates the result region.
type regionChangedMsg struct{}

// Model is the bubbletea model of the page.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	themes *theme.Manager
	logger *slog.Logger
	styles theme.Styles

	switcher view.Switcher
	focus    field

	username   textinput.Model
	job        textarea.Model
	candidate  textinput.Model
	candidates candidates.List
	candCursor int

	languages     checklist
	skills        checklist
	methodologies checklist
	minRepos      textinput.Model
	minStars      textinput.Model
	minFollowers  textinput.Model
	recent        triState
	location      textinput.Model

	spinner spinner.Model
	result  viewport.Model
	snap    display.Snapshot
	pending map[model.FormID]bool

	status string
	width  int
	height int
	ready  bool
}

// New creates the page in self-analysis mode.
func New(ctrl *controller.Controller, themes *theme.Manager, opts Options, logger *slog.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	job := textarea.New()
	job.Placeholder = "Paste the job description..."
	job.ShowLineNumbers = false
	job.CharLimit = 5000
	job.SetHeight(4)

	m := Model{
		ctx:           context.Background(),
		ctrl:          ctrl,
		themes:        themes,
		logger:        logger,
		styles:        themes.Styles(),
		switcher:      view.New(model.ContextSelfAnalysis),
		job:           job,
		candidate:     newInput("https://github.com/username", 200),
		candidates:    candidates.New(opts.CandidatesMax),
		languages:     newChecklist("Languages", opts.Languages),
		skills:        newChecklist("Skills", opts.Skills),
		methodologies: newChecklist("Methodologies", opts.Methodologies),
		minRepos:      newInput("default", 6),
		minStars:      newInput("default", 6),
		minFollowers:  newInput("default", 6),
		location:      newInput("any", 100),
		spinner:       sp,
		result:        viewport.New(0, 0),
		snap:          ctrl.Region().Snapshot(),
		pending:       make(map[model.FormID]bool),
	}
	m.username = newInput(m.switcher.Placeholder(), 200)
	m.spinner.Style = m.styles.Spinner
	return m.focusField(fieldUsername)
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if next.ready {
		next.layout()
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case submitDoneMsg:
		if errors.Is(msg.err, model.ErrInFlight) {
			return m.sync(), nil
		}
		delete(m.pending, msg.out.Form)
		if msg.out.Form != "" && !msg.out.Shown {
			m.status = fmt.Sprintf("The %s request finished in another view; submit again to see its result.", msg.out.Form)
		}
		return m.sync(), nil

	case regionChangedMsg:
		return m.sync(), nil

	case spinner.TickMsg:
		if len(m.pending) == 0 {
			return m.sync(), nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m.sync(), cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	m.status = ""

	switch key {
	case "ctrl+c":
		for _, f := range model.Forms {
			m.ctrl.Cancel(f)
		}
		return m, tea.Quit
	case "ctrl+s":
		return m.submit()
	case "ctrl+t":
		return m.toggleTheme(), nil
	case "ctrl+r":
		return m.toggleRanking(), nil
	case "f1", "f2", "f3":
		return m.selectContext(model.Contexts[key[1]-'1']), nil
	case "tab":
		return m.cycleFocus(1), nil
	case "shift+tab":
		return m.cycleFocus(-1), nil
	case "esc":
		return m.escape(), nil
	}

	if !m.focus.isText() {
		switch key {
		case "1", "2", "3":
			return m.selectContext(model.Contexts[key[0]-'1']), nil
		case "left":
			return m.shiftContext(-1), nil
		case "right":
			return m.shiftContext(1), nil
		}
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	var cmd tea.Cmd

	switch m.focus {
	case fieldUsername:
		if key == "enter" {
			return m.submit()
		}
		m.username, cmd = m.username.Update(msg)

	case fieldJob:
		m.job, cmd = m.job.Update(msg)

	case fieldCandidateInput:
		if key == "enter" {
			return m.addCandidate(), nil
		}
		m.candidate, cmd = m.candidate.Update(msg)

	case fieldCandidateList:
		switch key {
		case "up", "k":
			if m.candCursor > 0 {
				m.candCursor--
			}
		case "down", "j":
			if m.candCursor < m.candidates.Len()-1 {
				m.candCursor++
			}
		case "x", "delete", "backspace":
			return m.removeCandidate(), nil
		}

	case fieldLanguages, fieldSkills, fieldMethodologies:
		c := m.checklistFor(m.focus)
		switch key {
		case "up", "k":
			*c = c.up()
		case "down", "j":
			*c = c.down()
		case " ", "space", "enter":
			*c = c.toggle()
		}

	case fieldMinRepos, fieldMinStars, fieldMinFollowers:
		if msg.Type == tea.KeyRunes && !onlyDigits(msg.Runes) {
			return m, nil
		}
		in := m.numberInput(m.focus)
		*in, cmd = in.Update(msg)

	case fieldRecent:
		if key == " " || key == "space" || key == "enter" {
			m.recent = m.recent.next()
		}

	case fieldLocation:
		m.location, cmd = m.location.Update(msg)

	case fieldResult:
		m.result, cmd = m.result.Update(msg)
	}

	return m, cmd
}

// submit validates the active form and starts its request. A form whose
// request is still running is left alone.
func (m Model) submit() (Model, tea.Cmd) {
	mode := m.switcher.Mode()
	form := mode.Form()
	if m.pending[form] {
		m.status = model.Describe(model.ErrInFlight)
		return m, nil
	}

	req, err := m.buildRequest(mode)
	if err != nil {
		m.ctrl.Reject(form, err)
		return m.sync(), nil
	}

	m.pending[form] = true
	ctx, ctrl := m.ctx, m.ctrl
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		out, err := ctrl.Submit(ctx, req)
		return submitDoneMsg{out: out, err: err}
	})
}

func (m Model) buildRequest(mode model.Mode) (controller.Request, error) {
	switch mode {
	case model.ModeRecruiterRanking:
		return m.ctrl.BuildRanking(controller.RankingInput{
			JobDescription: m.job.Value(),
			Candidates:     m.candidates.Items(),
		})
	case model.ModeAdvancedFilters:
		return m.ctrl.BuildFilters(controller.FilterInput{
			Languages:      m.languages.selected(),
			Skills:         m.skills.selected(),
			Methodologies:  m.methodologies.selected(),
			MinRepos:       numberValue(m.minRepos),
			MinStars:       numberValue(m.minStars),
			MinFollowers:   numberValue(m.minFollowers),
			RecentActivity: m.recent.value,
			Location:       m.location.Value(),
		})
	default:
		return m.ctrl.BuildProfile(controller.ProfileInput{
			UsernameOrURL: m.username.Value(),
			Context:       m.switcher.Context(),
		})
	}
}

func (m Model) addCandidate() Model {
	list, err := m.candidates.Add(m.candidate.Value())
	if err != nil {
		m.ctrl.Reject(model.FormRanking, &model.ValidationError{Form: model.FormRanking, Err: err})
		return m.sync()
	}
	m.candidates = list
	m.candidate.SetValue("")
	if m.snap.HasError() {
		m.ctrl.Region().DismissError()
	}
	return m.sync()
}

func (m Model) removeCandidate() Model {
	items := m.candidates.Items()
	if len(items) == 0 {
		return m
	}
	m.candidates = m.candidates.Remove(items[m.candCursor])
	if m.candCursor >= m.candidates.Len() && m.candCursor > 0 {
		m.candCursor--
	}
	return m
}

func (m Model) selectContext(ctx model.Context) Model {
	if ctx == m.switcher.Context() {
		return m
	}
	m.switcher = m.switcher.Select(ctx)
	return m.afterTransition()
}

func (m Model) shiftContext(delta int) Model {
	n := len(model.Contexts)
	idx := 0
	for i, c := range model.Contexts {
		if c == m.switcher.Context() {
			idx = i
		}
	}
	return m.selectContext(model.Contexts[(idx+delta+n)%n])
}

func (m Model) toggleRanking() Model {
	if m.switcher.Context() != model.ContextRecruiter {
		m.status = "Ranking is only available in recruiter mode."
		return m
	}
	if m.switcher.Ranking() {
		m.switcher = m.switcher.CancelRanking()
	} else {
		m.switcher = m.switcher.SetRanking(true)
	}
	return m.afterTransition()
}

// afterTransition clears the result region and focuses the first field of
// the new mode.
func (m Model) afterTransition() Model {
	m.ctrl.ClearView()
	m.username.Placeholder = m.switcher.Placeholder()
	m = m.focusField(fieldsFor(m.switcher.Mode())[0])
	return m.sync()
}

func (m Model) escape() Model {
	form := m.switcher.Mode().Form()
	switch {
	case m.pending[form]:
		m.ctrl.Cancel(form)
		return m
	case m.snap.HasError():
		m.ctrl.Region().DismissError()
		return m.sync()
	case m.focus == fieldResult:
		return m.focusField(fieldsFor(m.switcher.Mode())[0])
	}
	return m
}

func (m Model) toggleTheme() Model {
	if _, err := m.themes.Toggle(); err != nil {
		m.logger.Warn("theme not saved", "error", err)
		m.status = "Theme not saved: " + err.Error()
	}
	m.styles = m.themes.Styles()
	m.spinner.Style = m.styles.Spinner
	m.refreshResult()
	return m
}

func (m Model) cycleFocus(delta int) Model {
	fields := fieldsFor(m.switcher.Mode())
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	return m.focusField(fields[(idx+delta+len(fields))%len(fields)])
}

func (m Model) focusField(f field) Model {
	m.username.Blur()
	m.job.Blur()
	m.candidate.Blur()
	m.minRepos.Blur()
	m.minStars.Blur()
	m.minFollowers.Blur()
	m.location.Blur()

	switch f {
	case fieldUsername:
		m.username.Focus()
	case fieldJob:
		m.job.Focus()
	case fieldCandidateInput:
		m.candidate.Focus()
	case fieldMinRepos, fieldMinStars, fieldMinFollowers:
		m.numberInput(f).Focus()
	case fieldLocation:
		m.location.Focus()
	}
	m.focus = f
	return m
}

func (m *Model) checklistFor(f field) *checklist {
	switch f {
	case fieldSkills:
		return &m.skills
	case fieldMethodologies:
		return &m.methodologies
	default:
		return &m.languages
	}
}

func (m *Model) numberInput(f field) *textinput.Model {
	switch f {
	case fieldMinStars:
		return &m.minStars
	case fieldMinFollowers:
		return &m.minFollowers
	default:
		return &m.minRepos
	}
}

// sync pulls the region state. Every lifecycle transition of the region
// moves focus to the result.
func (m Model) sync() Model {
	snap := m.ctrl.Region().Snapshot()
	if snap == m.snap {
		return m
	}
	focusMoved := snap.Focus != m.snap.Focus
	m.snap = snap
	if focusMoved {
		m = m.focusField(fieldResult)
	}
	m.refreshResult()
	return m
}

func (m *Model) refreshResult() {
	var content string
	switch {
	case m.snap.HasError():
		content = m.styles.Error.Render(m.snap.Error)
	case m.snap.HasResult():
		content = render.New(m.styles.Result, m.result.Width).Render(m.snap.Content)
	}
	m.result.SetContent(content)
	m.result.GotoTop()
}

// layout sizes the inputs and the result viewport to the window.
func (m *Model) layout() {
	inner := max(m.width-4, 10)
	m.username.Width = inner - 4
	m.candidate.Width = inner - 4
	m.location.Width = inner - 4
	m.job.SetWidth(inner)

	used := lipgloss.Height(m.headerView()) + lipgloss.Height(m.formView()) + lipgloss.Height(m.statusView())
	height := max(m.height-used-2, 3)

	widthChanged := m.result.Width != inner
	m.result.Width = inner
	m.result.Height = height
	if widthChanged {
		m.refreshResult()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	sections := []string{m.headerView(), m.formView()}
	if r := m.resultView(); r != "" {
		sections = append(sections, r)
	}
	sections = append(sections, m.statusView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	title := m.styles.Title.Render("GitHub Analyzer")
	themeLabel := m.styles.Hint.Render("theme: " + string(m.themes.Current()))

	tabs := make([]string, 0, len(model.Contexts))
	for i, c := range model.Contexts {
		label := fmt.Sprintf("%d %s", i+1, c.Label())
		if c == m.switcher.Context() {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return title + "  " + themeLabel + "\n" + strings.Join(tabs, " ")
}

func (m Model) formView() string {
	v := m.switcher.Visibility()
	var b strings.Builder

	if v.RankingToggle {
		mark := "[ ]"
		if m.switcher.Ranking() {
			mark = "[x]"
		}
		b.WriteString(m.styles.Text.Render(mark+" Rank candidates for a job") + "  " + m.styles.Hint.Render("ctrl+r") + "\n\n")
	}

	switch {
	case v.SimpleForm:
		b.WriteString(m.profileView())
	case v.RankingForm:
		b.WriteString(m.rankingView())
	case v.FiltersArea:
		b.WriteString(m.filtersView())
	}

	box := m.styles.Box
	if m.focus != fieldResult {
		box = m.styles.FocusedBox
	}
	return box.Width(max(m.width-2, 0)).Render(b.String())
}

func (m Model) label(text string, f field) string {
	if m.focus == f {
		return m.styles.Label.Render(text)
	}
	return m.styles.Text.Render(text)
}

func (m Model) profileView() string {
	return m.label("GitHub user or profile URL", fieldUsername) + "\n" + m.username.View()
}

func (m Model) rankingView() string {
	var b strings.Builder
	b.WriteString(m.label("Job description", fieldJob) + "\n")
	b.WriteString(m.job.View() + "\n\n")

	count := fmt.Sprintf("%d", m.candidates.Len())
	if m.candidates.Max() > 0 {
		count += fmt.Sprintf("/%d", m.candidates.Max())
	}
	b.WriteString(m.label("Candidates ("+count+")", fieldCandidateInput) + "\n")
	b.WriteString(m.candidate.View() + "\n")

	items := m.candidates.Items()
	if len(items) == 0 {
		b.WriteString(m.styles.Hint.Render("No candidates yet. Type a URL and press enter."))
	}
	for i, url := range items {
		line := "  " + url
		if m.focus == fieldCandidateList && i == m.candCursor {
			line = m.styles.Selected.Render("> "+url) + "  " + m.styles.Hint.Render("x remove")
		}
		b.WriteString(line)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) filtersView() string {
	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		m.checklistView(m.languages, fieldLanguages),
		"    ",
		m.checklistView(m.skills, fieldSkills),
		"    ",
		m.checklistView(m.methodologies, fieldMethodologies),
	)

	rows := []string{
		lists,
		"",
		m.label("Min repos     ", fieldMinRepos) + m.minRepos.View(),
		m.label("Min stars     ", fieldMinStars) + m.minStars.View(),
		m.label("Min followers ", fieldMinFollowers) + m.minFollowers.View(),
		m.label("Recent activity ", fieldRecent) + m.recent.label(),
		m.label("Location      ", fieldLocation) + m.location.View(),
	}
	return strings.Join(rows, "\n")
}

func (m Model) checklistView(c checklist, f field) string {
	lines := []string{m.label(c.title, f)}
	for i, opt := range c.options {
		mark := "[ ]"
		if c.checked[i] {
			mark = m.styles.Checked.Render("[x]")
		}
		if m.focus == f && i == c.cursor {
			lines = append(lines, m.styles.Selected.Render(">")+" "+mark+" "+opt)
		} else {
			lines = append(lines, "  "+mark+" "+opt)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) resultView() string {
	var body string
	switch {
	case m.snap.Loading:
		body = m.spinner.View() + " Analyzing..."
		if m.snap.HasError() {
			body += "\n" + m.styles.Error.Render(m.snap.Error)
		}
	case m.snap.HasError(), m.snap.HasResult():
		body = m.result.View()
	default:
		return ""
	}

	box := m.styles.Box
	if m.focus == fieldResult {
		box = m.styles.FocusedBox
	}
	return box.Width(max(m.width-2, 0)).Render(body)
}

func (m Model) statusView() string {
	text := helpText
	if m.status != "" {
		text = m.status
	}
	return m.styles.Status.Width(max(m.width, 0)).Render(text)
}
