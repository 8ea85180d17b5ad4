package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// field is one focusable element of the page.
type field int

const (
	fieldUsername field = iota
	fieldJob
	fieldCandidateInput
	fieldCandidateList
	fieldLanguages
	fieldSkills
	fieldMethodologies
	fieldMinRepos
	fieldMinStars
	fieldMinFollowers
	fieldRecent
	fieldLocation
	fieldResult
)

// fieldsFor lists the focusable fields of a mode in tab order.
func fieldsFor(mode model.Mode) []field {
	switch mode {
	case model.ModeRecruiterRanking:
		return []field{fieldJob, fieldCandidateInput, fieldCandidateList, fieldResult}
	case model.ModeAdvancedFilters:
		return []field{
			fieldLanguages, fieldSkills, fieldMethodologies,
			fieldMinRepos, fieldMinStars, fieldMinFollowers,
			fieldRecent, fieldLocation, fieldResult,
		}
	default:
		return []field{fieldUsername, fieldResult}
	}
}

// isText reports whether f consumes printable keys.
func (f field) isText() bool {
	switch f {
	case fieldUsername, fieldJob, fieldCandidateInput,
		fieldMinRepos, fieldMinStars, fieldMinFollowers, fieldLocation:
		return true
	}
	return false
}

// checklist is a multi-select list of filter options.
type checklist struct {
	title   string
	options []string
	checked []bool
	cursor  int
}

func newChecklist(title string, options []string) checklist {
	return checklist{title: title, options: options, checked: make([]bool, len(options))}
}

func (c checklist) up() checklist {
	if c.cursor > 0 {
		c.cursor--
	}
	return c
}

func (c checklist) down() checklist {
	if c.cursor < len(c.options)-1 {
		c.cursor++
	}
	return c
}

func (c checklist) toggle() checklist {
	if len(c.options) == 0 {
		return c
	}
	checked := make([]bool, len(c.checked))
	copy(checked, c.checked)
	checked[c.cursor] = !checked[c.cursor]
	c.checked = checked
	return c
}

// selected returns the checked options in display order.
func (c checklist) selected() []string {
	var out []string
	for i, on := range c.checked {
		if on {
			out = append(out, c.options[i])
		}
	}
	return out
}

// triState cycles unset → yes → no. Unset sends the configured default.
type triState struct {
	value *bool
}

func (t triState) next() triState {
	switch {
	case t.value == nil:
		v := true
		return triState{value: &v}
	case *t.value:
		v := false
		return triState{value: &v}
	default:
		return triState{}
	}
}

func (t triState) label() string {
	switch {
	case t.value == nil:
		return "default"
	case *t.value:
		return "yes"
	default:
		return "no"
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "› "
	return in
}

// numberValue parses a numeric input. Empty means unset.
func numberValue(in textinput.Model) *int {
	s := strings.TrimSpace(in.Value())
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func onlyDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
