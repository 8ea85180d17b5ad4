package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LeoncioDev/github-analyzer/internal/model"
	"github.com/LeoncioDev/github-analyzer/internal/render"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Theme model.Theme

	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	StatusFg   lipgloss.Color
	StatusBg   lipgloss.Color
	SelectedFg lipgloss.Color
	SelectedBg lipgloss.Color
}

var (
	Light = Palette{
		Theme:      model.ThemeLight,
		Primary:    "#1E40AF",
		Accent:     "#7C3AED",
		Foreground: "#111827",
		Muted:      "#6B7280",
		Border:     "#D1D5DB",
		Success:    "#059669",
		Error:      "#DC2626",
		StatusFg:   "#111827",
		StatusBg:   "#E5E7EB",
		SelectedFg: "#111827",
		SelectedBg: "#DBEAFE",
	}

	Dark = Palette{
		Theme:      model.ThemeDark,
		Primary:    "#3B82F6",
		Accent:     "#A855F7",
		Foreground: "#F9FAFB",
		Muted:      "#9CA3AF",
		Border:     "#374151",
		Success:    "#10B981",
		Error:      "#EF4444",
		StatusFg:   "#D1D5DB",
		StatusBg:   "#1F2937",
		SelectedFg: "#FFFFFF",
		SelectedBg: "#1E3A8A",
	}
)

// PaletteFor returns the palette of t. Unknown themes get the dark palette.
func PaletteFor(t model.Theme) Palette {
	if t == model.ThemeLight {
		return Light
	}
	return Dark
}

// Styles are the lipgloss styles the terminal page is drawn with.
type Styles struct {
	Title      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Label      lipgloss.Style
	Hint       lipgloss.Style
	Text       lipgloss.Style
	Box        lipgloss.Style
	FocusedBox lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Status     lipgloss.Style
	Selected   lipgloss.Style
	Checked    lipgloss.Style
	Spinner    lipgloss.Style
	Result     render.Styles
}

// NewStyles builds the styles for p.
func NewStyles(p Palette) Styles {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Padding(0, 1),
		Tab:        lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		ActiveTab:  lipgloss.NewStyle().Bold(true).Foreground(p.SelectedFg).Background(p.SelectedBg).Padding(0, 1),
		Label:      lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Hint:       lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Text:       lipgloss.NewStyle().Foreground(p.Foreground),
		Box:        box,
		FocusedBox: box.BorderForeground(p.Primary),
		Error:      lipgloss.NewStyle().Bold(true).Foreground(p.Error),
		Success:    lipgloss.NewStyle().Foreground(p.Success),
		Status:     lipgloss.NewStyle().Foreground(p.StatusFg).Background(p.StatusBg).Padding(0, 1),
		Selected:   lipgloss.NewStyle().Foreground(p.SelectedFg).Background(p.SelectedBg),
		Checked:    lipgloss.NewStyle().Foreground(p.Success),
		Spinner:    lipgloss.NewStyle().Foreground(p.Accent),
		Result: render.Styles{
			Heading:  lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
			Strong:   lipgloss.NewStyle().Bold(true),
			Emphasis: lipgloss.NewStyle().Italic(true),
			Code:     lipgloss.NewStyle().Foreground(p.Accent),
			Link:     lipgloss.NewStyle().Underline(true).Foreground(p.Primary),
			Bullet:   lipgloss.NewStyle().Foreground(p.Accent),
			Quote:    lipgloss.NewStyle().Foreground(p.Muted),
			Rule:     lipgloss.NewStyle().Foreground(p.Border),
		},
	}
}
