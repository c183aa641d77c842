package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/evanschultz/todos/internal/domain"
)

// Fixed accents that do not come from the shared palette.
var (
	addButtonColor    = lipgloss.Color("#4299e1")
	deleteButtonColor = lipgloss.Color("#e53e3e")
	buttonTextColor   = lipgloss.Color("#ffffff")
)

// styles holds every lipgloss style the view uses for one palette.
type styles struct {
	page        lipgloss.Style
	container   lipgloss.Style
	title       lipgloss.Style
	themeToggle lipgloss.Style
	addButton   lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	text        lipgloss.Style
	textDone    lipgloss.Style
	deleteMark  lipgloss.Style
	empty       lipgloss.Style
	footer      lipgloss.Style
	filter      lipgloss.Style
	filterOn    lipgloss.Style
	clear       lipgloss.Style
	clearOff    lipgloss.Style
	status      lipgloss.Style
	overlay     lipgloss.Style
	overlayHead lipgloss.Style
	muted       color.Color
	border      color.Color
}

// newStyles derives the view styles from the palette variables and the active theme.
func newStyles(p domain.Palette, theme domain.ThemeName) styles {
	bg := lipgloss.Color(p.Background)
	fg := lipgloss.Color(p.Text)
	containerBg := lipgloss.Color(p.ContainerBg)
	border := lipgloss.Color(p.Border)

	muted := lipgloss.Color("#718096")
	rowBg := lipgloss.Color("#edf2f7")
	toggleBg := lipgloss.Color("#edf2f7")
	toggleFg := lipgloss.Color("#2d3748")
	if theme == domain.ThemeDark {
		muted = lipgloss.Color("#a0aec0")
		rowBg = lipgloss.Color("#4a5568")
		toggleBg = lipgloss.Color("#4a5568")
		toggleFg = lipgloss.Color("#f7fafc")
	}

	return styles{
		page: lipgloss.NewStyle().Background(bg),
		container: lipgloss.NewStyle().
			Background(containerBg).
			Foreground(fg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		title:       lipgloss.NewStyle().Bold(true).Foreground(fg),
		themeToggle: lipgloss.NewStyle().Bold(true).Foreground(toggleFg).Background(toggleBg).Padding(0, 1),
		addButton:   lipgloss.NewStyle().Bold(true).Foreground(buttonTextColor).Background(addButtonColor).Padding(0, 1),
		row:         lipgloss.NewStyle().Foreground(fg),
		rowSelected: lipgloss.NewStyle().Foreground(fg).Background(rowBg).Bold(true),
		text:        lipgloss.NewStyle().Foreground(fg),
		textDone:    lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		deleteMark:  lipgloss.NewStyle().Bold(true).Foreground(deleteButtonColor),
		empty:       lipgloss.NewStyle().Foreground(muted).Italic(true),
		footer:      lipgloss.NewStyle().Foreground(fg).BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(border),
		filter:      lipgloss.NewStyle().Foreground(fg).Border(lipgloss.HiddenBorder()).Padding(0, 1),
		filterOn:    lipgloss.NewStyle().Foreground(fg).Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		clear:       lipgloss.NewStyle().Foreground(fg).Underline(true),
		clearOff:    lipgloss.NewStyle().Foreground(muted).Faint(true),
		status:      lipgloss.NewStyle().Foreground(muted),
		overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Background(containerBg).
			Foreground(fg).
			Padding(0, 1),
		overlayHead: lipgloss.NewStyle().Bold(true).Foreground(addButtonColor),
		muted:       muted,
		border:      border,
	}
}
