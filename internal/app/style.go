package app

import "github.com/evanschultz/todos/internal/domain"

// StyleContext holds the shared color variables read by the render layer.
// A theme toggle writes all four at once; readers holding the pointer see the change immediately.
// The zero value is empty until the first Apply.
type StyleContext struct {
	vars map[string]string
}

// NewStyleContext constructs a context on the light palette.
func NewStyleContext() *StyleContext {
	return &StyleContext{vars: domain.LightPalette.Vars()}
}

// Apply writes every palette variable.
func (s *StyleContext) Apply(p domain.Palette) {
	if s.vars == nil {
		s.vars = make(map[string]string, len(domain.PaletteVars))
	}
	for name, value := range p.Vars() {
		s.vars[name] = value
	}
}

// Var returns one variable by name.
func (s *StyleContext) Var(name string) (string, bool) {
	value, ok := s.vars[name]
	return value, ok
}

// Palette returns the current variables as a palette.
func (s *StyleContext) Palette() domain.Palette {
	return domain.Palette{
		Background:  s.vars[domain.VarBackground],
		Text:        s.vars[domain.VarText],
		ContainerBg: s.vars[domain.VarContainerBg],
		Border:      s.vars[domain.VarBorder],
	}
}

// Theme reports which palette is applied.
func (s *StyleContext) Theme() domain.ThemeName {
	if s.Palette() == domain.DarkPalette {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}
