package main

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/evanschultz/todos/internal/domain"
	"github.com/spf13/cobra"
)

// newPaletteCmd builds the palette subcommand.
func newPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "Show the light and dark theme variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := lipgloss.Fprintln(cmd.OutOrStdout(), renderPaletteTable())
			return err
		},
	}
}

// renderPaletteTable renders one row per theme variable with a swatch for each theme.
func renderPaletteTable() string {
	light := domain.PaletteFor(domain.ThemeLight).Vars()
	dark := domain.PaletteFor(domain.ThemeDark).Vars()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(dark[domain.VarBorder]))).
		Headers("Variable", "Light", "Dark").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, name := range domain.PaletteVars {
		t.Row(name, swatch(light[name], light[domain.VarText]), swatch(dark[name], dark[domain.VarText]))
	}
	return t.Render()
}

// swatch renders hex on its own color.
func swatch(hex, text string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(text)).
		Width(11).
		Align(lipgloss.Center).
		Render(hex)
}
