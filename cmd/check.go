package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dcabrera/portfolio/internal/charts"
	"github.com/dcabrera/portfolio/internal/content"
	"github.com/dcabrera/portfolio/internal/currency"
)

var (
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted).Width(8)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText).Width(12).Align(lipgloss.Right)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print the chart datasets as they will be shown",
	RunE: func(cmd *cobra.Command, _ []string) error {
		renderCheck(cmd.OutOrStdout(), content.Sales(), content.Platforms(), content.Palette())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// renderCheck prints both datasets formatted like the page. A share total other
// than 100 is flagged but is not an error.
func renderCheck(w io.Writer, sales []content.SalesRecord, platforms []content.PlatformShare, palette []string) {
	var b strings.Builder

	b.WriteString("  " + headerStyle.Render("Monthly Sales Growth") + "\n")
	for _, s := range sales {
		b.WriteString("    " + labelStyle.Render(s.Month) + valueStyle.Render(currency.Format(s.Sales)) + "\n")
	}
	b.WriteString("\n")

	slices := make([]charts.Datum, 0, len(platforms))
	total := 0.0
	for _, p := range platforms {
		slices = append(slices, charts.Datum{Label: p.Name, Value: p.Value})
		total += p.Value
	}

	b.WriteString("  " + headerStyle.Render("Platform Distribution") + "\n")
	for _, entry := range charts.Legend(slices, palette, currency.Percent) {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Color)).Render("●")
		b.WriteString(fmt.Sprintf("    %s %s  %s\n", swatch, entry.Text, lipgloss.NewStyle().Foreground(colorMuted).Render(entry.Color)))
	}
	b.WriteString("\n")

	line := "  Share total: " + currency.Percent(total)
	if math.Abs(total-100) > 1e-9 {
		b.WriteString(warnStyle.Render(line+" (shares do not add up to 100%)") + "\n")
	} else {
		b.WriteString(okStyle.Render(line) + "\n")
	}

	_, _ = io.WriteString(w, b.String())
}
