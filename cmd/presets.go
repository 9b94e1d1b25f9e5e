package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mediapress/internal/preset"
	"mediapress/internal/tui"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available resize presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		lastFamily := preset.Family(-1)
		for _, p := range preset.Catalog {
			if p.Family != lastFamily {
				fmt.Fprintf(os.Stdout, "%s\n", presetFamilyStyle.Render(p.Family.String()+" presets"))
				lastFamily = p.Family
			}
			geometry := fmt.Sprintf("fit within %dx%d", p.Width, p.Height)
			if p.Mode == preset.ModeExact {
				geometry = fmt.Sprintf("exactly %dx%d (padded)", p.Width, p.Height)
			}
			fmt.Fprintf(os.Stdout, "  %s %s\n",
				presetNameStyle.Render(padRight(p.Name, 10)),
				presetDimStyle.Render(geometry),
			)
		}
	},
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}

var (
	presetFamilyStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	presetNameStyle   = lipgloss.NewStyle().Foreground(tui.ColorInk)
	presetDimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(presetsCmd)
}
