package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mediapress/internal/config"
	"mediapress/internal/toolpath"
	"mediapress/internal/tui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external encoders can be found",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings := config.Load()
		locator := toolpath.New(map[toolpath.Tool]string{
			toolpath.FFmpeg:      settings.FFmpegPath,
			toolpath.Ghostscript: settings.GhostscriptPath,
		})

		checkTool(locator, toolpath.FFmpeg, "-version")
		checkTool(locator, toolpath.Ghostscript, "--version")
	},
}

// checkTool resolves one tool and, if runnable, prints its version line.
// Informational only; a missing tool does not fail the command.
func checkTool(locator *toolpath.Locator, tool toolpath.Tool, versionFlag string) {
	r := locator.Resolve(tool)
	fmt.Fprintf(os.Stdout, "%s\n", doctorToolStyle.Render(tool.BareName()))
	fmt.Fprintf(os.Stdout, "  path: %s\n", r.Path)

	out, err := exec.Command(r.Path, versionFlag).Output()
	if err != nil {
		fmt.Fprintf(os.Stdout, "  %s\n", doctorBadStyle.Render("not runnable: "+err.Error()))
		if len(r.Searched) > 0 {
			fmt.Fprintf(os.Stdout, "  searched:\n")
			for _, p := range r.Searched {
				fmt.Fprintf(os.Stdout, "    - %s\n", doctorDimStyle.Render(p))
			}
		}
		return
	}

	version := strings.TrimSpace(string(out))
	if idx := strings.Index(version, "\n"); idx > 0 {
		version = version[:idx]
	}
	fmt.Fprintf(os.Stdout, "  %s\n", doctorGoodStyle.Render(version))
}

var (
	doctorToolStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	doctorGoodStyle = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	doctorBadStyle  = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	doctorDimStyle  = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}
