package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mediapress/internal/config"
	"mediapress/internal/display"
	"mediapress/internal/encode"
	"mediapress/internal/logging"
	"mediapress/internal/pipeline"
	"mediapress/internal/preset"
	"mediapress/internal/toolpath"
	"mediapress/internal/tui"
)

var (
	processResize       string
	processCompress     bool
	processPDFQuality   string
	processOutputFolder string
	processPlain        bool
	processVerbose      bool
)

var processCmd = &cobra.Command{
	Use:   "process [flags] <file>...",
	Short: "Resize and/or compress media files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Load()

		opts := config.ProcessingOptions{
			Compress:     processCompress,
			OutputFolder: processOutputFolder,
		}
		if opts.OutputFolder == "" {
			opts.OutputFolder = settings.OutputFolder
		}

		if processResize != "" {
			p, ok := preset.ByName(processResize)
			if !ok {
				return fmt.Errorf("unknown preset %q (see 'mediapress presets')", processResize)
			}
			opts.Resize = true
			opts.Preset = &p
		}

		switch processPDFQuality {
		case "high":
			opts.Mode = config.ModeMinimumOptimize
		case "medium", "":
			opts.Mode = config.ModeOriginal
		case "low":
			opts.Mode = config.ModeMaxOptimize
		default:
			return fmt.Errorf("invalid --pdf-quality %q (want high, medium, or low)", processPDFQuality)
		}

		if err := opts.Validate(); err != nil {
			return err
		}

		paths := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			paths = append(paths, abs)
		}

		verbose := processVerbose || settings.Verbose
		logDest := io.Writer(os.Stderr)
		if !processPlain && !verbose {
			// The TUI owns the terminal; keep routine logs out of its way.
			logDest = io.Discard
		}
		logger := logging.New(logDest, verbose)

		locator := toolpath.New(map[toolpath.Tool]string{
			toolpath.FFmpeg:      settings.FFmpegPath,
			toolpath.Ghostscript: settings.GhostscriptPath,
		})
		engine := encode.New(locator, logger, settings.ToolTimeout)
		pipe := pipeline.New(engine, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		updates := make(chan pipeline.ProgressUpdate, 64)
		uiDone := make(chan struct{})

		if processPlain || verbose {
			go func() {
				defer close(uiDone)
				for u := range updates {
					logger.Debug().
						Str("file", u.File).
						Str("stage", u.Stage.String()).
						Int("overall", u.OverallPercent).
						Msg("progress")
				}
			}()
		} else {
			program := tea.NewProgram(tui.NewModel(updates))
			go func() {
				defer close(uiDone)
				_, _ = program.Run()
			}()
		}

		result := pipe.Run(ctx, paths, opts, updates)
		close(updates)
		<-uiDone

		rows := []tui.SummaryRow{
			{Label: "Total files", Value: fmt.Sprintf("%d", result.TotalFiles)},
			{Label: "Succeeded", Value: fmt.Sprintf("%d", result.SuccessCount)},
			{Label: "Failed", Value: fmt.Sprintf("%d", result.FailureCount)},
			{Label: "Input size", Value: display.FormatBytes(result.OriginalBytes)},
			{Label: "Output size", Value: display.FormatBytes(result.ProcessedBytes)},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		fmt.Fprintln(os.Stdout, display.Summary(result))
		if report := display.FailureReport(result); report != "" {
			fmt.Fprintln(os.Stdout, report)
		}

		if result.TotalFiles > 0 && result.SuccessCount == 0 {
			return fmt.Errorf("no files were processed successfully")
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processResize, "resize", "r", "", "resize preset name (see 'mediapress presets')")
	processCmd.Flags().BoolVarP(&processCompress, "compress", "c", false, "compress for web delivery")
	processCmd.Flags().StringVar(&processPDFQuality, "pdf-quality", "medium", "PDF optimization tier: high, medium, or low")
	processCmd.Flags().StringVarP(&processOutputFolder, "output-folder", "o", "", "move outputs into this subfolder of each source directory")
	processCmd.Flags().BoolVar(&processPlain, "plain", false, "disable the progress UI")
	processCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "debug logging (implies --plain)")

	rootCmd.AddCommand(processCmd)
}
