package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediapress",
	Short: "mediapress - batch-optimize images, video, and PDFs for the web",
	Long: "mediapress batch-transforms media files into web-optimized artifacts\n" +
		"by driving external encoders (ffmpeg, Ghostscript): resize, compress,\n" +
		"or both, with per-file progress and a whole-batch summary.",
}

func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
