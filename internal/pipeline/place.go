package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// place moves a produced artifact into the named subfolder of its own
// directory, creating the folder if absent. Moving onto itself is a no-op.
func place(outputPath, folder string) (string, error) {
	destDir := filepath.Join(filepath.Dir(outputPath), folder)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}

	dest := filepath.Join(destDir, filepath.Base(outputPath))
	if filepath.Clean(dest) == filepath.Clean(outputPath) {
		return outputPath, nil
	}

	if err := moveFile(outputPath, dest); err != nil {
		return "", fmt.Errorf("place output: %w", err)
	}
	return dest, nil
}

// moveFile renames, falling back to copy-and-delete when the rename crosses
// a filesystem boundary.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}
	return os.Remove(src)
}
