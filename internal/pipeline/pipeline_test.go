package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"mediapress/internal/config"
	"mediapress/internal/encode"
	"mediapress/internal/preset"
)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

// fakeEngine implements Transformer without spawning anything. Each op
// writes its expected sibling output so the coordinator's existence check
// passes.
type fakeEngine struct {
	resizeErr   error
	compressErr error
	outputSize  int

	resizeCalls   []string
	compressCalls []string
	pdfCalls      []string
	pdfTier       encode.PDFQuality
}

func (f *fakeEngine) emit(in, suffix, ext string) (encode.Result, error) {
	orig, err := os.Stat(in)
	if err != nil {
		return encode.Result{}, err
	}
	base := strings.TrimSuffix(in, filepath.Ext(in))
	out := base + "." + suffix + "." + ext
	size := f.outputSize
	if size == 0 {
		size = 10
	}
	if err := os.WriteFile(out, make([]byte, size), 0o644); err != nil {
		return encode.Result{}, err
	}
	return encode.Result{OutputPath: out, OriginalSize: orig.Size(), ProcessedSize: int64(size)}, nil
}

func (f *fakeEngine) ResizeImage(_ context.Context, path string, _ preset.Preset, progress encode.ProgressFunc) (encode.Result, error) {
	f.resizeCalls = append(f.resizeCalls, path)
	if progress != nil {
		progress(encode.StageTransforming, encode.StageTransforming.Percent())
	}
	if f.resizeErr != nil {
		return encode.Result{}, f.resizeErr
	}
	return f.emit(path, "resized", "webp")
}

func (f *fakeEngine) ResizeVideo(ctx context.Context, path string, p preset.Preset, progress encode.ProgressFunc) (encode.Result, error) {
	f.resizeCalls = append(f.resizeCalls, path)
	if f.resizeErr != nil {
		return encode.Result{}, f.resizeErr
	}
	return f.emit(path, "resized", "mp4")
}

func (f *fakeEngine) CompressImage(_ context.Context, path string, progress encode.ProgressFunc) (encode.Result, error) {
	f.compressCalls = append(f.compressCalls, path)
	if f.compressErr != nil {
		return encode.Result{}, f.compressErr
	}
	return f.emit(path, "min", "webp")
}

func (f *fakeEngine) CompressVideo(_ context.Context, path string, progress encode.ProgressFunc) (encode.Result, error) {
	f.compressCalls = append(f.compressCalls, path)
	if f.compressErr != nil {
		return encode.Result{}, f.compressErr
	}
	return f.emit(path, "min", "mp4")
}

func (f *fakeEngine) CompressPDF(_ context.Context, path string, q encode.PDFQuality, progress encode.ProgressFunc) (encode.Result, error) {
	f.pdfCalls = append(f.pdfCalls, path)
	f.pdfTier = q
	if f.compressErr != nil {
		return encode.Result{}, f.compressErr
	}
	return f.emit(path, "min", "pdf")
}

func newTestPipeline(eng Transformer) *Pipeline {
	return New(eng, zerolog.Nop())
}

func writeImage(t *testing.T, dir, name string, size int) string {
	t.Helper()
	data := append(append([]byte{}, pngMagic...), make([]byte, size-len(pngMagic))...)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\nstub content"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func compressOnly() config.ProcessingOptions {
	return config.ProcessingOptions{Compress: true}
}

func resizeAndCompress(t *testing.T) config.ProcessingOptions {
	t.Helper()
	p, ok := preset.ByName("large")
	if !ok {
		t.Fatal("large preset missing")
	}
	return config.ProcessingOptions{Resize: true, Compress: true, Preset: &p}
}

func TestBatchCountsWithUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 100)
	txt := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(txt, []byte("hello, plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := writeImage(t, dir, "c.png", 100)

	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(context.Background(), []string{a, txt, c}, compressOnly(), nil)

	if res.TotalFiles != 3 || res.SuccessCount != 2 || res.FailureCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 3/2/1", res.TotalFiles, res.SuccessCount, res.FailureCount)
	}
	if res.SuccessCount+res.FailureCount != res.TotalFiles {
		t.Fatal("counts invariant violated")
	}
	if len(res.Failures) != 1 || res.Failures[0].File != "b.txt" {
		t.Fatalf("failures = %+v", res.Failures)
	}
	if !strings.Contains(res.Failures[0].Reason, "unsupported file type") {
		t.Fatalf("failure reason = %q", res.Failures[0].Reason)
	}
	if !strings.Contains(res.Failures[0].Reason, "text/plain") {
		t.Fatalf("failure reason does not name the MIME: %q", res.Failures[0].Reason)
	}
}

func TestTwoStageReportsSourceSizeAndCleansIntermediate(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, "photo.png", 5000)

	eng := &fakeEngine{outputSize: 40}
	res := newTestPipeline(eng).Run(context.Background(), []string{src}, resizeAndCompress(t), nil)

	if res.SuccessCount != 1 {
		t.Fatalf("failures: %+v", res.Failures)
	}
	got := res.Successes[0]
	if got.OriginalSize != 5000 {
		t.Fatalf("OriginalSize = %d, want pre-resize source size 5000", got.OriginalSize)
	}

	intermediate := filepath.Join(dir, "photo.resized.webp")
	if _, err := os.Stat(intermediate); !os.IsNotExist(err) {
		t.Fatal("intermediate resize artifact not deleted")
	}
	if got.OutputPath != filepath.Join(dir, "photo.resized.min.webp") {
		t.Fatalf("final output = %q", got.OutputPath)
	}
	if len(eng.compressCalls) != 1 || eng.compressCalls[0] != intermediate {
		t.Fatalf("compress consumed %v, want the resize output", eng.compressCalls)
	}
}

func TestResizeFailureShortCircuitsCompress(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, "photo.png", 100)

	eng := &fakeEngine{resizeErr: errors.New("scale exploded")}
	res := newTestPipeline(eng).Run(context.Background(), []string{src}, resizeAndCompress(t), nil)

	if res.FailureCount != 1 {
		t.Fatalf("expected failure, got %+v", res)
	}
	if len(eng.compressCalls) != 0 {
		t.Fatal("compress ran despite resize failure")
	}
}

func TestOutputFolderPlacement(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, "photo.png", 100)

	opts := compressOnly()
	opts.OutputFolder = "optimized"

	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(context.Background(), []string{src}, opts, nil)

	if res.SuccessCount != 1 {
		t.Fatalf("failures: %+v", res.Failures)
	}
	want := filepath.Join(dir, "optimized", "photo.min.webp")
	if res.Successes[0].OutputPath != want {
		t.Fatalf("output = %q, want %q", res.Successes[0].OutputPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("placed output missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "photo.min.webp")); !os.IsNotExist(err) {
		t.Fatal("original output location still occupied after move")
	}
}

func TestConfigurationErrorFailsAllFilesWithoutProcessing(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, dir, "photo.png", 100)

	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(context.Background(), []string{src}, config.ProcessingOptions{}, nil)

	if res.TotalFiles != 1 || res.FailureCount != 1 || res.SuccessCount != 0 {
		t.Fatalf("counts = %d/%d/%d", res.TotalFiles, res.SuccessCount, res.FailureCount)
	}
	if len(eng.compressCalls)+len(eng.resizeCalls) != 0 {
		t.Fatal("engine invoked despite configuration error")
	}
}

func TestPDFRoutesToCompressWithTier(t *testing.T) {
	dir := t.TempDir()
	src := writePDF(t, dir, "doc.pdf")

	opts := compressOnly()
	opts.Mode = config.ModeMaxOptimize

	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(context.Background(), []string{src}, opts, nil)

	if res.SuccessCount != 1 {
		t.Fatalf("failures: %+v", res.Failures)
	}
	if len(eng.pdfCalls) != 1 {
		t.Fatalf("pdf calls = %v", eng.pdfCalls)
	}
	if eng.pdfTier != encode.PDFLow {
		t.Fatalf("tier = %v, want low for max-optimize", eng.pdfTier)
	}
}

func TestPDFResizeOnlyIsPerFileFailure(t *testing.T) {
	dir := t.TempDir()
	pdf := writePDF(t, dir, "doc.pdf")
	img := writeImage(t, dir, "photo.png", 100)

	p, _ := preset.ByName("large")
	opts := config.ProcessingOptions{Resize: true, Preset: &p}

	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(context.Background(), []string{pdf, img}, opts, nil)

	if res.SuccessCount != 1 || res.FailureCount != 1 {
		t.Fatalf("counts = %d/%d", res.SuccessCount, res.FailureCount)
	}
	if !strings.Contains(res.Failures[0].Reason, "cannot be resized") {
		t.Fatalf("failure = %+v", res.Failures[0])
	}
}

func TestProgressInterpolation(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 100)
	b := writeImage(t, dir, "b.png", 100)

	updates := make(chan ProgressUpdate, 128)
	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(context.Background(), []string{a, b}, compressOnly(), updates)
	close(updates)

	if res.SuccessCount != 2 {
		t.Fatalf("failures: %+v", res.Failures)
	}

	var last int
	for u := range updates {
		if u.FileCount != 2 {
			t.Fatalf("FileCount = %d", u.FileCount)
		}
		if u.OverallPercent < last && u.Stage != StageClassifying {
			// Overall percent may only reset at a new file's classify step.
			t.Fatalf("overall percent went backwards mid-file: %d -> %d", last, u.OverallPercent)
		}
		if u.FileIndex == 0 && u.OverallPercent > 50 {
			t.Fatalf("file 1 of 2 exceeded its 50%% share: %+v", u)
		}
		last = u.OverallPercent
	}
	if last != 100 {
		t.Fatalf("final overall percent = %d, want 100", last)
	}
}

func TestBytesSummedOverSuccessesOnly(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 200)
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("nope nope nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := &fakeEngine{outputSize: 50}
	res := newTestPipeline(eng).Run(context.Background(), []string{a, bad}, compressOnly(), nil)

	if res.OriginalBytes != 200 || res.ProcessedBytes != 50 {
		t.Fatalf("byte totals = %d/%d, want 200/50", res.OriginalBytes, res.ProcessedBytes)
	}
}

func TestCanceledContextKeepsCountsInvariant(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 100)
	b := writeImage(t, dir, "b.png", 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := &fakeEngine{}
	res := newTestPipeline(eng).Run(ctx, []string{a, b}, compressOnly(), nil)

	if res.SuccessCount+res.FailureCount != res.TotalFiles {
		t.Fatalf("counts invariant violated: %+v", res)
	}
	if res.FailureCount != 2 {
		t.Fatalf("expected both files marked canceled, got %+v", res.Failures)
	}
}
