// Package toolpath resolves filesystem paths to the external encoders.
//
// Resolution never fails: when no candidate exists the bare executable name
// is returned and PATH lookup is left to the OS at spawn time, so absence
// only surfaces as an execution error.
package toolpath

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// Tool identifies an external encoder binary.
type Tool string

const (
	FFmpeg      Tool = "ffmpeg"
	Ghostscript Tool = "ghostscript"
)

// BareName is the executable name handed to PATH resolution when no better
// candidate is found.
func (t Tool) BareName() string {
	if t == Ghostscript {
		if runtime.GOOS == "windows" {
			return "gswin64c"
		}
		return "gs"
	}
	return string(t)
}

// Resolution is the outcome of a tool search. Searched lists every candidate
// path that was checked, in order, for diagnostics when spawning later fails.
type Resolution struct {
	Path     string
	Searched []string
}

// Locator finds and memoizes tool paths. It is an explicit, injectable
// object; construct one at startup and pass it to every component that needs
// tool paths. All methods are goroutine-safe.
type Locator struct {
	mu        sync.Mutex
	cache     map[Tool]Resolution
	overrides map[Tool]string
	walkStart string
}

// New creates a Locator. Overrides (typically from configuration) take
// precedence over every search location; a nil map disables them.
func New(overrides map[Tool]string) *Locator {
	return &Locator{
		cache:     make(map[Tool]Resolution),
		overrides: overrides,
	}
}

// Resolve returns the path to use for t. The first successful search is
// memoized for the process lifetime; a cached path is re-checked for
// existence on every read and the search is redone from scratch if the file
// has disappeared.
func (l *Locator) Resolve(t Tool) Resolution {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.cache[t]; ok {
		if r.Path == t.BareName() || fileExists(r.Path) {
			return r
		}
		delete(l.cache, t)
	}

	r := l.search(t)
	l.cache[t] = r
	return r
}

// search checks candidate locations in priority order and returns the first
// existing match, falling back to the bare name.
func (l *Locator) search(t Tool) Resolution {
	var searched []string
	for _, candidate := range l.candidates(t) {
		searched = append(searched, candidate)
		if fileExists(candidate) {
			return Resolution{Path: candidate, Searched: searched}
		}
	}
	return Resolution{Path: t.BareName(), Searched: searched}
}

func (l *Locator) candidates(t Tool) []string {
	var out []string

	if p := l.overrides[t]; p != "" {
		out = append(out, p)
	}

	name := t.BareName()
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	// Bundled copy shipped alongside the running binary.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		out = append(out, filepath.Join(dir, name), filepath.Join(dir, "tools", name))
	}

	out = append(out, wellKnownDirs(t, name)...)
	out = append(out, l.vendoredCandidates(name)...)
	out = append(out, packageManagerDirs(name)...)
	return out
}

// wellKnownDirs returns the per-OS install locations. Ghostscript on Windows
// embeds its version in the install path, so that one is globbed.
func wellKnownDirs(t Tool, name string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join("/opt/homebrew/bin", name),
			filepath.Join("/usr/local/bin", name),
		}
	case "windows":
		if t == Ghostscript {
			return globSorted(`C:\Program Files\gs\gs*\bin\` + name)
		}
		return []string{
			filepath.Join(`C:\ffmpeg\bin`, name),
			filepath.Join(`C:\Program Files\ffmpeg\bin`, name),
		}
	default:
		return []string{
			filepath.Join("/usr/local/bin", name),
			filepath.Join("/usr/bin", name),
			filepath.Join("/snap/bin", name),
		}
	}
}

// vendoredCandidates walks upward a bounded number of levels looking for a
// vendored copy under a tools/ directory.
func (l *Locator) vendoredCandidates(name string) []string {
	const maxDepth = 4

	dir := l.walkStart
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		dir = wd
	}

	var out []string
	for i := 0; i < maxDepth; i++ {
		out = append(out, filepath.Join(dir, "tools", name))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return out
}

func packageManagerDirs(name string) []string {
	var out []string
	switch runtime.GOOS {
	case "darwin":
		out = append(out, filepath.Join("/opt/local/bin", name))
	case "linux":
		out = append(out, filepath.Join("/home/linuxbrew/.linuxbrew/bin", name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".local", "bin", name))
	}
	return out
}

// globSorted expands a glob, sorted descending so the highest version
// directory is tried first.
func globSorted(pattern string) []string {
	matches, _ := filepath.Glob(pattern)
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
