// Package preset defines the fixed catalog of resize targets.
package preset

import "fmt"

// Mode distinguishes how a preset's geometry is applied.
type Mode int

const (
	// ModeBounded scales down to fit within Width×Height, preserving aspect
	// ratio and never upscaling past the source resolution.
	ModeBounded Mode = iota
	// ModeExact scales to fit, then pads to exactly Width×Height (centered).
	// Only used for video; images are always bounded.
	ModeExact
)

// Family groups presets by the media type they were designed for.
type Family int

const (
	FamilyImage Family = iota
	FamilyVideo
)

func (f Family) String() string {
	if f == FamilyVideo {
		return "video"
	}
	return "image"
}

// Preset is an immutable named resize target.
type Preset struct {
	Name   string
	Width  int
	Height int
	Mode   Mode
	Family Family
}

func (p Preset) String() string {
	return fmt.Sprintf("%s (%dx%d)", p.Name, p.Width, p.Height)
}

// Catalog lists every preset, image presets first. Order is the display order.
var Catalog = []Preset{
	{Name: "2k", Width: 2048, Height: 2048, Mode: ModeBounded, Family: FamilyImage},
	{Name: "large", Width: 1280, Height: 1280, Mode: ModeBounded, Family: FamilyImage},
	{Name: "medium", Width: 800, Height: 800, Mode: ModeBounded, Family: FamilyImage},
	{Name: "small", Width: 400, Height: 400, Mode: ModeBounded, Family: FamilyImage},
	{Name: "thumbnail", Width: 160, Height: 160, Mode: ModeBounded, Family: FamilyImage},
	{Name: "1440p", Width: 2560, Height: 1440, Mode: ModeExact, Family: FamilyVideo},
	{Name: "1080p", Width: 1920, Height: 1080, Mode: ModeExact, Family: FamilyVideo},
	{Name: "720p", Width: 1280, Height: 720, Mode: ModeExact, Family: FamilyVideo},
	{Name: "480p", Width: 854, Height: 480, Mode: ModeExact, Family: FamilyVideo},
}

// ByName looks up a preset by its catalog name.
func ByName(name string) (Preset, bool) {
	for _, p := range Catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns every catalog name in display order.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for _, p := range Catalog {
		names = append(names, p.Name)
	}
	return names
}
