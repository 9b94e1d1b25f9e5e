package preset

import "testing"

func TestByName(t *testing.T) {
	p, ok := ByName("1080p")
	if !ok {
		t.Fatal("1080p missing from catalog")
	}
	if p.Width != 1920 || p.Height != 1080 {
		t.Fatalf("1080p geometry = %dx%d", p.Width, p.Height)
	}
	if p.Mode != ModeExact || p.Family != FamilyVideo {
		t.Fatalf("1080p mode/family = %v/%v", p.Mode, p.Family)
	}

	if _, ok := ByName("8k"); ok {
		t.Fatal("unknown preset name resolved")
	}
}

func TestImagePresetsAreBounded(t *testing.T) {
	for _, p := range Catalog {
		if p.Family == FamilyImage && p.Mode != ModeBounded {
			t.Errorf("image preset %q is not bounded", p.Name)
		}
	}
}

func TestNamesMatchCatalog(t *testing.T) {
	names := Names()
	if len(names) != len(Catalog) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(Catalog))
	}
	for i, p := range Catalog {
		if names[i] != p.Name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], p.Name)
		}
	}
}
