package card

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/verte-zerg/inkblade/internal/model"
)

func sampleRun() model.RunRecord {
	return model.RunRecord{
		ID:         "r1",
		Difficulty: model.DifficultyHard,
		Outcome:    model.OutcomeVictory,
		Level:      5,
		Score:      2500,
		MaxCombo:   7,
	}
}

func TestRenderNativeSize(t *testing.T) {
	img, err := Render(sampleRun(), Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != canvasW || b.Dy() != canvasH {
		t.Fatalf("expected %dx%d, got %dx%d", canvasW, canvasH, b.Dx(), b.Dy())
	}
}

func TestRenderResizesKeepingAspect(t *testing.T) {
	img, err := Render(sampleRun(), Options{Width: 400})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 225 {
		t.Fatalf("expected 400x225, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderFillsBarsByValue(t *testing.T) {
	// progress 50%, combo 70%, total 100%
	img, err := Render(sampleRun(), Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	slot := float64(canvasW) / 3
	// Just above the baseline every bar is filled; near the top only the full one is.
	low := int(chartBottom) - 5
	high := int(chartTop) + 10
	for i := 0; i < 3; i++ {
		x := int(slot*float64(i) + slot/2)
		if isTrack(img.At(x, low)) {
			t.Fatalf("bar %d should be filled near the baseline", i)
		}
	}
	if !isTrack(img.At(int(slot/2), high)) {
		t.Fatalf("progress bar should not reach the top")
	}
	if isTrack(img.At(int(slot*2+slot/2), high)) {
		t.Fatalf("total bar should reach the top")
	}
}

func isTrack(c interface{ RGBA() (r, g, b, a uint32) }) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 == 0x1E && g>>8 == 0x29 && b>>8 == 0x3B
}

func TestRenderBadFont(t *testing.T) {
	if _, err := Render(sampleRun(), Options{FontPath: filepath.Join(t.TempDir(), "missing.ttf")}); err == nil {
		t.Fatalf("expected error for missing font")
	}
}

func TestSaveByExtension(t *testing.T) {
	img, err := Render(sampleRun(), Options{Width: 200})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	dir := t.TempDir()
	for _, name := range []string{"card.png", "card.jpg"} {
		path := filepath.Join(dir, name)
		if err := Save(path, img); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		got, err := imaging.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		if got.Bounds().Dx() != 200 {
			t.Fatalf("%s: expected width 200, got %d", name, got.Bounds().Dx())
		}
	}
	if err := Save(filepath.Join(dir, "card.txt"), img); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := os.Stat(filepath.Join(dir, "card.txt")); !os.IsNotExist(err) {
		t.Fatalf("unsupported format should not create a file")
	}
}
