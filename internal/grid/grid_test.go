package grid

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestNewFillsEveryCell(t *testing.T) {
	for n := MinSize; n <= MaxSize; n++ {
		g := New(n, n, White)
		if g.Width() != n || g.Height() != n {
			t.Fatalf("New(%d): got %dx%d", n, g.Width(), g.Height())
		}
		count := 0
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				c, err := g.Get(row, col)
				if err != nil {
					t.Fatalf("Get(%d,%d): %v", row, col, err)
				}
				if c != White {
					t.Fatalf("cell (%d,%d) = %v, want white", row, col, c)
				}
				count++
			}
		}
		if count != n*n {
			t.Errorf("n=%d: visited %d cells", n, count)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	g := New(8, 8, White)

	tests := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"negative col", 0, -1},
		{"row past end", 8, 0},
		{"col past end", 0, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Get(tt.row, tt.col); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Get: expected ErrOutOfRange, got %v", err)
			}
			if g.Set(tt.row, tt.col, Black) {
				t.Errorf("Set reported a change out of range")
			}
		})
	}
}

func TestSetReportsChange(t *testing.T) {
	g := New(8, 8, White)
	if !g.Set(2, 3, Black) {
		t.Fatal("expected first Set to change the cell")
	}
	if g.Set(2, 3, Black) {
		t.Error("expected repeated Set to be a no-op")
	}
	if got := g.At(2, 3); got != Black {
		t.Errorf("At(2,3) = %v, want black", got)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	g := New(8, 8, White)
	g.Set(0, 0, Black)
	snap := g.Snapshot()

	g.Set(0, 0, RGB(255, 0, 0))
	g.Set(7, 7, RGB(0, 255, 0))
	if snap.At(0, 0) != Black || snap.At(7, 7) != White {
		t.Fatal("snapshot changed after grid mutation")
	}
	if g.Matches(snap) {
		t.Error("grid should no longer match snapshot")
	}

	if !g.Restore(snap) {
		t.Fatal("Restore rejected same-size snapshot")
	}
	if !g.Matches(snap) {
		t.Error("grid does not match snapshot after Restore")
	}

	g.Set(1, 1, Black)
	if snap.At(1, 1) != White {
		t.Error("restore aliased snapshot storage")
	}
}

func TestRestoreRejectsOtherSize(t *testing.T) {
	g := New(8, 8, White)
	other := New(16, 16, Black).Snapshot()
	if g.Restore(other) {
		t.Fatal("Restore accepted a snapshot of a different size")
	}
	if g.Width() != 8 || g.At(0, 0) != White {
		t.Error("grid changed after rejected restore")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ffffff", White, false},
		{"000000", Black, false},
		{"#f00", RGB(255, 0, 0), false},
		{" #1a2B3c ", RGB(0x1a, 0x2b, 0x3c), false},
		{"#12345", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if back, _ := ParseHex(got.Hex()); back != got {
				t.Errorf("Hex round trip: %v -> %s -> %v", got, got.Hex(), back)
			}
		})
	}
}

func TestEncodePNGIsOneToOne(t *testing.T) {
	g := New(8, 10, White)
	g.Set(0, 0, RGB(255, 0, 0))
	g.Set(9, 7, RGB(0, 0, 255))

	var buf bytes.Buffer
	if err := g.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 10 {
		t.Fatalf("image is %dx%d, want 8x10", b.Dx(), b.Dy())
	}
	for row := 0; row < 10; row++ {
		for col := 0; col < 8; col++ {
			if got, want := FromColor(img.At(col, row)), g.At(row, col); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", col, row, got, want)
			}
		}
	}
}

func TestEncodeScaledPNG(t *testing.T) {
	g := New(8, 8, White)
	g.Set(1, 2, Black)

	var buf bytes.Buffer
	if err := g.EncodeScaledPNG(&buf, 4); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("image is %dx%d, want 32x32", b.Dx(), b.Dy())
	}
	for y := 4; y < 8; y++ {
		for x := 8; x < 12; x++ {
			if got := FromColor(img.At(x, y)); got != Black {
				t.Errorf("pixel (%d,%d) = %v, want black", x, y, got)
			}
		}
	}
	if got := FromColor(img.At(12, 4)); got != White {
		t.Errorf("pixel (12,4) = %v, want white", got)
	}

	if err := g.EncodeScaledPNG(&buf, 0); err == nil {
		t.Error("expected error for factor 0")
	}
}

func TestDecodePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{})
		}
	}
	img.SetNRGBA(3, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	g, err := DecodePNG(&buf, White)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.At(1, 3); got != RGB(10, 20, 30) {
		t.Errorf("opaque pixel = %v", got)
	}
	if got := g.At(0, 0); got != White {
		t.Errorf("transparent pixel = %v, want background", got)
	}
}

func TestDecodePNGRejectsSize(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodePNG(&buf, White); err == nil {
		t.Error("expected error for 4x4 image")
	}
}
