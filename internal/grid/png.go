package grid

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Image returns a width x height image with one pixel per cell and no
// grid-line overlay.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			c := g.cells[row*g.width+col]
			i := img.PixOffset(col, row)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 0xff
		}
	}
	return img
}

// EncodePNG writes the grid as a lossless 1:1 PNG.
func (g *Grid) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, g.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodeScaledPNG writes the grid upscaled by an integer factor using
// nearest-neighbour sampling, so each cell becomes a factor x factor block.
func (g *Grid) EncodeScaledPNG(w io.Writer, factor int) error {
	if factor < 1 {
		return fmt.Errorf("encode png: scale factor %d must be >= 1", factor)
	}
	if factor == 1 {
		return g.EncodePNG(w)
	}
	src := g.Image()
	dst := image.NewNRGBA(image.Rect(0, 0, g.width*factor, g.height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the grid as a 1:1 PNG file at path.
func (g *Grid) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := g.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodePNG reads a flat PNG into a new grid, one cell per pixel.
// Pixels with alpha below 50% become bg. The image must be within
// MinSize..MaxSize on both axes.
func DecodePNG(r io.Reader, bg Color) (*Grid, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < MinSize || w > MaxSize || h < MinSize || h > MaxSize {
		return nil, fmt.Errorf("decode png: %dx%d outside %d..%d", w, h, MinSize, MaxSize)
	}

	g := New(w, h, bg)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if _, _, _, a := px.RGBA(); a < 0x8000 {
				continue
			}
			g.Set(y, x, FromColor(px))
		}
	}
	return g, nil
}

// LoadPNG opens path and decodes it with DecodePNG.
func LoadPNG(path string, bg Color) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := DecodePNG(f, bg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
