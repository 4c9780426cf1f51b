package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is decoded RGBA8 pixel data, rows top to bottom.
type Image struct {
	Path   string
	Width  uint32
	Height uint32
	Pixels []uint8
}

type TextureLoader struct {
	// FlipY stores the rows bottom to top.
	FlipY bool
}

func (tl *TextureLoader) Load(path string) (interface{}, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	if tl.FlipY {
		img.flip()
	}
	return img, nil
}

// LoadImage decodes any registered image format and converts it to RGBA8.
func LoadImage(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}
	return toRGBA(path, src), nil
}

func toRGBA(path string, src image.Image) *Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return &Image{
		Path:   path,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Pixels: rgba.Pix,
	}
}

func (img *Image) flip() {
	stride := int(img.Width) * 4
	row := make([]uint8, stride)
	for top, bottom := 0, int(img.Height)-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pixels[top*stride : (top+1)*stride]
		b := img.Pixels[bottom*stride : (bottom+1)*stride]
		copy(row, t)
		copy(t, b)
		copy(b, row)
	}
}
