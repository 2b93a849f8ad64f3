package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"

	"github.com/Faultbox/meshview/internal/assets"
)

// FileDecoder decodes PNG, JPEG, GIF, BMP and TGA files read from an
// asset source.
type FileDecoder struct {
	Files assets.Source
}

// NewFileDecoder creates a decoder reading through files.
// A nil source reads paths relative to the working directory.
func NewFileDecoder(files assets.Source) *FileDecoder {
	if files == nil {
		files = assets.NewManager()
	}
	return &FileDecoder{Files: files}
}

// Decode implements Decoder.
func (d *FileDecoder) Decode(path string) ([]byte, int, int, error) {
	data, err := d.Files.Load(path)
	if err != nil {
		return nil, 0, 0, err
	}

	img, err := DecodeImage(data, path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}

	rgba := ToRGBA(img)
	return rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy(), nil
}

// DecodeImage decodes image bytes, choosing TGA by file extension and the
// registered image formats otherwise.
func DecodeImage(data []byte, path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// ToRGBA converts any image to a zero-origin *image.RGBA with a tight stride.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
