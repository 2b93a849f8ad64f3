// Package texture defines the texture collaborators used by material loading:
// image decoding, pixel preparation and GPU upload.
package texture

import (
	"errors"
	"fmt"
)

// ErrInvalidPixels reports a pixel buffer that does not match its dimensions.
var ErrInvalidPixels = errors.New("invalid pixel buffer")

// Handle is an opaque GPU texture identifier. Zero means "no texture".
type Handle uint32

// Uploader creates a GPU texture from tightly packed RGBA8 pixels whose
// first row is the bottom row of the image.
//
// Implementations backed by a graphics API must be called on the thread
// that owns the current context.
type Uploader interface {
	Upload(pixels []byte, width, height int) (Handle, error)
}

// Decoder reads an image file and returns tightly packed RGBA8 pixels in
// top-left-origin row order.
type Decoder interface {
	Decode(path string) (pixels []byte, width, height int, err error)
}

// White is a single opaque white RGBA pixel, the placeholder for unset maps.
var White = []byte{255, 255, 255, 255}

// FlipVertical reverses the row order of an RGBA8 buffer in place,
// converting between top-left and bottom-left origin.
func FlipVertical(pixels []byte, width, height int) error {
	stride := width * 4
	if width < 0 || height < 0 || len(pixels) != stride*height {
		return fmt.Errorf("%w: %d bytes, want %dx%dx4", ErrInvalidPixels, len(pixels), width, height)
	}

	row := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := pixels[top*stride : (top+1)*stride]
		b := pixels[bottom*stride : (bottom+1)*stride]
		copy(row, t)
		copy(t, b)
		copy(b, row)
	}
	return nil
}
