package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/texture"
)

// GLUploader creates RGBA8 mipmapped 2D textures in the current context.
type GLUploader struct {
	textures []uint32
}

// Upload implements texture.Uploader. Pixels are tightly packed RGBA rows.
func (u *GLUploader) Upload(pixels []byte, width, height int) (texture.Handle, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return 0, fmt.Errorf("%w: %dx%d with %d bytes", texture.ErrInvalidPixels, width, height, len(pixels))
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &texID)
		return 0, fmt.Errorf("glTexImage2D failed: 0x%x", code)
	}

	u.textures = append(u.textures, texID)
	return texture.Handle(texID), nil
}

// Delete frees the given textures. Handles this uploader did not create are
// ignored.
func (u *GLUploader) Delete(handles ...texture.Handle) {
	drop := make(map[uint32]bool, len(handles))
	for _, h := range handles {
		drop[uint32(h)] = true
	}

	kept := u.textures[:0]
	var ids []uint32
	for _, id := range u.textures {
		if drop[id] {
			ids = append(ids, id)
		} else {
			kept = append(kept, id)
		}
	}
	u.textures = kept

	if len(ids) > 0 {
		gl.DeleteTextures(int32(len(ids)), &ids[0])
	}
}

// Close deletes every texture created by the uploader.
func (u *GLUploader) Close() {
	if len(u.textures) > 0 {
		gl.DeleteTextures(int32(len(u.textures)), &u.textures[0])
		u.textures = nil
	}
}
