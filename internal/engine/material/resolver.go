package material

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

// Resolver errors.
var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrNoLibrary        = errors.New("no material library referenced")
)

// Options configures a Resolver.
type Options struct {
	Files    assets.Source   // Nil reads relative to the working directory
	Decoder  texture.Decoder // Nil decodes image files read through Files
	Uploader texture.Uploader

	MaterialDir string // Directory holding .mtl libraries
	TextureDir  string // Directory holding texture images

	// Fallback overrides FallbackDefaults when non-nil.
	Fallback *Coefficients
}

// Resolver loads materials from libraries and uploads their textures.
// It must be used from the thread that owns the graphics context.
type Resolver struct {
	files       assets.Source
	decoder     texture.Decoder
	uploader    texture.Uploader
	materialDir string
	textureDir  string
	fallback    Coefficients

	placeholder texture.Handle
	textures    map[string]texture.Handle
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	fallback := FallbackDefaults
	if opts.Fallback != nil {
		fallback = *opts.Fallback
	}
	files := opts.Files
	if files == nil {
		files = assets.NewManager()
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = texture.NewFileDecoder(files)
	}
	return &Resolver{
		files:       files,
		decoder:     decoder,
		uploader:    opts.Uploader,
		materialDir: opts.MaterialDir,
		textureDir:  opts.TextureDir,
		fallback:    fallback,
		textures:    make(map[string]texture.Handle),
	}
}

// Load resolves material name from library.
//
// When the library has no block with that name, Load returns the default
// material together with an error wrapping ErrMaterialNotFound; callers may
// use the material and treat the error as a warning. Any other error is
// fatal and comes with a nil material.
func (r *Resolver) Load(library, name string) (*Material, error) {
	if library == "" {
		return nil, fmt.Errorf("material %q: %w", name, ErrNoLibrary)
	}

	start := time.Now()
	path := filepath.Join(r.materialDir, library)
	data, err := r.files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading material library: %w", err)
	}

	block, err := formats.ParseMTL(data, name)
	if errors.Is(err, formats.ErrMTLMaterialNotFound) {
		logger.Debug("available materials",
			zap.String("library", path),
			zap.Strings("names", formats.MTLMaterialNames(data)),
		)
		mat, derr := r.Default()
		if derr != nil {
			return nil, derr
		}
		mat.Name = name
		return mat, fmt.Errorf("%w: %q in %s", ErrMaterialNotFound, name, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mat := fromCoefficients(name, BlockDefaults)
	if block.Has(formats.MTLAmbient) {
		mat.Ambient = block.Ambient
	}
	if block.Has(formats.MTLDiffuse) {
		mat.Diffuse = block.Diffuse
	}
	if block.Has(formats.MTLSpecular) {
		mat.Specular = block.Specular
	}
	if block.Has(formats.MTLShininess) {
		mat.Shininess = block.Shininess
	}

	maps := []struct {
		file string
		slot *texture.Handle
	}{
		{block.AmbientMap, &mat.AmbientMap},
		{block.DiffuseMap, &mat.DiffuseMap},
		{block.SpecularMap, &mat.SpecularMap},
	}
	for _, m := range maps {
		if m.file == "" {
			continue
		}
		h, err := r.loadTexture(m.file)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		*m.slot = h
	}

	if err := r.fillPlaceholders(mat); err != nil {
		return nil, err
	}

	logger.Info("material loaded",
		zap.String("name", name),
		zap.String("library", path),
		zap.Duration("took", time.Since(start)),
	)
	return mat, nil
}

// Default returns the fallback material with placeholder maps.
func (r *Resolver) Default() (*Material, error) {
	mat := fromCoefficients("", r.fallback)
	if err := r.fillPlaceholders(mat); err != nil {
		return nil, err
	}
	return mat, nil
}

// Placeholder returns the 1x1 opaque white texture, uploading it on first use.
func (r *Resolver) Placeholder() (texture.Handle, error) {
	if r.placeholder != 0 {
		return r.placeholder, nil
	}
	h, err := r.uploader.Upload(append([]byte(nil), texture.White...), 1, 1)
	if err != nil {
		return 0, fmt.Errorf("uploading placeholder texture: %w", err)
	}
	r.placeholder = h
	return h, nil
}

// Handles returns every texture this resolver has uploaded, placeholder
// included. The caller owns them once the resolver is discarded.
func (r *Resolver) Handles() []texture.Handle {
	out := make([]texture.Handle, 0, len(r.textures)+1)
	if r.placeholder != 0 {
		out = append(out, r.placeholder)
	}
	for _, h := range r.textures {
		out = append(out, h)
	}
	return out
}

func (r *Resolver) fillPlaceholders(mat *Material) error {
	for _, slot := range []*texture.Handle{&mat.AmbientMap, &mat.DiffuseMap, &mat.SpecularMap} {
		if *slot != 0 {
			continue
		}
		h, err := r.Placeholder()
		if err != nil {
			return err
		}
		*slot = h
	}
	return nil
}

// loadTexture decodes, flips and uploads an image from the texture
// directory. Uploads are shared between slots naming the same file.
func (r *Resolver) loadTexture(file string) (texture.Handle, error) {
	path := filepath.Join(r.textureDir, file)
	if h, ok := r.textures[path]; ok {
		return h, nil
	}

	pixels, width, height, err := r.decoder.Decode(path)
	if err != nil {
		return 0, fmt.Errorf("loading texture %s: %w", path, err)
	}
	if err := texture.FlipVertical(pixels, width, height); err != nil {
		return 0, fmt.Errorf("texture %s: %w", path, err)
	}

	h, err := r.uploader.Upload(pixels, width, height)
	if err != nil {
		return 0, fmt.Errorf("uploading texture %s: %w", path, err)
	}

	logger.Debug("texture uploaded",
		zap.String("path", path),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Uint32("handle", uint32(h)),
	)
	r.textures[path] = h
	return h, nil
}
