package model

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/engine/material"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

// MaterialLoader resolves a named material from a material library.
type MaterialLoader interface {
	Load(library, name string) (*material.Material, error)
}

// LoadOptions configures LoadOBJ.
type LoadOptions struct {
	// Files reads the OBJ file. Nil reads straight from disk.
	Files assets.Source
	// Materials resolves the "usemtl" selection. Nil skips material loading.
	Materials MaterialLoader
}

// LoadOBJ reads, parses and expands the OBJ file at path.
//
// The material loader is called exactly once when the file selects a
// material, with the last "usemtl" name and the library active at that
// line. The returned material is nil when the file selects none; the caller
// then supplies its own default. A missing material block is not fatal:
// the loader's fallback material is kept and a warning is logged.
func LoadOBJ(path string, opts LoadOptions) (*Mesh, *material.Material, error) {
	start := time.Now()

	data, err := readFile(opts.Files, path)
	if err != nil {
		return nil, nil, err
	}

	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mesh, err := BuildOBJMesh(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("building %s: %w", path, err)
	}

	logger.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("positions", len(obj.Positions)),
		zap.Int("texcoords", len(obj.TexCoords)),
		zap.Int("normals", len(obj.Normals)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("took", time.Since(start)),
	)

	ref := obj.Material
	if ref == nil {
		return mesh, nil, nil
	}
	if opts.Materials == nil {
		logger.Warn("material selected but no material loader configured",
			zap.String("material", ref.Name),
		)
		return mesh, nil, nil
	}

	mat, err := opts.Materials.Load(ref.Library, ref.Name)
	if errors.Is(err, material.ErrMaterialNotFound) && mat != nil {
		logger.Warn("material not found, using defaults",
			zap.String("material", ref.Name),
			zap.String("library", ref.Library),
			zap.Int("line", ref.Line),
		)
		return mesh, mat, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s:%d: %w", path, ref.Line, err)
	}

	return mesh, mat, nil
}

func readFile(files assets.Source, path string) ([]byte, error) {
	if files != nil {
		return files.Load(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return data, nil
}
