// Package formats provides parsers for Wavefront text formats.
// MTL (material library) format parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// MTL format errors.
var (
	ErrMTLParse            = errors.New("malformed MTL statement")
	ErrMTLMaterialNotFound = errors.New("MTL material not found")
)

// MTLField flags which statements a material block defined.
type MTLField uint8

const (
	MTLAmbient   MTLField = 1 << iota // Ka
	MTLDiffuse                        // Kd
	MTLSpecular                       // Ks
	MTLShininess                      // Ns
)

// MTLMaterial is one "newmtl" block of a material library.
// Numeric fields are only meaningful when the matching bit is set in Defined.
type MTLMaterial struct {
	Name      string
	Ambient   [3]float32 // Ka
	Diffuse   [3]float32 // Kd
	Specular  [3]float32 // Ks
	Shininess float32    // Ns

	// Texture file names, empty when absent.
	AmbientMap  string // map_Ka
	DiffuseMap  string // map_Kd
	SpecularMap string // map_Ks

	Defined MTLField
}

// Has reports whether the block set the given field.
func (m *MTLMaterial) Has(f MTLField) bool {
	return m.Defined&f != 0
}

// ParseMTL scans a material library for the block named name and parses it.
// The block ends at the next "newmtl" or at end of data. Returns
// ErrMTLMaterialNotFound if no block carries that name.
func ParseMTL(data []byte, name string) (*MTLMaterial, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLineLength)

	var mat *MTLMaterial
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		if tokens[0] == "newmtl" {
			if mat != nil {
				break
			}
			if len(tokens) >= 2 && tokens[1] == name {
				mat = &MTLMaterial{Name: name}
			}
			continue
		}
		if mat == nil {
			continue
		}

		if err := parseMTLStatement(mat, tokens); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL data: %w", err)
	}

	if mat == nil {
		return nil, fmt.Errorf("%w: %q", ErrMTLMaterialNotFound, name)
	}
	return mat, nil
}

// ParseMTLFile parses the named material from a library file on disk.
func ParseMTLFile(path, name string) (*MTLMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	return ParseMTL(data, name)
}

// MTLMaterialNames lists the names of all blocks in a library, in order.
func MTLMaterialNames(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLineLength)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) >= 2 && tokens[0] == "newmtl" {
			names = append(names, tokens[1])
		}
	}
	return names
}

func parseMTLStatement(mat *MTLMaterial, tokens []string) error {
	var err error
	switch tokens[0] {
	case "Ka":
		mat.Ambient, err = parseMTLColor(tokens)
		mat.Defined |= MTLAmbient
	case "Kd":
		mat.Diffuse, err = parseMTLColor(tokens)
		mat.Defined |= MTLDiffuse
	case "Ks":
		mat.Specular, err = parseMTLColor(tokens)
		mat.Defined |= MTLSpecular
	case "Ns":
		if len(tokens) < 2 {
			return fmt.Errorf("%w: Ns expects 1 value", ErrMTLParse)
		}
		mat.Shininess, err = parseFloat32(tokens[1])
		if err != nil {
			err = fmt.Errorf("%w: Ns: %v", ErrMTLParse, err)
		}
		mat.Defined |= MTLShininess
	case "map_Ka", "map_Kd", "map_Ks":
		// Map options (-s, -o, ...) precede the file name.
		if len(tokens) < 2 {
			return fmt.Errorf("%w: %s expects a file name", ErrMTLParse, tokens[0])
		}
		file := tokens[len(tokens)-1]
		switch tokens[0] {
		case "map_Ka":
			mat.AmbientMap = file
		case "map_Kd":
			mat.DiffuseMap = file
		case "map_Ks":
			mat.SpecularMap = file
		}
	}
	return err
}

func parseMTLColor(tokens []string) ([3]float32, error) {
	var c [3]float32
	if len(tokens) < 4 {
		return c, fmt.Errorf("%w: %s expects 3 values, got %d", ErrMTLParse, tokens[0], len(tokens)-1)
	}
	for i := 0; i < 3; i++ {
		f, err := parseFloat32(tokens[i+1])
		if err != nil {
			return c, fmt.Errorf("%w: %s: %v", ErrMTLParse, tokens[0], err)
		}
		c[i] = f
	}
	return c, nil
}
