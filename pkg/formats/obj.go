// Package formats provides parsers for Wavefront text formats.
// OBJ (geometry) format parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJParse              = errors.New("malformed OBJ statement")
	ErrOBJMissingAttribute   = errors.New("OBJ face corner is missing a texture or normal index")
	ErrOBJMalformedFace      = errors.New("OBJ face has fewer than 3 corners")
	ErrOBJUnsupportedPolygon = errors.New("OBJ face has more than 4 corners")
	ErrOBJIndexOutOfRange    = errors.New("OBJ attribute index out of range")
)

// maxOBJLineLength bounds a single statement line.
const maxOBJLineLength = 1 << 20

// OBJCorner is one vertex reference of a face.
// Indices are 1-based; 0 means the component was not given.
type OBJCorner struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a triangle or quad as declared in the file.
type OBJFace struct {
	Corners []OBJCorner
	Line    int // Source line, for error reporting
}

// Triangles splits the face into triangles sharing the first corner.
// A quad (a,b,c,d) becomes (a,b,c) and (c,d,a).
func (f OBJFace) Triangles() [][3]OBJCorner {
	c := f.Corners
	switch len(c) {
	case 3:
		return [][3]OBJCorner{{c[0], c[1], c[2]}}
	case 4:
		return [][3]OBJCorner{{c[0], c[1], c[2]}, {c[2], c[3], c[0]}}
	default:
		return nil
	}
}

// OBJMaterialRef is a material selection together with the library that was
// active when it was made.
type OBJMaterialRef struct {
	Library string
	Name    string
	Line    int
}

// OBJ represents a parsed OBJ file.
type OBJ struct {
	Positions [][3]float32 // "v" pool
	TexCoords [][2]float32 // "vt" pool
	Normals   [][3]float32 // "vn" pool
	Faces     []OBJFace    // Faces in declaration order

	MaterialLib string          // Last "mtllib" seen
	Material    *OBJMaterialRef // Last "usemtl" seen, nil if none
}

// TriangleCount returns the number of triangles after quad splitting.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, f := range o.Faces {
		n += len(f.Triangles())
	}
	return n
}

// Position returns the 1-based position entry.
func (o *OBJ) Position(index int) ([3]float32, error) {
	return lookupOBJ(o.Positions, index, "position")
}

// TexCoord returns the 1-based texture coordinate entry.
func (o *OBJ) TexCoord(index int) ([2]float32, error) {
	return lookupOBJ(o.TexCoords, index, "texcoord")
}

// Normal returns the 1-based normal entry.
func (o *OBJ) Normal(index int) ([3]float32, error) {
	return lookupOBJ(o.Normals, index, "normal")
}

func lookupOBJ[T any](pool []T, index int, kind string) (T, error) {
	var zero T
	if index < 1 || index > len(pool) {
		return zero, fmt.Errorf("%w: %s %d (pool has %d)", ErrOBJIndexOutOfRange, kind, index, len(pool))
	}
	return pool[index-1], nil
}

// ParseOBJ parses OBJ data from a byte slice.
// Only v, vt, vn, f, mtllib and usemtl statements are interpreted; every
// other statement is skipped.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLineLength)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		var err error
		switch tokens[0] {
		case "v":
			var v [3]float32
			if v, err = parseOBJVec3(tokens); err == nil {
				obj.Positions = append(obj.Positions, v)
			}
		case "vt":
			var vt [2]float32
			if vt, err = parseOBJVec2(tokens); err == nil {
				obj.TexCoords = append(obj.TexCoords, vt)
			}
		case "vn":
			var vn [3]float32
			if vn, err = parseOBJVec3(tokens); err == nil {
				obj.Normals = append(obj.Normals, vn)
			}
		case "mtllib":
			if len(tokens) < 2 {
				err = fmt.Errorf("%w: mtllib without a library name", ErrOBJParse)
				break
			}
			obj.MaterialLib = tokens[1]
		case "usemtl":
			if len(tokens) < 2 {
				err = fmt.Errorf("%w: usemtl without a material name", ErrOBJParse)
				break
			}
			obj.Material = &OBJMaterialRef{
				Library: obj.MaterialLib,
				Name:    tokens[1],
				Line:    lineNum,
			}
		case "f":
			var face OBJFace
			if face, err = parseOBJFace(tokens); err == nil {
				face.Line = lineNum
				obj.Faces = append(obj.Faces, face)
			}
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

// parseOBJFace parses "f c1 c2 c3 [c4]". Each corner has the form p, p/t,
// p//n or p/t/n; texture and normal indices must both be present.
func parseOBJFace(tokens []string) (OBJFace, error) {
	corners := tokens[1:]
	if len(corners) < 3 {
		return OBJFace{}, fmt.Errorf("%w: got %d", ErrOBJMalformedFace, len(corners))
	}
	if len(corners) > 4 {
		return OBJFace{}, fmt.Errorf("%w: got %d", ErrOBJUnsupportedPolygon, len(corners))
	}

	face := OBJFace{Corners: make([]OBJCorner, len(corners))}
	for i, tok := range corners {
		c, err := parseOBJCorner(tok)
		if err != nil {
			return OBJFace{}, fmt.Errorf("corner %d: %w", i+1, err)
		}
		face.Corners[i] = c
	}
	return face, nil
}

func parseOBJCorner(tok string) (OBJCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return OBJCorner{}, fmt.Errorf("%w: corner %q", ErrOBJParse, tok)
	}

	var idx [3]int
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return OBJCorner{}, fmt.Errorf("%w: corner %q: %v", ErrOBJParse, tok, err)
		}
		idx[i] = n
	}

	c := OBJCorner{Position: idx[0], TexCoord: idx[1], Normal: idx[2]}
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return c, fmt.Errorf("%w: corner %q", ErrOBJMissingAttribute, tok)
	}
	return c, nil
}

// parseOBJVec3 reads the first three numbers after the keyword.
func parseOBJVec3(tokens []string) ([3]float32, error) {
	var v [3]float32
	if len(tokens) < 4 {
		return v, fmt.Errorf("%w: %q expects 3 values, got %d", ErrOBJParse, tokens[0], len(tokens)-1)
	}
	for i := 0; i < 3; i++ {
		f, err := parseFloat32(tokens[i+1])
		if err != nil {
			return v, fmt.Errorf("%w: %q: %v", ErrOBJParse, tokens[0], err)
		}
		v[i] = f
	}
	return v, nil
}

// parseOBJVec2 reads u and v; an optional third component is ignored.
func parseOBJVec2(tokens []string) ([2]float32, error) {
	var v [2]float32
	if len(tokens) < 3 {
		return v, fmt.Errorf("%w: %q expects 2 values, got %d", ErrOBJParse, tokens[0], len(tokens)-1)
	}
	for i := 0; i < 2; i++ {
		f, err := parseFloat32(tokens[i+1])
		if err != nil {
			return v, fmt.Errorf("%w: %q: %v", ErrOBJParse, tokens[0], err)
		}
		v[i] = f
	}
	return v, nil
}

func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}
