package model

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/engine/material"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/pkg/formats"
)

type loadCall struct{ library, name string }

type fakeMaterials struct {
	calls []loadCall
	mat   *material.Material
	err   error
}

func (f *fakeMaterials) Load(library, name string) (*material.Material, error) {
	f.calls = append(f.calls, loadCall{library, name})
	return f.mat, f.err
}

// countingUploader hands out increasing handles.
type countingUploader struct {
	next    texture.Handle
	uploads int
}

func (u *countingUploader) Upload(pixels []byte, width, height int) (texture.Handle, error) {
	u.next++
	u.uploads++
	return u.next, nil
}

type solidDecoder struct{}

func (solidDecoder) Decode(path string) ([]byte, int, int, error) {
	return []byte{1, 2, 3, 4, 5, 6, 7, 8}, 1, 2, nil
}

func writeAsset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ_NoMaterial(t *testing.T) {
	path := writeAsset(t, t.TempDir(), "tri.obj", triangleOBJ)
	loader := &fakeMaterials{}

	mesh, mat, err := LoadOBJ(path, LoadOptions{Materials: loader})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount() = %d, want 1", mesh.TriangleCount())
	}
	if mat != nil {
		t.Errorf("expected nil material, got %+v", mat)
	}
	if len(loader.calls) != 0 {
		t.Errorf("material loader called %d times, want 0", len(loader.calls))
	}
}

func TestLoadOBJ_LastUsemtlWinsOnce(t *testing.T) {
	data := "mtllib a.mtl\nusemtl First\nmtllib b.mtl\nusemtl Second\n" + triangleOBJ
	path := writeAsset(t, t.TempDir(), "m.obj", data)
	want := &material.Material{Name: "Second"}
	loader := &fakeMaterials{mat: want}

	_, mat, err := LoadOBJ(path, LoadOptions{Materials: loader})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if mat != want {
		t.Errorf("returned material %+v, want loader result", mat)
	}
	if !reflect.DeepEqual(loader.calls, []loadCall{{"b.mtl", "Second"}}) {
		t.Errorf("loader calls = %v, want exactly one for Second in b.mtl", loader.calls)
	}
}

func TestLoadOBJ_NoLoaderConfigured(t *testing.T) {
	path := writeAsset(t, t.TempDir(), "m.obj", "mtllib a.mtl\nusemtl X\n"+triangleOBJ)
	mesh, mat, err := LoadOBJ(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if mesh == nil || mat != nil {
		t.Errorf("mesh=%v mat=%v; want mesh and no material", mesh, mat)
	}
}

func TestLoadOBJ_Errors(t *testing.T) {
	dir := t.TempDir()
	ioErr := errors.New("disk on fire")

	tests := []struct {
		name    string
		data    string
		loader  *fakeMaterials
		wantErr error
	}{
		{"parse error", "v 0 0 nope\n", &fakeMaterials{}, formats.ErrOBJParse},
		{"pentagon", "f 1/1/1 1/1/1 1/1/1 1/1/1 1/1/1\n", &fakeMaterials{}, formats.ErrOBJUnsupportedPolygon},
		{"out of range", "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 1/1/1 2/1/1\n", &fakeMaterials{}, formats.ErrOBJIndexOutOfRange},
		{"material io error", "mtllib a.mtl\nusemtl X\n" + triangleOBJ, &fakeMaterials{err: ioErr}, ioErr},
		{"not found without fallback", "mtllib a.mtl\nusemtl X\n" + triangleOBJ, &fakeMaterials{err: material.ErrMaterialNotFound}, material.ErrMaterialNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAsset(t, dir, tt.name+".obj", tt.data)
			mesh, mat, err := LoadOBJ(path, LoadOptions{Materials: tt.loader})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if mesh != nil || mat != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestLoadOBJ_ParseErrorSkipsMaterial(t *testing.T) {
	path := writeAsset(t, t.TempDir(), "bad.obj", "mtllib a.mtl\nusemtl X\nf 1 2\n")
	loader := &fakeMaterials{}
	if _, _, err := LoadOBJ(path, LoadOptions{Materials: loader}); err == nil {
		t.Fatal("expected error")
	}
	if len(loader.calls) != 0 {
		t.Errorf("material loader must not run for a broken mesh, got %d calls", len(loader.calls))
	}
}

func TestLoadOBJ_MissingFile(t *testing.T) {
	_, _, err := LoadOBJ(filepath.Join(t.TempDir(), "none.obj"), LoadOptions{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want fs.ErrNotExist", err)
	}

	m := assets.NewManager()
	if err := m.AddRoot(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	_, _, err = LoadOBJ("mesh/none.obj", LoadOptions{Files: m})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("through asset manager: got %v, want fs.ErrNotExist", err)
	}
}

// newResolverFixture lays out mesh/, material/ and texture/ the way the
// viewer expects them.
func newResolverFixture(t *testing.T, mtl string) (*assets.Manager, *material.Resolver, *countingUploader) {
	t.Helper()
	root := t.TempDir()
	writeAsset(t, root, "material/scene.mtl", mtl)

	m := assets.NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	up := &countingUploader{}
	r := material.NewResolver(material.Options{
		Files:       m,
		Decoder:     solidDecoder{},
		Uploader:    up,
		MaterialDir: "material",
		TextureDir:  "texture",
	})
	return m, r, up
}

func TestLoadOBJ_MissingMaterialUsesFallback(t *testing.T) {
	files, resolver, _ := newResolverFixture(t, "newmtl Other\nKd 1 0 0\n")
	root := t.TempDir()
	path := writeAsset(t, root, "m.obj", "mtllib scene.mtl\nusemtl Missing\n"+triangleOBJ)

	mesh, mat, err := LoadOBJ(path, LoadOptions{Files: files, Materials: resolver})
	if err != nil {
		t.Fatalf("missing material must not be fatal: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount() = %d", mesh.TriangleCount())
	}
	if mat.Coefficients() != material.FallbackDefaults {
		t.Errorf("coefficients = %+v, want fallback defaults", mat.Coefficients())
	}

	placeholder, _ := resolver.Placeholder()
	for i, h := range mat.Maps() {
		if h != placeholder {
			t.Errorf("map %d = %d, want placeholder %d", i, h, placeholder)
		}
	}
}

func TestLoadOBJ_SparseMaterial(t *testing.T) {
	files, resolver, up := newResolverFixture(t, "newmtl Crate\nKa 0.2 0.2 0.2\nKd 0.7 0.7 0.7\nNs 16\n")
	path := writeAsset(t, t.TempDir(), "m.obj", "mtllib scene.mtl\nusemtl Crate\n"+quadOBJ)

	mesh, mat, err := LoadOBJ(path, LoadOptions{Files: files, Materials: resolver})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if len(mesh.Vertices) != 6 {
		t.Errorf("got %d vertices, want 6", len(mesh.Vertices))
	}

	if mat.Ambient != [3]float32{0.2, 0.2, 0.2} || mat.Diffuse != [3]float32{0.7, 0.7, 0.7} {
		t.Errorf("colors = %v %v", mat.Ambient, mat.Diffuse)
	}
	if mat.Specular != material.BlockDefaults.Specular {
		t.Errorf("specular = %v, want block default", mat.Specular)
	}
	if mat.Shininess != 16 {
		t.Errorf("shininess = %v, want 16", mat.Shininess)
	}
	if mat.AmbientMap != mat.DiffuseMap || mat.DiffuseMap != mat.SpecularMap || mat.AmbientMap == 0 {
		t.Errorf("maps = %v, want one shared placeholder", mat.Maps())
	}
	if up.uploads != 1 {
		t.Errorf("uploads = %d, want only the placeholder", up.uploads)
	}
}

func TestLoadOBJ_Idempotent(t *testing.T) {
	mtl := "newmtl Box\nKa 0.1 0.2 0.3\nKs 0.4 0.5 0.6\nNs 8\nmap_Kd box.png\n"
	files, resolver, _ := newResolverFixture(t, mtl)
	path := writeAsset(t, t.TempDir(), "m.obj", "mtllib scene.mtl\nusemtl Box\n"+quadOBJ)

	mesh1, mat1, err := LoadOBJ(path, LoadOptions{Files: files, Materials: resolver})
	if err != nil {
		t.Fatal(err)
	}

	// Fresh resolver: texture handles may differ, data must not.
	files2, resolver2, _ := newResolverFixture(t, mtl)
	mesh2, mat2, err := LoadOBJ(path, LoadOptions{Files: files2, Materials: resolver2})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(mesh1.Floats(), mesh2.Floats()) {
		t.Error("vertex data differs between loads")
	}
	if mat1.Coefficients() != mat2.Coefficients() {
		t.Errorf("coefficients differ: %+v vs %+v", mat1.Coefficients(), mat2.Coefficients())
	}
}

func TestLoadOBJ_SampleCube(t *testing.T) {
	files := assets.NewManager()
	if err := files.AddRoot(filepath.Join("..", "..", "..", "assets")); err != nil {
		t.Fatal(err)
	}
	up := &countingUploader{}
	resolver := material.NewResolver(material.Options{
		Files:       files,
		Decoder:     texture.NewFileDecoder(files),
		Uploader:    up,
		MaterialDir: "material",
		TextureDir:  "texture",
	})

	mesh, mat, err := LoadOBJ("mesh/cube.obj", LoadOptions{Files: files, Materials: resolver})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if len(mesh.Vertices) != 36 {
		t.Errorf("got %d vertices, want 36", len(mesh.Vertices))
	}
	if mesh.Bounds.Min != [3]float32{-0.5, -0.5, -0.5} || mesh.Bounds.Max != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("bounds = %+v", mesh.Bounds)
	}
	if mat.Name != "Crate" || mat.Shininess != 32 {
		t.Errorf("material = %+v", mat)
	}
	// container.png serves both Ka and Kd.
	if up.uploads != 2 {
		t.Errorf("uploads = %d, want 2", up.uploads)
	}
}

func TestLoadOBJ_ReloadAfterInvalidate(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "mesh/m.obj", triangleOBJ)

	files := assets.NewManager()
	if err := files.AddRoot(root); err != nil {
		t.Fatal(err)
	}

	mesh, _, err := LoadOBJ("mesh/m.obj", LoadOptions{Files: files})
	if err != nil {
		t.Fatal(err)
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", mesh.TriangleCount())
	}

	if err := os.WriteFile(path, []byte(triangleOBJ+"f 3/3/1 2/2/1 1/1/1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, _, err = LoadOBJ("mesh/m.obj", LoadOptions{Files: files})
	if err != nil {
		t.Fatal(err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("cached load: TriangleCount() = %d, want 1", mesh.TriangleCount())
	}

	files.Invalidate()
	mesh, _, err = LoadOBJ("mesh/m.obj", LoadOptions{Files: files})
	if err != nil {
		t.Fatal(err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("after Invalidate: TriangleCount() = %d, want 2", mesh.TriangleCount())
	}
}
