// objtool is a CLI utility for inspecting Wavefront OBJ meshes and MTL libraries.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/engine/material"
	"github.com/Faultbox/meshview/internal/engine/model"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "materials", "ls":
		err = cmdMaterials(args)
	case "dump":
		err = cmdDump(args)
	case "check":
		err = cmdCheck(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ/MTL utility

Usage:
  objtool <command> [options]

Commands:
  info <file.obj>                Show pool sizes, faces and material selection
  materials <file.mtl>           List material names in a library
  dump [-n N] <file.obj>         Print expanded vertices
  check [options] <mesh.obj>     Load mesh, material and textures without a GPU

Check options:
  -root DIR        Asset root (default ".")
  -materials DIR   Material directory under the root (default "material")
  -textures DIR    Texture directory under the root (default "texture")
  -v               Log loader activity

Examples:
  objtool info assets/mesh/cube.obj
  objtool materials assets/material/cube.mtl
  objtool dump -n 6 assets/mesh/cube.obj
  objtool check -root assets mesh/cube.obj`)
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: objtool info <file.obj>")
	}

	obj, err := formats.ParseOBJFile(args[0])
	if err != nil {
		return err
	}

	quads := 0
	for _, f := range obj.Faces {
		if len(f.Corners) == 4 {
			quads++
		}
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Positions:  %d\n", len(obj.Positions))
	fmt.Printf("TexCoords:  %d\n", len(obj.TexCoords))
	fmt.Printf("Normals:    %d\n", len(obj.Normals))
	fmt.Printf("Faces:      %d (%d quads)\n", len(obj.Faces), quads)
	fmt.Printf("Triangles:  %d\n", obj.TriangleCount())
	if obj.Material != nil {
		fmt.Printf("Material:   %s from %s (line %d)\n", obj.Material.Name, obj.Material.Library, obj.Material.Line)
	} else {
		fmt.Println("Material:   (none)")
	}
	return nil
}

func cmdMaterials(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: objtool materials <file.mtl>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	for _, name := range formats.MTLMaterialNames(data) {
		fmt.Println(name)
	}
	return nil
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N vertices (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: objtool dump [-n N] <file.obj>")
	}

	obj, err := formats.ParseOBJFile(fs.Arg(0))
	if err != nil {
		return err
	}
	mesh, err := model.BuildOBJMesh(obj)
	if err != nil {
		return err
	}

	for i, v := range mesh.Vertices {
		if *limit > 0 && i >= *limit {
			break
		}
		fmt.Printf("%4d  pos % .4f % .4f % .4f  uv % .4f % .4f  n % .4f % .4f % .4f\n", i,
			v.Position[0], v.Position[1], v.Position[2],
			v.TexCoord[0], v.TexCoord[1],
			v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return nil
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	root := fs.String("root", ".", "Asset root directory")
	materialDir := fs.String("materials", "material", "Material directory under the root")
	textureDir := fs.String("textures", "texture", "Texture directory under the root")
	verbose := fs.Bool("v", false, "Log loader activity")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: objtool check [options] <mesh.obj>")
	}

	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			return err
		}
		defer logger.Sync()
	}

	files := assets.NewManager()
	defer files.Close()
	if err := files.AddRoot(*root); err != nil {
		return err
	}

	uploads := &recordingUploader{}
	resolver := material.NewResolver(material.Options{
		Files:       files,
		Decoder:     texture.NewFileDecoder(files),
		Uploader:    uploads,
		MaterialDir: *materialDir,
		TextureDir:  *textureDir,
	})

	meshPath := fs.Arg(0)
	mesh, mat, err := model.LoadOBJ(meshPath, model.LoadOptions{Files: files, Materials: resolver})
	if err != nil {
		return err
	}

	fmt.Printf("Mesh:       %s\n", filepath.ToSlash(meshPath))
	fmt.Printf("Vertices:   %d (%d triangles)\n", len(mesh.Vertices), mesh.TriangleCount())
	fmt.Printf("Bounds:     %v .. %v\n", mesh.Bounds.Min, mesh.Bounds.Max)

	if mat == nil {
		fmt.Println("Material:   (none, viewer uses fallback)")
		return nil
	}
	fmt.Printf("Material:   %s\n", mat.Name)
	fmt.Printf("  Ambient   %v\n", mat.Ambient)
	fmt.Printf("  Diffuse   %v\n", mat.Diffuse)
	fmt.Printf("  Specular  %v\n", mat.Specular)
	fmt.Printf("  Shininess %v\n", mat.Shininess)

	slots := []string{"ambient", "diffuse", "specular"}
	for i, h := range mat.Maps() {
		u := uploads.get(h)
		fmt.Printf("  %-9s texture #%d %dx%d\n", slots[i], h, u.width, u.height)
	}
	return nil
}

type upload struct {
	width, height int
}

// recordingUploader stands in for the GPU: it keeps only image sizes.
type recordingUploader struct {
	uploads []upload
}

func (r *recordingUploader) Upload(pixels []byte, width, height int) (texture.Handle, error) {
	if len(pixels) != width*height*4 {
		return 0, fmt.Errorf("%w: %dx%d with %d bytes", texture.ErrInvalidPixels, width, height, len(pixels))
	}
	r.uploads = append(r.uploads, upload{width, height})
	return texture.Handle(len(r.uploads)), nil
}

func (r *recordingUploader) get(h texture.Handle) upload {
	if h == 0 || int(h) > len(r.uploads) {
		return upload{}
	}
	return r.uploads[h-1]
}
