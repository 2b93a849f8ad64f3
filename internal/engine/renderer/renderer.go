// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/material"
	"github.com/Faultbox/meshview/internal/engine/model"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
)

// ClearColor is the background colour.
var ClearColor = [4]float32{0.2, 0.3, 0.3, 1.0}

// Renderer draws one mesh with one material.
type Renderer struct {
	program *shader.Program

	vao         uint32
	vbo         uint32
	vertexCount int32

	material *material.Material
}

// New initializes OpenGL and builds the mesh program.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])

	program, err := shader.NewMeshProgram()
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh program: %w", err)
	}
	logger.Debug("shader program created", zap.Uint32("program", program.ID))

	return &Renderer{program: program}, nil
}

// SetMesh uploads the vertex buffer, replacing any previous mesh.
func (r *Renderer) SetMesh(mesh *model.Mesh) {
	r.deleteBuffers()

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(mesh.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(model.VertexStride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)
	}

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexStride, uintptr(model.PositionOffset))
	gl.EnableVertexAttribArray(0)
	// TexCoord
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, model.VertexStride, uintptr(model.TexCoordOffset))
	gl.EnableVertexAttribArray(1)
	// Normal
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, model.VertexStride, uintptr(model.NormalOffset))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.vertexCount = int32(len(mesh.Vertices))
	logger.Debug("mesh uploaded",
		zap.Uint32("vao", r.vao),
		zap.Uint32("vbo", r.vbo),
		zap.Int32("vertices", r.vertexCount),
	)
}

// SetMaterial selects the material used by Draw.
func (r *Renderer) SetMaterial(m *material.Material) {
	r.material = m
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Draw clears the frame and draws the mesh seen through transform from eye.
func (r *Renderer) Draw(transform mgl32.Mat4, eye mgl32.Vec3) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.vertexCount == 0 || r.material == nil {
		return
	}

	r.program.Use()
	r.program.SetCamera(transform, eye)
	r.program.SetMaterial(r.material)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.vertexCount)
	gl.BindVertexArray(0)
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.deleteBuffers()
	r.program.Delete()
}

func (r *Renderer) deleteBuffers() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	r.vertexCount = 0
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
