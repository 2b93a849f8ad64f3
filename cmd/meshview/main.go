// Package main is a viewer for Wavefront OBJ meshes and their MTL materials.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/material"
	"github.com/Faultbox/meshview/internal/engine/model"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
)

const (
	windowTitle   = "meshview"
	screenshotDir = "screenshots"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	files := assets.NewManager()
	defer files.Close()
	for _, root := range cfg.Assets.Roots {
		if err := files.AddRoot(root); err != nil {
			return err
		}
	}

	win, err := window.New(window.Config{
		Title:       windowTitle,
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		Fullscreen:  cfg.Graphics.Fullscreen,
		VSync:       cfg.Graphics.VSync,
		MSAASamples: cfg.Graphics.MSAASamples,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.New()
	if err != nil {
		return err
	}
	defer r.Close()

	uploader := &renderer.GLUploader{}
	defer uploader.Close()

	v := &viewer{
		cfg:      cfg,
		files:    files,
		uploader: uploader,
		renderer: r,
		camera:   camera.NewOrbitCamera(),
		shots:    debug.NewScreenshotCapture(screenshotDir, windowTitle),
	}
	if err := v.load(); err != nil {
		return err
	}

	v.loop(win, input.New())
	return nil
}

type viewer struct {
	cfg      *config.Config
	files    *assets.Manager
	uploader *renderer.GLUploader
	resolver *material.Resolver // Owns the textures of the scene on screen
	renderer *renderer.Renderer
	camera   *camera.OrbitCamera
	shots    *debug.ScreenshotCapture
}

// load reads the configured mesh and its material and hands both to the
// renderer. Each call uses a fresh resolver; the textures of the previous
// scene are freed only once the new one is in place.
func (v *viewer) load() error {
	fallback := v.cfg.Material.Fallback
	resolver := material.NewResolver(material.Options{
		Files:       v.files,
		Decoder:     texture.NewFileDecoder(v.files),
		Uploader:    v.uploader,
		MaterialDir: v.cfg.Assets.MaterialDir,
		TextureDir:  v.cfg.Assets.TextureDir,
		Fallback:    &fallback,
	})

	mesh, mat, err := model.LoadOBJ(v.cfg.Assets.Mesh, model.LoadOptions{
		Files:     v.files,
		Materials: resolver,
	})
	if err != nil {
		v.uploader.Delete(resolver.Handles()...)
		return err
	}
	if mat == nil {
		logger.Info("no material selected, using defaults")
		if mat, err = resolver.Default(); err != nil {
			v.uploader.Delete(resolver.Handles()...)
			return err
		}
	}

	v.renderer.SetMesh(mesh)
	v.renderer.SetMaterial(mat)
	v.camera.FitToBounds(mesh.Bounds.Min, mesh.Bounds.Max)

	if v.resolver != nil {
		v.uploader.Delete(v.resolver.Handles()...)
	}
	v.resolver = resolver

	logger.Info("scene ready",
		zap.String("mesh", v.cfg.Assets.Mesh),
		zap.String("material", mat.Name),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	return nil
}

func (v *viewer) loop(win *window.Window, in *input.Input) {
	width, height := win.DrawableSize()
	v.renderer.Resize(width, height)

	last := time.Now()
	frames := 0
	fpsTimer := last

	for {
		if in.Update() {
			return
		}

		for _, e := range in.Events() {
			switch e.Type {
			case input.EventWindowResize:
				width, height = win.DrawableSize()
				v.renderer.Resize(width, height)
			case input.EventWheel:
				v.camera.Zoom(e.Wheel * v.camera.Distance * 0.1)
			}
		}
		if in.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return
		}
		if in.IsKeyPressed(sdl.SCANCODE_R) {
			v.files.Invalidate()
			if err := v.load(); err != nil {
				// Keep showing the previous scene.
				logger.Error("reload failed", zap.Error(err))
			}
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		v.camera.Update(in.Orbit(), dt)

		v.renderer.Draw(v.camera.Transform(width, height), v.camera.Position())
		if in.IsKeyPressed(sdl.SCANCODE_F12) {
			v.screenshot(width, height)
		}
		win.SwapBuffers()

		frames++
		if elapsed := now.Sub(fpsTimer); elapsed >= time.Second {
			win.SetTitle(fmt.Sprintf("%s - %s (%.0f fps)", windowTitle, v.cfg.Assets.Mesh, float64(frames)/elapsed.Seconds()))
			frames = 0
			fpsTimer = now
		}
	}
}

func (v *viewer) screenshot(width, height int) {
	path, err := v.shots.CaptureFromPixels(v.renderer.ReadPixels(width, height), width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
