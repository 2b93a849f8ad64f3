// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxElevation keeps the eye off the poles, where the up vector degenerates.
const MaxElevation = math.Pi / 2.1

// OrbitCamera orbits around a center point on a sphere.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Azimuth   float32 // Horizontal angle around Y (radians)
	Elevation float32 // Vertical angle above the XZ plane (radians)
	Distance  float32 // Distance from center

	MinDistance float32
	MaxDistance float32

	// Projection
	FovY float32 // Vertical field of view (radians)
	Near float32
	Far  float32

	// Speed is the angular step per second; distance moves by Speed*Distance.
	Speed float32
}

// NewOrbitCamera creates a new orbit camera looking at the origin from 45 degrees.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Azimuth:     math.Pi / 4,
		Elevation:   math.Pi / 4,
		Distance:    3,
		MinDistance: 0.1,
		MaxDistance: 100,
		FovY:        1.25,
		Near:        0.1,
		Far:         100,
		Speed:       1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	az, el := float64(c.Azimuth), float64(c.Elevation)
	offset := mgl32.Vec3{
		float32(math.Cos(az) * math.Cos(el)),
		float32(math.Sin(el)),
		float32(math.Sin(az) * math.Cos(el)),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Transform returns projection * view.
func (c *OrbitCamera) Transform(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// Orbit rotates by the given angles and clamps the elevation.
func (c *OrbitCamera) Orbit(dAzimuth, dElevation float32) {
	c.Azimuth += dAzimuth
	c.Elevation = mgl32.Clamp(c.Elevation+dElevation, -MaxElevation, MaxElevation)
}

// Zoom moves the camera by delta along its view direction; positive moves closer.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance-delta, c.MinDistance, c.MaxDistance)
}

// Input is the set of held orbit controls for one frame.
type Input struct {
	Left, Right, Up, Down bool
	In, Out               bool
}

// Update applies held controls over dt seconds.
func (c *OrbitCamera) Update(in Input, dt float32) {
	step := c.Speed * dt
	var dAz, dEl, dDist float32
	if in.Left {
		dAz += step
	}
	if in.Right {
		dAz -= step
	}
	if in.Up {
		dEl += step
	}
	if in.Down {
		dEl -= step
	}
	if in.In {
		dDist += step * c.Distance
	}
	if in.Out {
		dDist -= step * c.Distance
	}
	c.Orbit(dAz, dEl)
	c.Zoom(dDist)
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to see all of it.
func (c *OrbitCamera) FitToBounds(boundsMin, boundsMax [3]float32) {
	lo, hi := mgl32.Vec3(boundsMin), mgl32.Vec3(boundsMax)
	c.Center = lo.Add(hi).Mul(0.5)

	radius := hi.Sub(lo).Len() / 2
	if radius == 0 {
		return
	}
	d := radius / float32(math.Sin(float64(c.FovY)/2))
	if c.MaxDistance < d*2 {
		c.MaxDistance = d * 2
	}
	if c.Far < d+radius*2 {
		c.Far = d + radius*2
	}
	c.Distance = mgl32.Clamp(d, c.MinDistance, c.MaxDistance)
}
