package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbit limits.
const (
	MinDistance = 8.0
	MaxDistance = 120.0
	DefaultFOV  = 60.0
)

// Camera orbits a target point at a distance, yaw and pitch.
type Camera struct {
	Target   mgl32.Vec3
	Distance float64
	Yaw      float64 // radians around Y
	Pitch    float64 // radians above horizon
}

func (c *Camera) Clamp() {
	if c.Distance < MinDistance {
		c.Distance = MinDistance
	}
	if c.Distance > MaxDistance {
		c.Distance = MaxDistance
	}
	limit := math.Pi/2 - 0.05
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl32.Vec3 {
	cp := math.Cos(c.Pitch)
	return c.Target.Add(mgl32.Vec3{
		float32(c.Distance * cp * math.Cos(c.Yaw)),
		float32(c.Distance * math.Sin(c.Pitch)),
		float32(c.Distance * cp * math.Sin(c.Yaw)),
	})
}

// ViewProjection builds the combined camera matrix for the framebuffer.
func (c *Camera) ViewProjection(fbW, fbH int) mgl32.Mat4 {
	proj := mgl32.Perspective(
		mgl32.DegToRad(DefaultFOV),
		float32(fbW)/float32(fbH),
		0.1, 500.0,
	)
	view := mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}
