package main

import "github.com/charmbracelet/harmonica"

// RotationAxis tracks an angle in degrees and its angular velocity. The
// velocity decays toward zero through a critically damped spring, so a
// flick keeps turning the model for a moment and then settles.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis stepped fps times per second.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4 is a moderate decay; damping 1 never overshoots.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies one step of velocity and decays it.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit holds the yaw and pitch of a viewer orbiting the model.
type Orbit struct {
	Yaw, Pitch RotationAxis
	fps        int
}

// NewOrbit creates a resting orbit.
func NewOrbit(fps int) *Orbit {
	return &Orbit{Yaw: NewRotationAxis(fps), Pitch: NewRotationAxis(fps), fps: fps}
}

// Impulse adds angular velocity in degrees per step.
func (o *Orbit) Impulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Update steps both axes and keeps the pitch short of the poles.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	o.Pitch.Position = max(-maxPitch, min(maxPitch, o.Pitch.Position))
}

// Reset stops and recenters the orbit.
func (o *Orbit) Reset() {
	*o = *NewOrbit(o.fps)
}

const maxPitch = 85
