package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// Camera is a first-person pose that produces the view matrix. The lens
// (field of view and clip distances) belongs to the Renderer.
type Camera[T scalar.Number[T]] struct {
	// Position in world space
	Position math3d.Vec3[T]

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	viewMatrix math3d.Mat4[T]
	viewDirty  bool
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera[T scalar.Number[T]]() *Camera[T] {
	return &Camera[T]{viewDirty: true}
}

// SetPosition sets the camera position.
func (c *Camera[T]) SetPosition(pos math3d.Vec3[T]) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera[T]) SetRotation(pitch, yaw, roll float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.viewDirty = true
}

// Forward returns the forward direction vector.
func (c *Camera[T]) Forward() math3d.Vec3[T] {
	return math3d.V3f[T](
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera[T]) Right() math3d.Vec3[T] {
	return math3d.V3f[T](math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the up direction vector.
func (c *Camera[T]) Up() math3d.Vec3[T] {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera[T]) ViewMatrix() math3d.Mat4[T] {
	if c.viewDirty {
		rot := math3d.RotateZ[T](math3d.Radians(-c.Roll)).Mul(
			math3d.RotateX[T](math3d.Radians(-c.Pitch))).Mul(
			math3d.RotateY[T](math3d.Radians(-c.Yaw)))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.viewMatrix
}

// MoveForward moves the camera forward (or backward if negative).
func (c *Camera[T]) MoveForward(distance T) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
	c.viewDirty = true
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera[T]) MoveRight(distance T) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.viewDirty = true
}

// MoveUp moves the camera up (or down if negative).
func (c *Camera[T]) MoveUp(distance T) {
	c.Position = c.Position.Add(math3d.Up[T]().Scale(distance))
	c.viewDirty = true
}

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera[T]) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw
	c.Roll += deltaRoll

	// Clamp pitch short of straight up or down
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch))

	c.viewDirty = true
}

// LookAt makes the camera look at a target point.
func (c *Camera[T]) LookAt(target math3d.Vec3[T]) {
	dir := target.Sub(c.Position).Normalize()
	x, y, z := dir.X.Float64(), dir.Y.Float64(), dir.Z.Float64()

	c.Pitch = math.Asin(y)
	c.Yaw = math.Atan2(-x, -z)
	c.Roll = 0

	c.viewDirty = true
}

// Orbit places the camera on a sphere around target and points it there.
// yaw turns around +Y and pitch raises the camera above the target.
func (c *Camera[T]) Orbit(target math3d.Vec3[T], radius float64, yaw, pitch math3d.Angle) {
	sy, cy := yaw.Sincos()
	sp, cp := pitch.Sincos()
	offset := math3d.V3f[T](radius*cp*sy, radius*sp, radius*cp*cy)
	c.Position = target.Add(offset)
	c.LookAt(target)
}
