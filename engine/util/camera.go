package util

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the view the culler needs: a frustum for range queries, a position for occlusion and
// eviction decisions and the far plane distance.
type Camera interface {
	Frustum() Frustum
	Position() mgl32.Vec3
	FarPlane() float32
}

type FPSCamera struct {
	position        mgl32.Vec3
	cameraFront     mgl32.Vec3
	cameraRight     mgl32.Vec3
	cameraUp        mgl32.Vec3
	rotatex         float32
	rotatey         float32
	lookSensitivity float32
	fov             float32
	nearPlane       float32
	farPlane        float32
	windowWidth     int
	windowHeight    int
}

func NewFPSCamera(pos mgl32.Vec3, windowWidth, windowHeight int, sensitivity float32) *FPSCamera {
	f := &FPSCamera{
		position:        pos,
		cameraFront:     mgl32.Vec3{0, 0, -1},
		cameraUp:        mgl32.Vec3{0, 1, 0},
		lookSensitivity: sensitivity,
		rotatey:         0,
		rotatex:         -90,
		fov:             45,
		nearPlane:       0.1,
		farPlane:        1000,
		windowWidth:     windowWidth,
		windowHeight:    windowHeight,
	}
	f.updateTransform()
	return f
}

func (c *FPSCamera) Frustum() Frustum {
	return NewFrustum(c.GetProjectionMatrix(), c.GetViewMatrix())
}

func (c *FPSCamera) Position() mgl32.Vec3 {
	return c.position
}

func (c *FPSCamera) FarPlane() float32 {
	return c.farPlane
}

func (c *FPSCamera) SetFarPlane(far float32) {
	c.farPlane = far
}

func (c *FPSCamera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

func (c *FPSCamera) GetFront() mgl32.Vec3 {
	return c.cameraFront
}

func (c *FPSCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.cameraFront), c.cameraUp)
}

func (c *FPSCamera) GetProjectionMatrix() mgl32.Mat4 {
	aspect := float32(c.windowWidth) / float32(c.windowHeight)
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.nearPlane, c.farPlane)
}

func (c *FPSCamera) GetProjectionViewMatrix() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// MoveInDirection moves on the XZ plane; dir[0] strafes, dir[1] walks forward/backward.
func (c *FPSCamera) MoveInDirection(delta float32, dir [2]int) {
	moveVector := mgl32.Vec3{0, 0, 0}
	if dir[0] != 0 {
		moveVector = moveVector.Add(c.cameraRight.Mul(float32(dir[0]) * delta))
	}
	if dir[1] != 0 {
		walk := mgl32.Vec3{0, 1, 0}.Cross(c.cameraRight).Normalize()
		moveVector = moveVector.Add(walk.Mul(float32(dir[1]) * delta))
	}
	c.position = c.position.Add(moveVector)
}

// ChangeAngles changes the camera's angles by dx and dy.
// Used for mouse look.
func (c *FPSCamera) ChangeAngles(dx, dy float32) {
	if mgl32.Abs(dx) > 200 || mgl32.Abs(dy) > 200 {
		return
	}
	c.rotatex += dx * c.lookSensitivity
	c.rotatey -= dy * c.lookSensitivity
	c.updateTransform()
}

func (c *FPSCamera) SetScreenSize(width int, height int) {
	c.windowWidth = width
	c.windowHeight = height
}

func (c *FPSCamera) updateTransform() {
	if c.rotatey > 89 {
		c.rotatey = 89
	}
	if c.rotatey < -89 {
		c.rotatey = -89
	}
	front := mgl32.Vec3{
		Cos(ToRadian(c.rotatey)) * Cos(ToRadian(c.rotatex)),
		Sin(ToRadian(c.rotatey)),
		Cos(ToRadian(c.rotatey)) * Sin(ToRadian(c.rotatex)),
	}
	c.cameraFront = front.Normalize()
	c.cameraRight = c.cameraFront.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	c.cameraUp = c.cameraRight.Cross(c.cameraFront).Normalize()
}

func (c *FPSCamera) DebugAim() string {
	return fmt.Sprintf("Pos: (%0.2f, %0.2f, %0.2f) Aim: (%0.2f, %0.2f)", c.position.X(), c.position.Y(), c.position.Z(), c.rotatex, c.rotatey)
}
