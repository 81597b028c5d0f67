// Package input maps keyboard and mouse state onto camera changes.
// It knows nothing about the window library; viewers adapt their own key codes.
package input

import (
	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/scene"
)

// Key is a window-independent key code
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftShift
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyQ
	KeyE
	KeyJ
	KeyL
	KeyI
	KeyM
	KeyEnter
	KeyO
	KeyTab
	KeyP
)

// Keys lists every key the viewer polls
var Keys = []Key{
	KeyW, KeyA, KeyS, KeyD, KeySpace, KeyLeftShift,
	KeyLeft, KeyRight, KeyUp, KeyDown, KeyQ, KeyE,
	KeyJ, KeyL, KeyI, KeyM, KeyEnter, KeyO, KeyTab, KeyP,
}

const (
	MoveSpeed     = 0.2
	RotateSpeed   = 0.1
	FocusSpeed    = 0.1
	ApertureSpeed = 0.01
	MouseScale    = 100.0
)

// Device reports the current input state
type Device interface {
	IsHeld(key Key) bool
	JustPressed(key Key) bool
	Cursor() (x, y int)
}

// Result describes what one Apply call changed
type Result struct {
	CameraChanged  bool
	ModeToggled    bool
	OverlayToggled bool
	Snapshot       bool // P requests a snapshot
}

// Changed reports whether accumulation has to restart
func (r Result) Changed() bool {
	return r.CameraChanged || r.ModeToggled
}

// State holds the toggles that persist between frames
type State struct {
	MouseLook bool
	lastX     int
	lastY     int
	hasCursor bool
}

// Apply reads the device and updates cam in place
func (s *State) Apply(cam *scene.Camera, dev Device) Result {
	before := *cam
	var result Result

	if dev.JustPressed(KeyTab) {
		s.MouseLook = !s.MouseLook
		s.hasCursor = false
	}
	result.ModeToggled = dev.JustPressed(KeyEnter)
	result.OverlayToggled = dev.JustPressed(KeyO)
	result.Snapshot = dev.JustPressed(KeyP)

	if s.MouseLook {
		x, y := dev.Cursor()
		if !s.hasCursor || x != s.lastX || y != s.lastY {
			MouseLook(cam, x, y)
			s.lastX, s.lastY, s.hasCursor = x, y, true
		}
	}

	held := func(k Key) float64 {
		if dev.IsHeld(k) {
			return 1
		}
		return 0
	}

	cam.Rotation.Z += (held(KeyRight) - held(KeyLeft)) * RotateSpeed
	cam.Rotation.X += (held(KeyUp) - held(KeyDown)) * RotateSpeed
	cam.Rotation.Y += (held(KeyQ) - held(KeyE)) * RotateSpeed

	move := core.NewVec3(
		held(KeyA)-held(KeyD),
		held(KeyW)-held(KeyS),
		held(KeySpace)-held(KeyLeftShift),
	).Multiply(MoveSpeed)
	Move(cam, move)

	cam.FocalLength += (held(KeyL) - held(KeyJ)) * FocusSpeed
	cam.ApertureRadius = max(0, cam.ApertureRadius+(held(KeyI)-held(KeyM))*ApertureSpeed)

	result.CameraChanged = *cam != before
	return result
}

// Move translates the camera by a camera-space offset
func Move(cam *scene.Camera, offset core.Vec3) {
	if offset == (core.Vec3{}) {
		return
	}
	cam.Position = cam.Position.Add(cam.RotationMatrix().Apply(offset))
}

// MouseLook sets yaw and pitch from the cursor position
func MouseLook(cam *scene.Camera, x, y int) {
	cam.Rotation.Z = -float64(x) / MouseScale
	cam.Rotation.X = -float64(y) / MouseScale
}
