package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-wormhole-raytracer/pkg/input"
)

var keyMap = map[input.Key]ebiten.Key{
	input.KeyW:         ebiten.KeyW,
	input.KeyA:         ebiten.KeyA,
	input.KeyS:         ebiten.KeyS,
	input.KeyD:         ebiten.KeyD,
	input.KeySpace:     ebiten.KeySpace,
	input.KeyLeftShift: ebiten.KeyShiftLeft,
	input.KeyLeft:      ebiten.KeyArrowLeft,
	input.KeyRight:     ebiten.KeyArrowRight,
	input.KeyUp:        ebiten.KeyArrowUp,
	input.KeyDown:      ebiten.KeyArrowDown,
	input.KeyQ:         ebiten.KeyQ,
	input.KeyE:         ebiten.KeyE,
	input.KeyJ:         ebiten.KeyJ,
	input.KeyL:         ebiten.KeyL,
	input.KeyI:         ebiten.KeyI,
	input.KeyM:         ebiten.KeyM,
	input.KeyEnter:     ebiten.KeyEnter,
	input.KeyO:         ebiten.KeyO,
	input.KeyTab:       ebiten.KeyTab,
	input.KeyP:         ebiten.KeyP,
}

// device reads ebiten's keyboard and cursor state
type device struct{}

func (device) IsHeld(key input.Key) bool {
	k, ok := keyMap[key]
	return ok && ebiten.IsKeyPressed(k)
}

func (device) JustPressed(key input.Key) bool {
	k, ok := keyMap[key]
	return ok && inpututil.IsKeyJustPressed(k)
}

func (device) Cursor() (int, int) {
	return ebiten.CursorPosition()
}
