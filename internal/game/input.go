package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"raycaster/internal/intent"
)

// Key bindings. Either key of a pair triggers the action.
var (
	forwardKeys = []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}
	backKeys    = []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}
	leftKeys    = []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}
	rightKeys   = []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}
	quitKeys    = []ebiten.Key{ebiten.KeyEscape}
)

// readIntent samples the movement keys through pressed, normally
// ebiten.IsKeyPressed.
func readIntent(pressed func(ebiten.Key) bool) intent.Intent {
	anyPressed := func(keys []ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}

	return intent.Intent{
		Forward: anyPressed(forwardKeys),
		Back:    anyPressed(backKeys),
		Left:    anyPressed(leftKeys),
		Right:   anyPressed(rightKeys),
		Quit:    anyPressed(quitKeys),
	}
}
