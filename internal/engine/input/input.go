// Package input turns SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is something the viewer does in response to input.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionResize
	ActionToggleTris
	ActionToggleNormals
	ActionToggleLightmap
	ActionCycleGreyscale
	ActionToggleFog
	ActionScreenshot
	ActionOpenTextures
)

// keyActions maps key presses to toggles.
var keyActions = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_T:      ActionToggleTris,
	sdl.SCANCODE_N:      ActionToggleNormals,
	sdl.SCANCODE_L:      ActionToggleLightmap,
	sdl.SCANCODE_G:      ActionCycleGreyscale,
	sdl.SCANCODE_F:      ActionToggleFog,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_O:      ActionOpenTextures,
}

// Event is one action with its arguments.
type Event struct {
	Action Action
	Width  int
	Height int
}

// Input collects the actions of one frame and the mouse motion driving the
// camera.
type Input struct {
	events []Event

	dragging   bool
	dragX      float32
	dragY      float32
	wheel      float32
	buttonDown uint8
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:     make([]Event, 0, 16),
		buttonDown: sdl.BUTTON_LEFT,
	}
}

// Update polls SDL events. It returns true when the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dragX, i.dragY, i.wheel = 0, 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Action: ActionQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Action: ActionResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			if a, ok := keyActions[e.Keysym.Scancode]; ok {
				i.events = append(i.events, Event{Action: a})
				if a == ActionQuit {
					return true
				}
			}

		case *sdl.MouseButtonEvent:
			if e.Button == i.buttonDown {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.dragX += float32(e.XRel)
				i.dragY += float32(e.YRel)
			}

		case *sdl.MouseWheelEvent:
			i.wheel += float32(e.Y)
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Drag returns the mouse movement while the button was held this frame.
func (i *Input) Drag() (dx, dy float32) {
	return i.dragX, i.dragY
}

// Wheel returns the scroll amount of this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}
