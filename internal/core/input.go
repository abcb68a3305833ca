package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow - move cursor up
	ActionDown           // S, J, Down arrow - move cursor down
	ActionLeft           // A, H, Left arrow - move cursor left
	ActionRight          // D, L, Right arrow - move cursor right
	ActionSelect         // Space - select or swap the tile under the cursor
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
	ActionChoice1        // 1 - first answer
	ActionChoice2        // 2 - second answer
	ActionChoice3        // 3 - third answer
	ActionChoice4        // 4 - fourth answer
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionSelect:  "Select",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
	ActionChoice1: "Choice1",
	ActionChoice2: "Choice2",
	ActionChoice3: "Choice3",
	ActionChoice4: "Choice4",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// ChoiceActions lists the answer actions in option order.
func ChoiceActions() []Action {
	return []Action{ActionChoice1, ActionChoice2, ActionChoice3, ActionChoice4}
}

// Point is a screen position in characters.
type Point struct {
	X, Y int
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Clicks holds mouse presses in screen coordinates, oldest first.
	Clicks []Point
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Click records a mouse press at screen position (x, y).
func (f *InputFrame) Click(x, y int) {
	f.Clicks = append(f.Clicks, Point{X: x, Y: y})
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether nothing was pressed this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && len(f.Clicks) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Clicks = f.Clicks[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Clicks = append([]Point(nil), f.Clicks...)
	return clone
}
