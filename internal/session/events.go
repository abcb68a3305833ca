package session

// EventKind identifies a session event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventScoreChanged
	EventQuizOpened
	EventQuizAnswered
	EventWordOpened
	EventWordAnswered
	EventLevelUp
	EventPaused
	EventResumed
	EventGameOver
)

var eventNames = map[EventKind]string{
	EventStarted:      "started",
	EventScoreChanged: "score_changed",
	EventQuizOpened:   "quiz_opened",
	EventQuizAnswered: "quiz_answered",
	EventWordOpened:   "word_opened",
	EventWordAnswered: "word_answered",
	EventLevelUp:      "level_up",
	EventPaused:       "paused",
	EventResumed:      "resumed",
	EventGameOver:     "game_over",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is emitted on every session transition.
type Event struct {
	Kind     EventKind `json:"kind"`
	State    State     `json:"state"`
	Correct  bool      `json:"correct,omitempty"`
	TimedOut bool      `json:"timed_out,omitempty"`
}

// Listener observes session events.
type Listener interface {
	OnSessionEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnSessionEvent calls f(ev).
func (f ListenerFunc) OnSessionEvent(ev Event) {
	f(ev)
}
