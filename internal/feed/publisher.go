package feed

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/session"
)

// Message types.
const (
	TypeMatch   = "match"
	TypeSession = "session"
)

// Broadcaster receives encoded feed messages. *Hub implements it.
type Broadcaster interface {
	Broadcast(Message) error
}

// Publisher forwards one game's events to a Broadcaster, tagged with a
// session ID.
type Publisher struct {
	out     Broadcaster
	session string
	now     func() time.Time
	onError func(error)
}

// NewPublisher creates a publisher with a fresh session ID.
func NewPublisher(out Broadcaster) *Publisher {
	return &Publisher{
		out:     out,
		session: uuid.NewString(),
		now:     time.Now,
	}
}

// WithSession overrides the session ID, for instance with the SSH session's.
func (p *Publisher) WithSession(id string) *Publisher {
	p.session = id
	return p
}

// OnError sets a callback for encode or broadcast failures.
func (p *Publisher) OnError(fn func(error)) *Publisher {
	p.onError = fn
	return p
}

// SessionID returns the tag attached to every message.
func (p *Publisher) SessionID() string {
	return p.session
}

// OnMatch publishes an accepted swap.
func (p *Publisher) OnMatch(ev match3.MatchEvent) {
	p.publish(TypeMatch, ev)
}

// OnSessionEvent publishes a session transition.
func (p *Publisher) OnSessionEvent(ev session.Event) {
	p.publish(TypeSession, ev)
}

func (p *Publisher) publish(kind string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = p.out.Broadcast(Message{
			Type:    kind,
			Session: p.session,
			Time:    p.now().UTC(),
			Data:    data,
		})
	}
	if err != nil && p.onError != nil {
		p.onError(err)
	}
}

var (
	_ match3.Listener  = (*Publisher)(nil)
	_ session.Listener = (*Publisher)(nil)
	_ Broadcaster      = (*Hub)(nil)
)
