// Package session tracks score, stability, targets and the quiz and word
// interruptions around a match3 engine.
//
// A Session is a finite-state object driven by engine events (OnMatch), player
// answers and a virtual clock (Advance). It never touches the grid itself;
// the game shell reacts to EventLevelUp by rebuilding the grid.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/phyzzle/internal/content"
	"github.com/vovakirdan/phyzzle/internal/match3"
)

// ErrWrongPhase is returned when an action is not valid in the current phase.
var ErrWrongPhase = errors.New("action not allowed in this phase")

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
	PhaseQuiz
	PhaseWordChallenge
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseQuiz:
		return "quiz"
	case PhaseWordChallenge:
		return "word_challenge"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is a snapshot of the session.
type State struct {
	Phase     Phase                  `json:"phase"`
	Player    string                 `json:"player"`
	Score     int                    `json:"score"`
	Level     int                    `json:"level"`
	Stability int                    `json:"stability"`
	Target    match3.TileType        `json:"target"`
	Collected int                    `json:"collected"`
	Required  int                    `json:"required"`
	Exploding bool                   `json:"exploding,omitempty"`
	Question  *content.Question      `json:"question,omitempty"`
	Word      *content.WordChallenge `json:"-"`
	QuizLeft  time.Duration          `json:"quiz_left,omitempty"`
	Elapsed   time.Duration          `json:"elapsed"`
}

// Session is not safe for concurrent use.
type Session struct {
	rules    Rules
	provider content.Provider
	rng      match3.Source
	clock    *Scheduler

	state  State
	resume Phase

	decayID   TimerID
	quizID    TimerID
	timeoutID TimerID

	listeners []Listener
}

// New creates an idle session. provider may be nil when quizzes are disabled
// and the word challenge is never reached.
func New(rules Rules, provider content.Provider, rng match3.Source) *Session {
	if rules.StartLevel < 1 {
		rules.StartLevel = 1
	}
	return &Session{
		rules:    rules,
		provider: provider,
		rng:      rng,
		clock:    NewScheduler(),
		state:    State{Phase: PhaseIdle, Level: rules.StartLevel},
	}
}

// Rules returns the session rules.
func (s *Session) Rules() Rules {
	return s.rules
}

// Clock returns the session's virtual clock.
func (s *Session) Clock() *Scheduler {
	return s.clock
}

// Subscribe registers a listener.
func (s *Session) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := s.state
	if s.timeoutID != 0 {
		if left, ok := s.clock.Remaining(s.timeoutID); ok {
			st.QuizLeft = left
		}
	}
	return st
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.state.Phase
}

// Start begins a new round for player. It is valid from Idle and GameOver.
func (s *Session) Start(player string) error {
	if s.state.Phase != PhaseIdle && s.state.Phase != PhaseGameOver {
		return fmt.Errorf("session: start from %s: %w", s.state.Phase, ErrWrongPhase)
	}

	s.cancelAll()
	level := s.rules.StartLevel
	s.state = State{
		Phase:     PhasePlaying,
		Player:    player,
		Level:     level,
		Stability: s.rules.StabilityMax,
		Target:    s.rules.TargetType(level),
		Required:  s.rules.RequiredTarget(level),
	}
	s.arm()
	s.emit(Event{Kind: EventStarted})
	return nil
}

// Pause freezes the clock. Valid while playing or while a question is open.
func (s *Session) Pause() error {
	switch s.state.Phase {
	case PhasePlaying, PhaseQuiz, PhaseWordChallenge:
	default:
		return fmt.Errorf("session: pause from %s: %w", s.state.Phase, ErrWrongPhase)
	}
	s.resume = s.state.Phase
	s.state.Phase = PhasePaused
	s.emit(Event{Kind: EventPaused})
	return nil
}

// Resume returns to the phase active before Pause.
func (s *Session) Resume() error {
	if s.state.Phase != PhasePaused {
		return fmt.Errorf("session: resume from %s: %w", s.state.Phase, ErrWrongPhase)
	}
	s.state.Phase = s.resume
	s.emit(Event{Kind: EventResumed})
	return nil
}

// End stops the round without an explosion.
func (s *Session) End() error {
	if s.state.Phase == PhaseIdle || s.state.Phase == PhaseGameOver {
		return fmt.Errorf("session: end from %s: %w", s.state.Phase, ErrWrongPhase)
	}
	s.gameOver(false)
	return nil
}

// Advance moves the virtual clock. The clock is frozen unless a round is
// running and not paused.
func (s *Session) Advance(dt time.Duration) {
	switch s.state.Phase {
	case PhasePlaying, PhaseQuiz, PhaseWordChallenge:
		s.state.Elapsed += dt
		s.clock.Advance(dt)
	}
}

// OnMatch scores an engine event. Events outside Playing are ignored.
func (s *Session) OnMatch(ev match3.MatchEvent) {
	if s.state.Phase != PhasePlaying {
		return
	}

	cells := len(ev.Details)
	s.state.Score += cells * s.rules.PointsPerCell
	gain := cells * s.rules.StabilityPerCell
	if ev.ObstaclesCleared {
		s.state.Score += s.rules.ZapBonus
		gain += s.rules.StabilityZapBonus
	}
	s.state.Stability = min(s.rules.StabilityMax, s.state.Stability+gain)
	s.state.Collected += ev.CountOf(s.state.Target)

	s.emit(Event{Kind: EventScoreChanged})

	if s.state.Collected >= s.state.Required {
		s.openWord()
	}
}

// AnswerQuestion answers the open quiz with option index choice.
func (s *Session) AnswerQuestion(choice int) (bool, error) {
	if s.state.Phase != PhaseQuiz || s.state.Question == nil {
		return false, fmt.Errorf("session: answer question in %s: %w", s.state.Phase, ErrWrongPhase)
	}
	correct := s.state.Question.IsCorrect(choice)
	s.resolveQuiz(correct, false)
	return correct, nil
}

// AnswerWord submits a guess for the open word challenge. A wrong guess
// leaves the challenge open.
func (s *Session) AnswerWord(guess string) (bool, error) {
	if s.state.Phase != PhaseWordChallenge || s.state.Word == nil {
		return false, fmt.Errorf("session: answer word in %s: %w", s.state.Phase, ErrWrongPhase)
	}

	if !s.state.Word.Check(guess) {
		s.emit(Event{Kind: EventWordAnswered, Correct: false})
		return false, nil
	}

	level := s.state.Level + 1
	s.state.Score += s.rules.WordScore
	s.state.Stability = s.rules.StabilityMax
	s.state.Level = level
	s.state.Collected = 0
	s.state.Required = s.rules.RequiredTarget(level)
	s.state.Target = s.rules.TargetType(level)
	s.state.Word = nil
	s.state.Phase = PhasePlaying
	s.arm()

	s.emit(Event{Kind: EventWordAnswered, Correct: true})
	s.emit(Event{Kind: EventLevelUp})
	return true, nil
}

func (s *Session) openQuiz() {
	s.quizID = 0
	if s.state.Phase != PhasePlaying || s.provider == nil {
		return
	}

	s.disarm()
	q := s.provider.Question(s.rng)
	s.state.Question = &q
	s.state.Phase = PhaseQuiz
	s.timeoutID = s.clock.After(s.rules.QuizTimeout, func() {
		s.timeoutID = 0
		s.resolveQuiz(false, true)
	})
	s.emit(Event{Kind: EventQuizOpened})
}

func (s *Session) resolveQuiz(correct, timedOut bool) {
	if s.timeoutID != 0 {
		s.clock.Cancel(s.timeoutID)
		s.timeoutID = 0
	}
	s.state.Question = nil

	if correct {
		s.state.Score += s.rules.QuizCorrectScore
		s.state.Stability = min(s.rules.StabilityMax, s.state.Stability+s.rules.QuizCorrectStability)
	} else {
		s.state.Score = max(0, s.state.Score-s.rules.QuizWrongScore)
		s.state.Stability = max(0, s.state.Stability-s.rules.QuizWrongStability)
	}

	if s.state.Stability <= 0 {
		s.emit(Event{Kind: EventQuizAnswered, Correct: correct, TimedOut: timedOut})
		s.gameOver(true)
		return
	}

	s.state.Phase = PhasePlaying
	s.arm()
	s.emit(Event{Kind: EventQuizAnswered, Correct: correct, TimedOut: timedOut})
}

func (s *Session) openWord() {
	if s.provider == nil {
		return
	}
	s.disarm()
	w := s.provider.WordChallenge(s.rng)
	s.state.Word = &w
	s.state.Phase = PhaseWordChallenge
	s.emit(Event{Kind: EventWordOpened})
}

func (s *Session) decayTick() {
	s.state.Stability = max(0, s.state.Stability-s.rules.DecayAmount)
	if s.state.Stability == 0 {
		s.gameOver(true)
	}
}

func (s *Session) gameOver(exploding bool) {
	s.cancelAll()
	s.state.Phase = PhaseGameOver
	s.state.Exploding = exploding
	s.state.Question = nil
	s.state.Word = nil
	s.emit(Event{Kind: EventGameOver})
}

// arm starts the play-phase timers.
func (s *Session) arm() {
	s.disarm()
	if s.rules.DecayEnabled {
		s.decayID = s.clock.Every(s.rules.DecayInterval(s.state.Level), s.decayTick)
	}
	if s.rules.QuizEnabled && s.provider != nil {
		s.quizID = s.clock.After(s.rules.QuizDelay(s.rng), s.openQuiz)
	}
}

func (s *Session) disarm() {
	if s.decayID != 0 {
		s.clock.Cancel(s.decayID)
		s.decayID = 0
	}
	if s.quizID != 0 {
		s.clock.Cancel(s.quizID)
		s.quizID = 0
	}
}

func (s *Session) cancelAll() {
	s.disarm()
	if s.timeoutID != 0 {
		s.clock.Cancel(s.timeoutID)
		s.timeoutID = 0
	}
}

func (s *Session) emit(ev Event) {
	ev.State = s.State()
	for _, l := range s.listeners {
		l.OnSessionEvent(ev)
	}
}
