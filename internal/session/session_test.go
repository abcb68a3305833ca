package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/phyzzle/internal/content"
	"github.com/vovakirdan/phyzzle/internal/match3"
)

type fakeProvider struct{}

func (fakeProvider) Question(content.Source) content.Question {
	return content.Question{
		ID:      "q1",
		Topic:   content.TopicPhysics,
		Prompt:  "F = ?",
		Options: []string{"m*a", "m/a"},
		Correct: 0,
	}
}

func (fakeProvider) WordChallenge(content.Source) content.WordChallenge {
	return content.WordChallenge{
		Word:      "FORCE",
		Hint:      "push or pull",
		Scrambled: "CROFE",
		Options:   []string{"FORCE", "MASS"},
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) OnSessionEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func matchOf(n int, t match3.TileType) match3.MatchEvent {
	ev := match3.MatchEvent{Passes: 1, Level: 1}
	for range n {
		ev.Details = append(ev.Details, match3.MatchDetail{Type: t, Count: 1})
	}
	return ev
}

func newSession(t *testing.T, rules Rules) (*Session, *recorder) {
	t.Helper()
	s := New(rules, fakeProvider{}, rand.New(rand.NewSource(1)))
	rec := &recorder{}
	s.Subscribe(rec)
	require.NoError(t, s.Start("ada"))
	return s, rec
}

func TestRules(t *testing.T) {
	r := DefaultRules()

	assert.Equal(t, 370*time.Millisecond, r.DecayInterval(1))
	assert.Equal(t, 250*time.Millisecond, r.DecayInterval(5))
	assert.Equal(t, 120*time.Millisecond, r.DecayInterval(10))

	assert.Equal(t, 8, r.RequiredTarget(1))
	assert.Equal(t, 16, r.RequiredTarget(2))
	assert.Equal(t, 20, r.RequiredTarget(3))

	assert.Equal(t, match3.Gravity, r.TargetType(1))
	assert.Equal(t, match3.Mass, r.TargetType(2))
	assert.Equal(t, match3.Gravity, r.TargetType(5))
	assert.Equal(t, match3.Force, r.TargetType(6))

	src := rand.New(rand.NewSource(3))
	for range 20 {
		d := r.QuizDelay(src)
		assert.GreaterOrEqual(t, d, 20*time.Second)
		assert.Less(t, d, 45*time.Second)
	}
}

func TestScheduler(t *testing.T) {
	s := NewScheduler()
	var log []string

	s.After(30*time.Millisecond, func() { log = append(log, "once") })
	tick := s.Every(10*time.Millisecond, func() { log = append(log, "tick") })
	dropped := s.After(5*time.Millisecond, func() { log = append(log, "dropped") })
	require.True(t, s.Cancel(dropped))
	require.False(t, s.Cancel(dropped))

	fired := s.Advance(35 * time.Millisecond)
	assert.Equal(t, 4, fired)
	// Ties fire in creation order
	assert.Equal(t, []string{"tick", "tick", "once", "tick"}, log)
	assert.Equal(t, 35*time.Millisecond, s.Now())

	left, ok := s.Remaining(tick)
	require.True(t, ok)
	assert.Equal(t, 5*time.Millisecond, left)

	s.Cancel(tick)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, s.Advance(time.Second))
}

func TestOnMatchScoring(t *testing.T) {
	s, rec := newSession(t, ZenRules())
	s.state.Stability = 50

	s.OnMatch(matchOf(3, match3.Gravity))
	st := s.State()
	assert.Equal(t, 75, st.Score)
	assert.Equal(t, 56, st.Stability)
	assert.Equal(t, 3, st.Collected)

	zap := matchOf(5, match3.Force)
	zap.Details = append(zap.Details, match3.MatchDetail{Type: match3.Obstacle, Count: 1})
	zap.ObstaclesCleared = true
	s.OnMatch(zap)

	st = s.State()
	assert.Equal(t, 75+6*25+500, st.Score)
	assert.Equal(t, 56+12+20, st.Stability)
	assert.Equal(t, 3, st.Collected, "non-target details must not count")

	s.OnMatch(matchOf(10, match3.Mass))
	assert.Equal(t, 100, s.State().Stability, "stability is capped")

	assert.Equal(t, []EventKind{EventStarted, EventScoreChanged, EventScoreChanged, EventScoreChanged}, rec.kinds())
}

func TestWordChallengeLevelUp(t *testing.T) {
	s, rec := newSession(t, ZenRules())

	s.OnMatch(matchOf(8, match3.Gravity))
	require.Equal(t, PhaseWordChallenge, s.Phase())
	require.NotNil(t, s.State().Word)

	// Matches are ignored while the challenge is open
	s.OnMatch(matchOf(3, match3.Gravity))
	assert.Equal(t, 8*25, s.State().Score)

	ok, err := s.AnswerWord("MASS")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, PhaseWordChallenge, s.Phase(), "wrong guess keeps the challenge open")

	s.state.Stability = 40
	ok, err = s.AnswerWord(" force ")
	require.NoError(t, err)
	require.True(t, ok)

	st := s.State()
	assert.Equal(t, PhasePlaying, st.Phase)
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, 8*25+5000, st.Score)
	assert.Equal(t, 100, st.Stability)
	assert.Equal(t, 0, st.Collected)
	assert.Equal(t, 16, st.Required)
	assert.Equal(t, match3.Mass, st.Target)
	assert.Nil(t, st.Word)

	assert.Equal(t, []EventKind{
		EventStarted, EventScoreChanged, EventWordOpened,
		EventWordAnswered, EventWordAnswered, EventLevelUp,
	}, rec.kinds())
	assert.False(t, rec.events[3].Correct)
	assert.True(t, rec.events[4].Correct)
}

func TestStabilityDecay(t *testing.T) {
	rules := DefaultRules()
	rules.QuizEnabled = false
	s, rec := newSession(t, rules)

	s.Advance(10 * 370 * time.Millisecond)
	assert.Equal(t, 90, s.State().Stability)

	s.Advance(time.Minute)
	st := s.State()
	assert.Equal(t, PhaseGameOver, st.Phase)
	assert.Equal(t, 0, st.Stability)
	assert.True(t, st.Exploding)
	assert.Equal(t, EventGameOver, rec.events[len(rec.events)-1].Kind)
	assert.Equal(t, 0, s.Clock().Pending())
}

func TestZenHasNoTimers(t *testing.T) {
	s, _ := newSession(t, ZenRules())

	s.Advance(10 * time.Minute)
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, 100, s.State().Stability)
	assert.Equal(t, 0, s.Clock().Pending())
}

func advanceUntil(t *testing.T, s *Session, phase Phase) {
	t.Helper()
	for range 1000 {
		if s.Phase() == phase {
			return
		}
		s.Advance(100 * time.Millisecond)
	}
	t.Fatalf("phase %s never reached, stuck in %s", phase, s.Phase())
}

func TestQuizFlow(t *testing.T) {
	rules := DefaultRules()
	rules.DecayEnabled = false
	s, rec := newSession(t, rules)

	s.Advance(19 * time.Second)
	require.Equal(t, PhasePlaying, s.Phase(), "no quiz before the minimum delay")

	advanceUntil(t, s, PhaseQuiz)
	require.NotNil(t, s.State().Question)
	assert.LessOrEqual(t, s.State().QuizLeft, 10*time.Second)
	assert.Greater(t, s.State().QuizLeft, 9*time.Second)

	s.state.Stability = 90
	ok, err := s.AnswerQuestion(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 500, s.State().Score)
	assert.Equal(t, 100, s.State().Stability)
	assert.Equal(t, PhasePlaying, s.Phase())

	// The next quiz times out
	advanceUntil(t, s, PhaseQuiz)
	s.Advance(10 * time.Second)
	st := s.State()
	assert.Equal(t, PhasePlaying, st.Phase)
	assert.Equal(t, 300, st.Score)
	assert.Equal(t, 75, st.Stability)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventQuizAnswered, last.Kind)
	assert.True(t, last.TimedOut)
	assert.False(t, last.Correct)
}

func TestQuizWrongCanEndGame(t *testing.T) {
	rules := DefaultRules()
	rules.DecayEnabled = false
	s, _ := newSession(t, rules)

	advanceUntil(t, s, PhaseQuiz)
	s.state.Stability = 20

	ok, err := s.AnswerQuestion(1)
	require.NoError(t, err)
	assert.False(t, ok)

	st := s.State()
	assert.Equal(t, PhaseGameOver, st.Phase)
	assert.True(t, st.Exploding)
	assert.Equal(t, 0, st.Score, "score never goes below zero")
}

func TestPauseFreezesClock(t *testing.T) {
	s, _ := newSession(t, DefaultRules())

	require.NoError(t, s.Pause())
	s.Advance(time.Hour)
	assert.Equal(t, 100, s.State().Stability)
	assert.Equal(t, time.Duration(0), s.State().Elapsed)

	require.NoError(t, s.Resume())
	assert.Equal(t, PhasePlaying, s.Phase())

	s.Advance(370 * time.Millisecond)
	assert.Equal(t, 99, s.State().Stability)
}

func TestWrongPhase(t *testing.T) {
	s := New(DefaultRules(), fakeProvider{}, rand.New(rand.NewSource(1)))

	assert.ErrorIs(t, s.Pause(), ErrWrongPhase)
	assert.ErrorIs(t, s.End(), ErrWrongPhase)

	require.NoError(t, s.Start("ada"))
	assert.ErrorIs(t, s.Start("ada"), ErrWrongPhase)
	assert.ErrorIs(t, s.Resume(), ErrWrongPhase)

	_, err := s.AnswerQuestion(0)
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = s.AnswerWord("FORCE")
	assert.ErrorIs(t, err, ErrWrongPhase)

	require.NoError(t, s.End())
	st := s.State()
	assert.Equal(t, PhaseGameOver, st.Phase)
	assert.False(t, st.Exploding)

	// A finished session can start again from scratch
	require.NoError(t, s.Start("bob"))
	assert.Equal(t, "bob", s.State().Player)
	assert.Equal(t, 0, s.State().Score)
}
