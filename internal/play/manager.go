// internal/play/manager.go
//
// Session orchestration for the anagram game.
// Responsibilities:
//   - Create sessions from upstream question sets and register them.
//   - Serialize every event (input, timer fire, upstream response) through a
//     per-session mutex, the Go rendition of the browser's single logical
//     thread.
//   - Drive the automatic answer check: at most one verification in flight
//     per session, result applied under the session lock.
//   - Own all timers: the 1 Hz elapsed ticker and the feedback dwell
//     (1.5 s correct / 1.0 s wrong), both cancelled on teardown.

package play

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/joselinputri/anagram-arcade/internal/anagram"
	"github.com/joselinputri/anagram-arcade/internal/api"
	"github.com/joselinputri/anagram-arcade/internal/content"
)

// Dwell and timeout defaults. The dwell values match the feedback overlay
// timings the browser UI animates against.
const (
	DefaultCorrectDwell = 1500 * time.Millisecond
	DefaultWrongDwell   = 1000 * time.Millisecond
	DefaultCheckTimeout = 10 * time.Second
)

// Config tunes the manager's timers.
type Config struct {
	CorrectDwell time.Duration
	WrongDwell   time.Duration
	CheckTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.CorrectDwell <= 0 {
		c.CorrectDwell = DefaultCorrectDwell
	}
	if c.WrongDwell <= 0 {
		c.WrongDwell = DefaultWrongDwell
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = DefaultCheckTimeout
	}
	return c
}

// Handle is one live play session: the engine plus its timers and the
// credential forwarded on verification calls.
type Handle struct {
	ID     string
	GameID string

	mu    sync.Mutex
	sess  *anagram.Session
	token string // bearer captured at creation, forwarded upstream

	dwell  *time.Timer
	ticker *time.Ticker
	done   chan struct{}
	closed bool
}

// Manager creates and drives play sessions.
type Manager struct {
	cfg   Config
	svc   content.Service
	store Store
}

// NewManager wires a manager to the content service and a session store.
func NewManager(cfg Config, svc content.Service, store Store) *Manager {
	return &Manager{cfg: cfg.withDefaults(), svc: svc, store: store}
}

// New fetches the question set for gameID and opens a session. The bearer
// token in ctx (if any) is remembered for the session's verification calls.
func (m *Manager) New(ctx context.Context, gameID string) (*Handle, anagram.Snapshot, error) {
	data, err := m.svc.FetchPlay(ctx, gameID)
	if err != nil {
		return nil, anagram.Snapshot{}, err
	}
	sess, err := anagram.NewSession(toQuestionSet(data))
	if err != nil {
		return nil, anagram.Snapshot{}, err
	}
	h := &Handle{
		ID:     uuid.NewString(),
		GameID: gameID,
		sess:   sess,
		token:  api.TokenFromContext(ctx),
		ticker: time.NewTicker(time.Second),
		done:   make(chan struct{}),
	}
	if err := m.store.Save(ctx, h); err != nil {
		return nil, anagram.Snapshot{}, err
	}
	go h.runTicker()
	log.Info().Str("sessionId", h.ID).Str("gameId", gameID).
		Int("questions", len(data.Questions)).Msg("play session opened")
	return h, sess.Snapshot(), nil
}

// toQuestionSet maps the upstream payload to the engine's model, applying
// the default per-question score when the service omits one.
func toQuestionSet(data *content.PlayData) anagram.QuestionSet {
	qs := make([]anagram.Question, len(data.Questions))
	for i, q := range data.Questions {
		qs[i] = anagram.Question{
			ID:        q.QuestionID,
			ImageURL:  q.ImageURL,
			Letters:   q.ShuffledLetters,
			HintLimit: q.HintLimit,
		}
	}
	score := data.ScorePerQuestion
	if score <= 0 {
		score = anagram.DefaultScorePerQuestion
	}
	return anagram.QuestionSet{
		GameID:           data.ID,
		Name:             data.Name,
		ScorePerQuestion: score,
		Questions:        qs,
	}
}

// runTicker advances the session stopwatch once per second until teardown.
func (h *Handle) runTicker() {
	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.C:
			h.mu.Lock()
			if !h.closed {
				h.sess.Tick()
			}
			h.mu.Unlock()
		}
	}
}

// Get returns a session handle by ID.
func (m *Manager) Get(ctx context.Context, id string) (*Handle, error) {
	return m.store.Get(ctx, id)
}

// Snapshot renders the session's observable state.
func (m *Manager) Snapshot(ctx context.Context, id string) (anagram.Snapshot, error) {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return anagram.Snapshot{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sess.Snapshot(), nil
}

// apply runs one event under the session lock, then arms the auto-check if
// the event just filled the last slot.
func (m *Manager) apply(ctx context.Context, id string, event func(*anagram.Session) bool) (anagram.Snapshot, error) {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return anagram.Snapshot{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	event(h.sess)
	m.maybeCheckLocked(h)
	return h.sess.Snapshot(), nil
}

// Tile applies a tile-selection event.
func (m *Manager) Tile(ctx context.Context, id string, tileIndex int) (anagram.Snapshot, error) {
	return m.apply(ctx, id, func(s *anagram.Session) bool { return s.PlaceTile(tileIndex) })
}

// Slot applies a slot-removal event.
func (m *Manager) Slot(ctx context.Context, id string, slotIndex int) (anagram.Snapshot, error) {
	return m.apply(ctx, id, func(s *anagram.Session) bool { return s.RemoveSlot(slotIndex) })
}

// Key applies a keyboard event ("backspace" or a letter).
func (m *Manager) Key(ctx context.Context, id, key string) (anagram.Snapshot, error) {
	return m.apply(ctx, id, func(s *anagram.Session) bool { return s.PressKey(key) })
}

// Navigate applies a prev/next event (delta -1 or +1).
func (m *Manager) Navigate(ctx context.Context, id string, delta int) (anagram.Snapshot, error) {
	return m.apply(ctx, id, func(s *anagram.Session) bool { return s.Navigate(delta) })
}

// Retry re-arms a check that failed in transit. Slots were left intact, so
// this is just the auto-check condition evaluated again.
func (m *Manager) Retry(ctx context.Context, id string) (anagram.Snapshot, error) {
	return m.apply(ctx, id, func(s *anagram.Session) bool { return true })
}

// Again restarts a finished session from the first question.
func (m *Manager) Again(ctx context.Context, id string) (anagram.Snapshot, error) {
	return m.apply(ctx, id, func(s *anagram.Session) bool { return s.PlayAgain() })
}

// maybeCheckLocked launches the verification request when the engine says
// every slot is filled. The engine's checking flag is the single-flight
// guard; it is set before the lock is released.
func (m *Manager) maybeCheckLocked(h *Handle) {
	questionID, answer, ok := h.sess.BeginCheck()
	if !ok {
		return
	}
	go m.runCheck(h, questionID, answer)
}

// runCheck performs one verification round trip and applies the outcome.
func (m *Manager) runCheck(h *Handle, questionID, answer string) {
	ctx, cancel := context.WithTimeout(api.WithToken(context.Background(), h.token), m.cfg.CheckTimeout)
	defer cancel()
	res, err := m.svc.SubmitAnswer(ctx, h.GameID, questionID, answer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if err != nil {
		log.Error().Err(err).Str("sessionId", h.ID).Str("questionId", questionID).Msg("answer check failed")
		h.sess.ApplyCheckError("answer check failed; attempt not recorded")
		return
	}
	if res.IsCorrect {
		h.sess.ApplyCorrect(res.Score)
		m.armDwellLocked(h, m.cfg.CorrectDwell)
	} else {
		h.sess.ApplyWrong()
		m.armDwellLocked(h, m.cfg.WrongDwell)
	}
}

// armDwellLocked schedules the end of the feedback display, superseding any
// previous dwell timer.
func (m *Manager) armDwellLocked(h *Handle, d time.Duration) {
	if h.dwell != nil {
		h.dwell.Stop()
	}
	h.dwell = time.AfterFunc(d, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			return
		}
		h.sess.CompleteFeedback()
	})
}

// Close tears a session down: timers stopped, stale callbacks neutralized,
// handle removed from the store.
func (m *Manager) Close(ctx context.Context, id string) error {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.closed = true
	if h.dwell != nil {
		h.dwell.Stop()
	}
	h.ticker.Stop()
	close(h.done)
	h.mu.Unlock()
	return m.store.Delete(ctx, id)
}

// Shutdown closes every live session.
func (m *Manager) Shutdown(ctx context.Context) {
	for _, h := range m.store.List(ctx) {
		_ = m.Close(ctx, h.ID)
	}
}
