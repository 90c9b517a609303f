// internal/anagram/session.go
//
// Play engine for a single anagram session.
// Responsibilities:
//   - Hold the tiles/slots arrangement for the active question.
//   - Apply input events: tile placement, slot removal, keyboard, navigation.
//   - Arm the automatic answer check once every slot is filled, keeping at
//     most one verification in flight.
//   - Apply verification results, feedback dwell completion, scoring, and
//     the finished/play-again lifecycle.
//
// Notes:
//   - The engine is purely synchronous; callers serialize events (the play
//     manager does this with a per-session mutex) and own all timers.
//   - Invariants maintained outside in-flight mutations: filled slots form a
//     contiguous prefix, and the number of used tiles equals the number of
//     filled slots.
package anagram

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

// ErrNoQuestions is returned when a question set arrives empty.
var ErrNoQuestions = errors.New("question set has no questions")

// Session holds the state of one play-through of a question set.
type Session struct {
	set   QuestionSet
	index int // current question index

	tiles []Tile
	slots []int // tile IDs in answer order, emptySlot when unfilled

	score       int
	correct     int
	elapsedSec  int
	earnedScore int // award shown during correct feedback

	feedback Feedback
	checking bool
	checkErr string
	finished bool

	// solved tracks questions already answered correctly so that browsing
	// back and re-answering never double-scores.
	solved []bool
}

// NewSession constructs a session positioned at the first question.
func NewSession(set QuestionSet) (*Session, error) {
	if len(set.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if set.ScorePerQuestion <= 0 {
		set.ScorePerQuestion = DefaultScorePerQuestion
	}
	s := &Session{
		set:    set,
		solved: make([]bool, len(set.Questions)),
	}
	s.loadQuestion(0)
	return s, nil
}

// DefaultScorePerQuestion is awarded per correct answer when neither the
// question set nor the verification response carries a score.
const DefaultScorePerQuestion = 100

// loadQuestion resets tiles and slots for the question at index i.
// Tile IDs are assigned positionally and stay stable until the question
// changes again.
func (s *Session) loadQuestion(i int) {
	s.index = i
	q := s.set.Questions[i]
	s.tiles = make([]Tile, len(q.Letters))
	for j, letter := range q.Letters {
		s.tiles[j] = Tile{ID: j, Letter: letter}
	}
	s.slots = make([]int, len(q.Letters))
	for j := range s.slots {
		s.slots[j] = emptySlot
	}
	s.feedback = FeedbackNone
	s.checking = false
	s.checkErr = ""
	s.earnedScore = 0
}

// gated reports whether player input must be ignored: a check is in flight,
// feedback is on screen, or the session is finished.
func (s *Session) gated() bool {
	return s.checking || s.feedback != FeedbackNone || s.finished
}

// PlaceTile places the tile at tileIndex into the first empty slot.
// Returns false (no state change) when gated, out of range, already used,
// or no slot is free.
func (s *Session) PlaceTile(tileIndex int) bool {
	if s.gated() || tileIndex < 0 || tileIndex >= len(s.tiles) {
		return false
	}
	if s.tiles[tileIndex].Used {
		return false
	}
	free := -1
	for i, id := range s.slots {
		if id == emptySlot {
			free = i
			break
		}
	}
	if free == -1 {
		return false
	}
	s.slots[free] = s.tiles[tileIndex].ID
	s.tiles[tileIndex].Used = true
	s.checkErr = ""
	return true
}

// RemoveSlot clears the filled slot at slotIndex, returns its tile to the
// rack, and shifts the following slots left so filled slots stay contiguous.
func (s *Session) RemoveSlot(slotIndex int) bool {
	if s.gated() || slotIndex < 0 || slotIndex >= len(s.slots) {
		return false
	}
	id := s.slots[slotIndex]
	if id == emptySlot {
		return false
	}
	s.tiles[id].Used = false
	for i := slotIndex; i < len(s.slots)-1; i++ {
		s.slots[i] = s.slots[i+1]
	}
	s.slots[len(s.slots)-1] = emptySlot
	s.checkErr = ""
	return true
}

// PressKey maps a keyboard event onto the pointer handlers: a letter picks
// the first unused tile with that letter (case-insensitive), "backspace"
// clears the last filled slot.
func (s *Session) PressKey(key string) bool {
	if s.gated() {
		return false
	}
	if strings.EqualFold(key, "backspace") {
		for i := len(s.slots) - 1; i >= 0; i-- {
			if s.slots[i] != emptySlot {
				return s.RemoveSlot(i)
			}
		}
		return false
	}
	for i, t := range s.tiles {
		if !t.Used && strings.EqualFold(t.Letter, key) {
			return s.PlaceTile(i)
		}
	}
	return false
}

// Navigate moves to the previous (delta -1) or next (delta +1) question.
// Browsing is free and never affects the score; the target question's tiles
// and slots are reinitialized regardless of any earlier outcome.
func (s *Session) Navigate(delta int) bool {
	if s.gated() {
		return false
	}
	next := s.index + delta
	if next < 0 || next >= len(s.set.Questions) {
		return false
	}
	s.loadQuestion(next)
	return true
}

// ReadyToCheck reports whether the auto-check should fire: every slot
// filled, no check in flight, no feedback on screen.
func (s *Session) ReadyToCheck() bool {
	if s.gated() || len(s.slots) == 0 {
		return false
	}
	for _, id := range s.slots {
		if id == emptySlot {
			return false
		}
	}
	return true
}

// BeginCheck arms the verification request. On success it marks the session
// checking and returns the question ID plus the joined, lower-cased answer.
func (s *Session) BeginCheck() (questionID, answer string, ok bool) {
	if !s.ReadyToCheck() {
		return "", "", false
	}
	s.checking = true
	s.checkErr = ""
	letters := lo.Map(s.slots, func(id int, _ int) string {
		return s.tiles[id].Letter
	})
	return s.set.Questions[s.index].ID, strings.ToLower(strings.Join(letters, "")), true
}

// ApplyCorrect records a correct verification result. A non-positive score
// falls back to the question set default. Questions already solved keep
// their earlier award; the feedback still plays so the flow looks the same.
func (s *Session) ApplyCorrect(score int) bool {
	if !s.checking {
		return false
	}
	s.checking = false
	if score <= 0 {
		score = s.set.ScorePerQuestion
	}
	if !s.solved[s.index] {
		s.solved[s.index] = true
		s.score += score
		s.correct++
		s.earnedScore = score
	} else {
		s.earnedScore = 0
	}
	s.feedback = FeedbackCorrect
	return true
}

// ApplyWrong records a wrong verification result. Slots stay visible (shown
// red by the UI) until the dwell completes.
func (s *Session) ApplyWrong() bool {
	if !s.checking {
		return false
	}
	s.checking = false
	s.feedback = FeedbackWrong
	return true
}

// ApplyCheckError records a transport failure during verification. The
// session returns to idle with the slots intact and the error surfaced in
// the snapshot; the player may alter the slots or retry explicitly.
func (s *Session) ApplyCheckError(msg string) bool {
	if !s.checking {
		return false
	}
	s.checking = false
	if msg == "" {
		msg = "answer check failed"
	}
	s.checkErr = msg
	return true
}

// CompleteFeedback ends the feedback dwell.
//   - After correct feedback: advance to the next question, or finish the
//     session when the last question was just answered.
//   - After wrong feedback: clear every slot and tile on the same question;
//     the player retries with no attempt limit.
func (s *Session) CompleteFeedback() bool {
	switch s.feedback {
	case FeedbackCorrect:
		if s.index < len(s.set.Questions)-1 {
			s.loadQuestion(s.index + 1)
		} else {
			s.feedback = FeedbackNone
			s.earnedScore = 0
			s.finished = true
		}
		return true
	case FeedbackWrong:
		s.feedback = FeedbackNone
		for i := range s.slots {
			s.slots[i] = emptySlot
		}
		for i := range s.tiles {
			s.tiles[i].Used = false
		}
		return true
	default:
		return false
	}
}

// Tick advances the elapsed-time counter by one second. Purely
// observational; it stops once the session finishes.
func (s *Session) Tick() {
	if !s.finished {
		s.elapsedSec++
	}
}

// PlayAgain resets every counter and returns to the first question. Only
// valid from the finished state.
func (s *Session) PlayAgain() bool {
	if !s.finished {
		return false
	}
	s.finished = false
	s.score = 0
	s.correct = 0
	s.elapsedSec = 0
	s.solved = make([]bool, len(s.set.Questions))
	s.loadQuestion(0)
	return true
}

// Finished reports whether the last question's correct feedback has played.
func (s *Session) Finished() bool { return s.finished }

// Perfect is true when every question in the set was answered correctly.
func (s *Session) Perfect() bool { return s.correct == len(s.set.Questions) }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// CorrectAnswers returns how many distinct questions were answered correctly.
func (s *Session) CorrectAnswers() int { return s.correct }

// ElapsedSec returns the stopwatch value in whole seconds.
func (s *Session) ElapsedSec() int { return s.elapsedSec }

// QuestionIndex returns the index of the active question.
func (s *Session) QuestionIndex() int { return s.index }

// Snapshot renders the observable session state.
func (s *Session) Snapshot() Snapshot {
	q := s.set.Questions[s.index]
	tiles := make([]Tile, len(s.tiles))
	copy(tiles, s.tiles)
	slots := lo.Map(s.slots, func(id int, _ int) string {
		if id == emptySlot {
			return ""
		}
		return s.tiles[id].Letter
	})
	return Snapshot{
		GameID:         s.set.GameID,
		Name:           s.set.Name,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.set.Questions),
		QuestionID:     q.ID,
		ImageURL:       q.ImageURL,
		HintLimit:      q.HintLimit,
		Tiles:          tiles,
		Slots:          slots,
		Score:          s.score,
		CorrectAnswers: s.correct,
		ElapsedSec:     s.elapsedSec,
		Feedback:       s.feedback,
		EarnedScore:    s.earnedScore,
		Checking:       s.checking,
		CheckError:     s.checkErr,
		Finished:       s.finished,
		Perfect:        s.finished && s.correct == len(s.set.Questions),
	}
}
