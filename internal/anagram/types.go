// internal/anagram/types.go
//
// Core type definitions for the anagram play engine.
// Defines:
//   - Question/QuestionSet: the scrambled-word data served by the content service.
//   - Tile: one selectable scrambled letter with a stable per-question identity.
//   - Feedback: tri-state flag shown after an answer check.
//   - Snapshot: JSON view of a session handed to the browser.

package anagram

// Question is one scrambled word as delivered by the content service.
// The correct word is withheld upstream and is never present client-side.
type Question struct {
	ID        string   // Question identifier used when submitting answers.
	ImageURL  string   // Picture hint shown to the player.
	Letters   []string // Scrambled letters, one per target-word position.
	HintLimit int      // How many letter hints the player may buy.
}

// QuestionSet is a playable anagram game: an ordered list of questions plus
// the default per-question score awarded when the verification response
// omits one.
type QuestionSet struct {
	GameID           string
	Name             string
	ScorePerQuestion int
	Questions        []Question
}

// Tile is one scrambled-letter unit available for placement. Tiles get a
// stable ID when a question is loaded; answer slots reference tiles by that
// ID, so removing a letter never has to guess which duplicate supplied it.
type Tile struct {
	ID     int    `json:"id"`
	Letter string `json:"letter"`
	Used   bool   `json:"used"`
}

// Feedback is the tri-state flag gating all input while the result of a
// submitted answer is on screen.
type Feedback string

const (
	FeedbackNone    Feedback = "none"
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// emptySlot marks an unfilled answer slot.
const emptySlot = -1

// Snapshot is the full observable state of a session, serialized for the
// play surface after every event.
type Snapshot struct {
	GameID         string   `json:"gameId"`
	Name           string   `json:"name"`
	QuestionIndex  int      `json:"questionIndex"`
	TotalQuestions int      `json:"totalQuestions"`
	QuestionID     string   `json:"questionId"`
	ImageURL       string   `json:"imageUrl"`
	HintLimit      int      `json:"hintLimit"`
	Tiles          []Tile   `json:"tiles"`
	Slots          []string `json:"slots"` // letter per slot, "" when empty
	Score          int      `json:"score"`
	CorrectAnswers int      `json:"correctAnswers"`
	ElapsedSec     int      `json:"elapsedSec"`
	Feedback       Feedback `json:"feedback"`
	EarnedScore    int      `json:"earnedScore,omitempty"` // shown during correct feedback
	Checking       bool     `json:"checking"`
	CheckError     string   `json:"checkError,omitempty"`
	Finished       bool     `json:"finished"`
	Perfect        bool     `json:"perfect"`
}
