// internal/memorize/difficulty.go
//
// Difficulty configuration and result validation for the Watch & Memorize
// game. The play screens run in the browser; this side only needs enough of
// the configuration to sanity-check reported results and price the coins.

package memorize

import (
	"fmt"

	"github.com/joselinputri/anagram-arcade/internal/report"
)

// Difficulty selects one of the three fixed game configurations.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Config is the per-difficulty tuning consumed by the dashboard.
type Config struct {
	Name        string `json:"name"`
	Pairs       int    `json:"pairs"`
	TimeLimit   int    `json:"timeLimit"` // guess phase limit, seconds
	Description string `json:"description"`
}

// Configs is the fixed difficulty table.
var Configs = map[Difficulty]Config{
	Easy:   {Name: "Easy", Pairs: 4, TimeLimit: 60, Description: "4 pairs, 60 seconds"},
	Medium: {Name: "Medium", Pairs: 6, TimeLimit: 90, Description: "6 pairs, 90 seconds"},
	Hard:   {Name: "Hard", Pairs: 8, TimeLimit: 120, Description: "8 pairs, 120 seconds"},
}

// coinsPerScore is the exchange rate applied to reported scores.
const coinsPerScore = 10

// CoinsForScore converts a session score into earned coins.
func CoinsForScore(score int) int {
	if score <= 0 {
		return 0
	}
	return score / coinsPerScore
}

// ValidateResult checks a reported result against the difficulty table and
// normalizes the coin amount. The browser computes coins optimistically;
// the value is recomputed here so a tampered payload cannot mint coins.
func ValidateResult(r *report.GameResult) error {
	cfg, ok := Configs[Difficulty(r.Difficulty)]
	if r.Difficulty != "" && !ok {
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	if r.Score < 0 || r.CorrectAnswers < 0 || r.TotalQuestions <= 0 || r.TimeSpent < 0 {
		return fmt.Errorf("negative or empty result fields")
	}
	if r.CorrectAnswers > r.TotalQuestions {
		return fmt.Errorf("correct answers %d exceed total questions %d", r.CorrectAnswers, r.TotalQuestions)
	}
	if ok && r.TimeSpent > cfg.TimeLimit {
		return fmt.Errorf("time spent %ds exceeds the %s limit of %ds", r.TimeSpent, cfg.Name, cfg.TimeLimit)
	}
	r.CoinsEarned = CoinsForScore(r.Score)
	return nil
}
