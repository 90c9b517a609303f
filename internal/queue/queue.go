// internal/queue/queue.go
//
// SQLite-backed journal for result submissions that failed upstream.
// A finished session's result is reported to the Result Reporting Service
// immediately; on transport failure the submission is queued here and
// retried by the Worker until it lands or the attempt cap is hit. This is a
// retry buffer, not a ledger; authoritative totals stay upstream.

package queue

import (
	"context"
	"database/sql"
	"time"

	"github.com/joselinputri/anagram-arcade/internal/report"
)

// Item is one queued result submission.
type Item struct {
	ID        int64
	GameID    string
	Token     string // bearer captured at submission time, replayed on retry
	Result    report.GameResult
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// Store persists queued submissions.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Enqueue journals a submission that could not be delivered.
func (s *Store) Enqueue(ctx context.Context, gameID, token string, r report.GameResult, cause string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO result_queue
            (game_id, token, score, correct_answers, total_questions,
             time_spent, coins_earned, difficulty, last_error)
        VALUES (?,?,?,?,?,?,?,?,?)`,
		gameID, token, r.Score, r.CorrectAnswers, r.TotalQuestions,
		r.TimeSpent, r.CoinsEarned, r.Difficulty, cause,
	)
	return err
}

// Due returns up to limit pending submissions, oldest first.
func (s *Store) Due(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, game_id, token, score, correct_answers, total_questions,
               time_spent, coins_earned, difficulty, attempts, last_error, created_at
        FROM result_queue
        WHERE status='pending'
        ORDER BY created_at ASC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		var created string
		if err := rows.Scan(&it.ID, &it.GameID, &it.Token,
			&it.Result.Score, &it.Result.CorrectAnswers, &it.Result.TotalQuestions,
			&it.Result.TimeSpent, &it.Result.CoinsEarned, &it.Result.Difficulty,
			&it.Attempts, &it.LastError, &created); err != nil {
			return nil, err
		}
		it.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		out = append(out, it)
	}
	return out, rows.Err()
}

// MarkDone records a successful delivery.
func (s *Store) MarkDone(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE result_queue SET status='done', submitted_at=datetime('now') WHERE id=?`, id)
	return err
}

// MarkFailed bumps the attempt counter after another delivery failure.
func (s *Store) MarkFailed(ctx context.Context, id int64, cause string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE result_queue SET attempts=attempts+1, last_error=? WHERE id=?`, cause, id)
	return err
}

// Abandon parks a submission that hit the attempt cap. Kept for inspection
// rather than deleted.
func (s *Store) Abandon(ctx context.Context, id int64, cause string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE result_queue SET status='dead', attempts=attempts+1, last_error=? WHERE id=?`, cause, id)
	return err
}

// PendingCount reports the queue depth, for diagnostics.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM result_queue WHERE status='pending'`).Scan(&n)
	return n, err
}
