// internal/content/client.go
//
// Client for the Game Content Service: question sets and answer
// verification for the anagram game. Correct words never appear in any
// payload; verification happens upstream against the question ID.

package content

import (
	"context"
	"fmt"
	"net/url"

	"github.com/joselinputri/anagram-arcade/internal/api"
)

// PlayData is the public play payload for one anagram game.
type PlayData struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ThumbnailImage   string     `json:"thumbnail_image"`
	IsPublished      bool       `json:"is_published"`
	ScorePerQuestion int        `json:"score_per_question"`
	Questions        []Question `json:"questions"`
}

// Question is one scrambled word. The answer is withheld by the service.
type Question struct {
	QuestionID      string   `json:"question_id"`
	ImageURL        string   `json:"image_url"`
	ShuffledLetters []string `json:"shuffled_letters"`
	HintLimit       int      `json:"hint_limit"`
}

// SubmitResult is the verification verdict for one submitted answer.
// Score is optional; zero means "use the question set default".
type SubmitResult struct {
	IsCorrect bool `json:"is_correct"`
	Score     int  `json:"score"`
}

// Service is the part of the content API the play manager needs. The HTTP
// client below implements it; tests substitute fakes.
type Service interface {
	FetchPlay(ctx context.Context, gameID string) (*PlayData, error)
	SubmitAnswer(ctx context.Context, gameID, questionID, answer string) (SubmitResult, error)
}

// Client talks to the content service over HTTP.
type Client struct {
	api *api.Client
}

// NewClient constructs a content client from an explicit API configuration.
func NewClient(cfg api.Config) *Client {
	return &Client{api: api.New(cfg)}
}

// FetchPlay loads the public play payload for gameID.
func (c *Client) FetchPlay(ctx context.Context, gameID string) (*PlayData, error) {
	var out PlayData
	path := fmt.Sprintf("/api/game/anagram/%s/play/public", url.PathEscape(gameID))
	if err := c.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// submitReq is the body of the public submit endpoint.
type submitReq struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// SubmitAnswer verifies answer against questionID upstream.
func (c *Client) SubmitAnswer(ctx context.Context, gameID, questionID, answer string) (SubmitResult, error) {
	var out SubmitResult
	path := fmt.Sprintf("/api/game/anagram/%s/play/public/submit", url.PathEscape(gameID))
	err := c.api.Post(ctx, path, submitReq{QuestionID: questionID, Answer: answer}, &out)
	return out, err
}
