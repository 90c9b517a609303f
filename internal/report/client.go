// internal/report/client.go
//
// Client for the Result Reporting Service: session outcomes, coin balances,
// leaderboards, and the pendant shop. The browser client had several
// drifted copies of these wrappers; this is the single settled shape, with
// every path under the game-type prefix.

package report

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/joselinputri/anagram-arcade/internal/api"
)

const basePath = "/api/game/game-type/watch-and-memorize"

// GameResult is one finished session reported upstream.
type GameResult struct {
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeSpent      int    `json:"timeSpent"`
	CoinsEarned    int    `json:"coinsEarned"`
	Difficulty     string `json:"difficulty,omitempty"`
}

// ResultReceipt acknowledges a submitted result.
type ResultReceipt struct {
	Success     bool   `json:"success"`
	Score       int    `json:"score"`
	CoinsEarned int    `json:"coinsEarned"`
	Rank        int    `json:"rank"`
	Message     string `json:"message"`
}

// Coins is a player's coin balance.
type Coins struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Coins    int    `json:"coins"`
}

// LeaderboardEntry is one ranked result row.
type LeaderboardEntry struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Score          int    `json:"score"`
	Difficulty     string `json:"difficulty,omitempty"`
	TimeTaken      int    `json:"time_taken,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// Leaderboard is the ranked listing for one game.
type Leaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Total       int                `json:"total"`
}

// Pendant is one shop item, with the owned count when listed for a player.
type Pendant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Color       string `json:"color"`
	Owned       int    `json:"owned,omitempty"`
}

// OwnedPendants lists a player's pendants.
type OwnedPendants struct {
	UserID   string    `json:"userId"`
	Pendants []Pendant `json:"pendants"`
}

// PurchaseReceipt acknowledges a pendant purchase.
type PurchaseReceipt struct {
	Success     bool   `json:"success"`
	PendantID   string `json:"pendantId"`
	PendantName string `json:"pendantName"`
	CoinsSpent  int    `json:"coinsSpent"`
	NewQuantity int    `json:"newQuantity"`
	Message     string `json:"message"`
}

// Progress is the legacy per-player progress record.
type Progress struct {
	PlayerName  string         `json:"playerName"`
	Coins       int            `json:"coins"`
	HighScore   int            `json:"highScore"`
	GamesPlayed int            `json:"gamesPlayed"`
	Pendants    map[string]int `json:"pendants"`
}

// Reporter is the slice of this API the queue worker needs.
type Reporter interface {
	SubmitResult(ctx context.Context, gameID string, r GameResult) (ResultReceipt, error)
}

// Client talks to the result reporting service over HTTP.
type Client struct {
	api *api.Client
}

// NewClient constructs a report client from an explicit API configuration.
func NewClient(cfg api.Config) *Client {
	return &Client{api: api.New(cfg)}
}

// SubmitResult records a finished session and its earned coins.
func (c *Client) SubmitResult(ctx context.Context, gameID string, r GameResult) (ResultReceipt, error) {
	var out ResultReceipt
	path := fmt.Sprintf("%s/%s/submit", basePath, url.PathEscape(gameID))
	err := c.api.Post(ctx, path, r, &out)
	return out, err
}

// GetCoins fetches the authenticated player's coin balance.
func (c *Client) GetCoins(ctx context.Context) (Coins, error) {
	var out Coins
	err := c.api.Get(ctx, basePath+"/coins", &out)
	return out, err
}

// GetLeaderboard fetches the top results for a game. limit <= 0 defaults
// to 10 upstream-side; it is still sent explicitly for clarity.
func (c *Client) GetLeaderboard(ctx context.Context, gameID string, limit int) (Leaderboard, error) {
	if limit <= 0 {
		limit = 10
	}
	var out Leaderboard
	path := fmt.Sprintf("%s/%s/leaderboard?limit=%s", basePath, url.PathEscape(gameID), strconv.Itoa(limit))
	err := c.api.Get(ctx, path, &out)
	return out, err
}

// GetPendantShop lists purchasable pendants.
func (c *Client) GetPendantShop(ctx context.Context) ([]Pendant, error) {
	var out []Pendant
	err := c.api.Get(ctx, basePath+"/pendant/shop", &out)
	return out, err
}

// GetOwnedPendants lists the authenticated player's pendants.
func (c *Client) GetOwnedPendants(ctx context.Context) (OwnedPendants, error) {
	var out OwnedPendants
	err := c.api.Get(ctx, basePath+"/pendant/owned", &out)
	return out, err
}

// purchaseReq is the pendant purchase body.
type purchaseReq struct {
	PendantID string `json:"pendantId"`
}

// PurchasePendant spends coins on a pendant.
func (c *Client) PurchasePendant(ctx context.Context, pendantID string) (PurchaseReceipt, error) {
	var out PurchaseReceipt
	err := c.api.Post(ctx, basePath+"/pendant/purchase", purchaseReq{PendantID: pendantID}, &out)
	return out, err
}

// GetProgress fetches the legacy progress record. A 404 upstream means "no
// data yet" and returns (nil, nil) rather than an error.
func (c *Client) GetProgress(ctx context.Context) (*Progress, error) {
	var out Progress
	if err := c.api.Get(ctx, basePath+"/progress", &out); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
