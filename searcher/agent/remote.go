package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reversi/experiments/metrics"
	"reversi/game"
	"reversi/game/reversi"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent asks an agent server at url (e.g. "http://localhost:8080")
// for moves on Reversi boards.
func NewRemoteAgent(url string, client *http.Client) Agent {
	if client == nil {
		client = http.DefaultClient
	}
	return &remoteAgent{url: strings.TrimSuffix(url, "/"), client: client}
}

func (a *remoteAgent) FindMove(board game.Board, player game.Player) (game.Move, metrics.SearchMetric, error) {
	b, ok := board.(*reversi.Board)
	if !ok {
		return nil, metrics.SearchMetric{}, fmt.Errorf("%w: %T", reversi.ErrBoardType, board)
	}
	body, err := json.Marshal(findMoveRequest{Board: b.Rows(), Player: string(reversi.Tile(player))})
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("failed to encode request: %w", err)
	}

	start := time.Now()
	resp, err := a.client.Post(a.url+"/findmove", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("failed to reach agent server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return nil, metrics.SearchMetric{}, fmt.Errorf("agent server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var payload findMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("failed to decode move: %w", err)
	}
	move, err := reversi.ParseMove(payload.Move)
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("agent server sent a bad move: %w", err)
	}

	log.Debug().Str("url", a.url).Str("move", move.String()).Msg("received remote move")
	return move, metrics.SearchMetric{Duration: time.Since(start), Episodes: payload.Episodes}, nil
}

// Reset is a no-op: the server starts a new tree whenever the board changes.
func (a *remoteAgent) Reset() {}
