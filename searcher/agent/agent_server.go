package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"reversi/game/reversi"
	"reversi/searcher"
	"sync"

	"github.com/rs/zerolog/log"
)

type findMoveRequest struct {
	Board  []string `json:"board"`
	Player string   `json:"player"`
}

type findMoveResponse struct {
	Move     string `json:"move"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Episodes int    `json:"episodes"`
}

type server struct {
	sync.Mutex // agents keep per-game search state
	agent      Agent
}

// NewHandler serves POST /findmove for Reversi positions using agent.
func NewHandler(agent Agent) http.Handler {
	s := &server{agent: agent}

	// Create a local mux rather than using the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("POST /findmove", s.handleFindMove)
	return mux
}

// StartAgentServer starts an agent HTTP server on the given port.
func StartAgentServer(port string, agent Agent) error {
	log.Info().Str("port", port).Msg("starting agent server")
	return http.ListenAndServe(":"+port, NewHandler(agent))
}

func (s *server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	board, err := reversi.ParseBoard(payload.Board)
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	player, err := reversi.ParsePlayer(payload.Player)
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.Lock()
	move, metric, err := s.agent.FindMove(board, player)
	s.Unlock()

	if errors.Is(err, searcher.ErrTerminalQuery) {
		http.Error(w, "no legal moves: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to find move")
		http.Error(w, "failed to find move: "+err.Error(), http.StatusInternalServerError)
		return
	}
	m, ok := move.(reversi.Move)
	if !ok {
		http.Error(w, "unexpected move type", http.StatusInternalServerError)
		return
	}

	log.Debug().Str("move", m.String()).Stringer("player", player).Int("episodes", metric.Episodes).Msg("found move")

	w.Header().Set("Content-Type", "application/json")
	resp := findMoveResponse{Move: m.String(), Row: m.Row, Col: m.Col, Episodes: metric.Episodes}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode move")
	}
}
