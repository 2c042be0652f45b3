package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/engine"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Response struct {
	Status int `json:"status"`
	Body   any `json:"body,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type GameView struct {
	ID     uuid.UUID `json:"id"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Rows   []string  `json:"rows"`  // Top row first: ' ' offboard, 'O' empty, player digit
	Cells  []int     `json:"cells"` // Flattened grid, top row first
	Turn   int       `json:"turn"`
	Winner int       `json:"winner"`
	Hash   string    `json:"hash"`
	Moves  int       `json:"moves"`
}

type MovesView struct {
	From         game.Coord   `json:"from"`
	Destinations []game.Coord `json:"destinations"`
}

type JumpsView struct {
	At            game.Coord   `json:"at"`
	Visited       []game.Coord `json:"visited"`
	Continuations []game.Coord `json:"continuations"`
}

type PlayView struct {
	Move     game.Move    `json:"move"`
	Path     []game.Coord `json:"path,omitempty"`
	Passed   bool         `json:"passed"`
	Fallback bool         `json:"fallback"`
	Game     GameView     `json:"game"`
}

func viewOf(s *session) GameView {
	cells := s.board.Export()
	view := GameView{
		ID:     s.id,
		Width:  game.Width,
		Height: game.Height,
		Rows:   strings.Split(strings.TrimSuffix(s.board.String(), "\n"), "\n"),
		Cells:  make([]int, len(cells)),
		Turn:   int(s.turn),
		Winner: int(s.board.IsWon()),
		Hash:   fmt.Sprintf("%016x", s.board.Hash()),
		Moves:  countMoves(s.history),
	}
	for i, c := range cells {
		view.Cells[i] = int(c)
	}
	return view
}

func countMoves(history []engine.Update) int {
	n := 0
	for _, u := range history {
		if !u.Passed {
			n++
		}
	}
	return n
}

func writeResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Status: status, Body: body}); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeResponse(w, status, ErrorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGameOver), errors.Is(err, ErrStaleSearch):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, ErrNotYourPiece),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrOffboard),
		errors.Is(err, game.ErrInvalidCell),
		errors.Is(err, game.ErrNotOccupied),
		errors.Is(err, game.ErrIllegalMove):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
