package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/engine"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameOver     = errors.New("game is over")
	ErrNotYourPiece = errors.New("piece does not belong to the player to move")
	ErrStaleSearch  = errors.New("position changed during the search")
)

// session is one game held in memory. All fields are guarded by mu.
type session struct {
	mu      sync.Mutex
	id      uuid.UUID
	board   *game.Board
	turn    game.Player
	rng     *rand.Rand
	history []engine.Update
}

func newSession(id uuid.UUID, seed uint64) (*session, error) {
	board, err := game.NewBoard(game.Players)
	if err != nil {
		return nil, err
	}
	return &session{
		id:    id,
		board: board,
		turn:  game.Player1,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

func (s *session) reset() {
	s.board.Reset()
	s.turn = game.Player1
	s.history = nil
}

// play validates move for the player to move and applies it. It returns the
// cells the piece travels through.
func (s *session) play(move game.Move) ([]game.Coord, error) {
	if s.board.IsWon() != game.None {
		return nil, ErrGameOver
	}
	cell, err := s.board.CellAt(move.From.X, move.From.Y)
	if err != nil {
		return nil, err
	}
	if !cell.IsOccupied() {
		return nil, fmt.Errorf("%w: %v", game.ErrNotOccupied, move.From)
	}
	if cell.Player() != s.turn {
		return nil, fmt.Errorf("%w: %v", ErrNotYourPiece, move.From)
	}
	path, err := s.board.JumpPath(move)
	if err != nil {
		return nil, err
	}
	if err = s.board.ApplyMove(move); err != nil {
		return nil, err
	}
	s.record(engine.Update{Move: move, Player: s.turn})
	s.advance()
	return path, nil
}

// advance hands the turn to the opponent, who passes straight back when they
// have no legal move.
func (s *session) advance() {
	s.turn = s.turn.Opponent()
	if s.board.IsWon() != game.None {
		return
	}
	if len(s.board.AllLegalMoves(s.turn)) == 0 && len(s.board.AllLegalMoves(s.turn.Opponent())) > 0 {
		s.record(engine.Update{Player: s.turn, Passed: true})
		s.turn = s.turn.Opponent()
	}
}

// pass skips the turn of a player without legal moves.
func (s *session) pass() {
	s.record(engine.Update{Player: s.turn, Passed: true})
	s.turn = s.turn.Opponent()
}

func (s *session) record(u engine.Update) {
	u.Hash = s.board.Hash()
	s.history = append(s.history, u)
}
