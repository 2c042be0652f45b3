package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher/agent"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AgentFactory returns a fresh agent per search; agents are not shared between requests.
type AgentFactory func() agent.Agent

// Server exposes in-memory games and the search over HTTP.
type Server struct {
	mu       sync.RWMutex
	games    map[uuid.UUID]*session
	newAgent AgentFactory
	seed     uint64 // 0 seeds every game from the clock
}

func New(newAgent AgentFactory, seed uint64) *Server {
	return &Server{
		games:    make(map[uuid.UUID]*session),
		newAgent: newAgent,
		seed:     seed,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/games", s.handleNewGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Get("/cells/{x}/{y}/moves", s.handleLegalMoves)
		r.Get("/cells/{x}/{y}/jumps", s.handleNextJumps)
		r.Post("/moves", s.handlePlayMove)
		r.Post("/ai", s.handleSearchMove)
		r.Post("/reset", s.handleReset)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("Server is running on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) session(r *http.Request) (*session, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGameNotFound, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return sess, nil
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	id := uuid.New()
	seed := s.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sess, err := newSession(id, seed)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.games[id] = sess
	s.mu.Unlock()

	log.Info().Msgf("Created game %s", id)
	writeResponse(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeResponse(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	from, err := cellOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	destinations, err := sess.board.LegalMoves(from.X, from.Y)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	if destinations == nil {
		destinations = []game.Coord{}
	}
	writeResponse(w, http.StatusOK, MovesView{From: from, Destinations: destinations})
}

// handleNextJumps lists the hops that can continue a jump chain standing at
// the cell. Cells already on the chain are passed as repeated visited=x,y.
func (s *Server) handleNextJumps(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	at, err := cellOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	visited := make([]game.Coord, 0, len(r.URL.Query()["visited"]))
	for _, raw := range r.URL.Query()["visited"] {
		c, err := parseCoord(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		visited = append(visited, c)
	}

	sess.mu.Lock()
	landings, err := sess.board.NextJumps(at, visited)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	if landings == nil {
		landings = []game.Coord{}
	}
	writeResponse(w, http.StatusOK, JumpsView{At: at, Visited: visited, Continuations: landings})
}

func cellOf(r *http.Request) (game.Coord, error) {
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	y, errY := strconv.Atoi(chi.URLParam(r, "y"))
	if errX != nil || errY != nil {
		return game.Coord{}, fmt.Errorf("%w: coordinates must be integers", errBadRequest)
	}
	return game.Coord{X: x, Y: y}, nil
}

// parseCoord reads "x,y".
func parseCoord(raw string) (game.Coord, error) {
	xs, ys, ok := strings.Cut(raw, ",")
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if !ok || errX != nil || errY != nil {
		return game.Coord{}, fmt.Errorf("%w: malformed cell %q", errBadRequest, raw)
	}
	return game.Coord{X: x, Y: y}, nil
}

func (s *Server) handlePlayMove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var move game.Move
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(&move); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	path, err := sess.play(move)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, PlayView{Move: move, Path: path, Game: viewOf(sess)})
}

// handleSearchMove searches for the player to move on a snapshot, then
// re-validates the result against the board before playing it.
func (s *Server) handleSearchMove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	if sess.board.IsWon() != game.None {
		sess.mu.Unlock()
		writeError(w, ErrGameOver)
		return
	}
	player := sess.turn
	pending := agent.Go(s.newAgent(), sess.board, player)
	sess.mu.Unlock()

	select {
	case <-pending.Done():
	case <-r.Context().Done():
		log.Warn().Msgf("Search for game %s abandoned: %v", sess.id, r.Context().Err())
		return
	}
	candidate, found, metric := pending.Wait()
	log.Debug().Msgf("Search for game %s ran %d episodes in %v", sess.id, metric.Episodes, metric.Duration)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.turn != player || sess.board.IsWon() != game.None {
		writeError(w, ErrStaleSearch)
		return
	}
	move, ok, fallback := agent.Resolve(sess.board, player, candidate, found, sess.rng)
	if !ok {
		sess.pass()
		writeResponse(w, http.StatusOK, PlayView{Passed: true, Game: viewOf(sess)})
		return
	}
	path, err := sess.play(move)
	if err != nil {
		writeError(w, errors.Join(errors.New("resolved move was rejected"), err))
		return
	}
	writeResponse(w, http.StatusOK, PlayView{Move: move, Path: path, Fallback: fallback, Game: viewOf(sess)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.reset()
	writeResponse(w, http.StatusOK, viewOf(sess))
}
