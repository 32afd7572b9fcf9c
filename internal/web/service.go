package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/justinabrahms/chessrules/internal/auth"
	"github.com/justinabrahms/chessrules/internal/chess"
	"github.com/rs/zerolog"
)

const maxPerftDepth = 5

var errNothingToUndo = errors.New("nothing to undo")

type Service struct {
	games  *Registry
	tokens *auth.Issuer
	hub    *Hub
	logger zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(games *Registry, tokens *auth.Issuer, hub *Hub, opts ...ServiceOption) *Service {
	s := &Service{
		games:  games,
		tokens: tokens,
		hub:    hub,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the API router with CORS applied.
func (s *Service) Routes() *mux.Router {
	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/games", s.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.DeleteGameHandler).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/games/{id}/moves", s.LegalMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/games/{id}/undo", s.UndoHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/games/{id}/perft", s.PerftHandler).Methods("GET")
	router.HandleFunc("/ws", s.WebSocketHandler).Methods("GET")

	return router
}

// MoveView is a legal or played move as the API reports it.
type MoveView struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Notation string `json:"notation"`
	Piece    string `json:"piece"`
	Captured string `json:"captured,omitempty"`
}

func newMoveView(m chess.Move) MoveView {
	v := MoveView{
		From:     m.Start.String(),
		To:       m.End.String(),
		Notation: m.Notation(),
		Piece:    m.PieceMoved.String(),
	}
	if m.IsCapture() {
		v.Captured = m.PieceCaptured.String()
	}
	return v
}

type GameView struct {
	ID         string              `json:"id"`
	FEN        string              `json:"fen"`
	SideToMove string              `json:"sideToMove"`
	InCheck    bool                `json:"inCheck"`
	Board      [8][8]string        `json:"board"`
	LegalMoves []MoveView          `json:"legalMoves"`
	History    []string            `json:"history"`
	Material   chess.MaterialCount `json:"material"`
}

func newGameView(id string, g *chess.GameState) GameView {
	v := GameView{
		ID:         id,
		FEN:        g.FEN(),
		SideToMove: g.SideToMove().String(),
		InCheck:    g.InCheck(),
		LegalMoves: []MoveView{},
		History:    []string{},
		Material:   g.Material(),
	}
	b := g.Board()
	for row, pieces := range b.Grid() {
		for col, p := range pieces {
			v.Board[row][col] = p.String()
		}
	}
	for _, m := range g.LegalMoves() {
		v.LegalMoves = append(v.LegalMoves, newMoveView(m))
	}
	for _, m := range g.MoveLog() {
		v.History = append(v.History, m.Notation())
	}
	return v
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrGameNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrInvalidToken):
		http.Error(w, "Invalid or missing token", http.StatusUnauthorized)
	case errors.Is(err, chess.ErrIllegalMove),
		errors.Is(err, chess.ErrInvalidSquare),
		errors.Is(err, chess.ErrInvalidPosition),
		errors.Is(err, errNothingToUndo):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTooManyGames):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// authorize checks the bearer token against the game in the path.
func (s *Service) authorize(r *http.Request, gameID string) error {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return auth.ErrInvalidToken
	}
	return s.tokens.Verify(token, gameID)
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"games":  s.games.Len(),
	})
}

type CreateGameRequest struct {
	FEN string `json:"fen,omitempty"`
}

type CreateGameResponse struct {
	Token string   `json:"token"`
	Game  GameView `json:"game"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	// an empty body starts from the standard position
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := s.games.Create(r.Context(), req.FEN)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.tokens.Issue(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var view GameView
	if err := s.games.View(r.Context(), id, func(g *chess.GameState) error {
		view = newGameView(id, g)
		return nil
	}); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info().Str("gameId", id).Msg("Game created")
	s.writeJSON(w, http.StatusCreated, CreateGameResponse{Token: token, Game: view})
}

func (s *Service) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := s.games.IDs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": ids,
	})
}

func (s *Service) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.authorize(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.games.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.Broadcast(GameUpdate{GameID: id, Type: "delete"})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var view GameView
	err := s.games.View(r.Context(), id, func(g *chess.GameState) error {
		view = newGameView(id, g)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	moves := []MoveView{}
	err := s.games.View(r.Context(), id, func(g *chess.GameState) error {
		for _, m := range g.LegalMoves() {
			moves = append(moves, newMoveView(m))
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"moves": moves,
	})
}

type MakeMoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.authorize(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var result *chess.MoveResult
	err := s.games.Update(r.Context(), id, func(g *chess.GameState) error {
		var err error
		result, err = g.MakeMove(req.From, req.To)
		return err
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("gameId", id).Str("from", req.From).Str("to", req.To).Msg("Move rejected")
		s.writeError(w, r, err)
		return
	}

	s.logger.Info().
		Str("gameId", id).
		Str("move", result.Notation).
		Bool("check", result.Check).
		Int("replies", result.LegalMoves).
		Msg("Move played")
	s.hub.Broadcast(GameUpdate{GameID: id, Type: "move", Data: result})
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) UndoHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.authorize(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var view GameView
	err := s.games.Update(r.Context(), id, func(g *chess.GameState) error {
		if !g.Undo() {
			return errNothingToUndo
		}
		view = newGameView(id, g)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info().Str("gameId", id).Int("ply", len(view.History)).Msg("Move undone")
	s.hub.Broadcast(GameUpdate{GameID: id, Type: "undo", Data: view})
	s.writeJSON(w, http.StatusOK, view)
}

type PerftResponse struct {
	Depth  int               `json:"depth"`
	Nodes  uint64            `json:"nodes"`
	Divide map[string]uint64 `json:"divide,omitempty"`
}

func (s *Service) PerftHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	depth, err := strconv.Atoi(r.URL.Query().Get("depth"))
	if err != nil || depth < 1 || depth > maxPerftDepth {
		http.Error(w, "depth must be between 1 and "+strconv.Itoa(maxPerftDepth), http.StatusBadRequest)
		return
	}

	// count on a copy so the game is not held for the whole search
	var fen string
	if err := s.games.View(r.Context(), id, func(g *chess.GameState) error {
		fen = g.FEN()
		return nil
	}); err != nil {
		s.writeError(w, r, err)
		return
	}
	copied, err := chess.ParseFEN(fen)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := PerftResponse{Depth: depth}
	if r.URL.Query().Get("divide") == "true" {
		resp.Divide = chess.PerftDivide(copied, depth)
		for _, n := range resp.Divide {
			resp.Nodes += n
		}
	} else {
		resp.Nodes = chess.Perft(copied, depth)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// WebSocketHandler upgrades a spectator connection for ?gameId=.
func (s *Service) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "Missing gameId parameter", http.StatusBadRequest)
		return
	}
	if err := s.games.View(r.Context(), gameID, func(*chess.GameState) error { return nil }); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	if !s.hub.join(conn, gameID) {
		conn.Close()
	}
}
