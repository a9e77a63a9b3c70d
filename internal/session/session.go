// Package session holds live explorer games: the current position, the undo
// stack, pending automatic replies and the analysis log.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/hailam/tensorchess/internal/board"
	"github.com/hailam/tensorchess/internal/engine"
	"github.com/hailam/tensorchess/internal/scenario"
	"github.com/hailam/tensorchess/internal/storage"
)

// Store is the persistence a session reports to. A nil Store disables it.
type Store interface {
	SaveLastGame(scenario, fen string) error
	UpdateStats(fn func(*storage.Stats)) error
}

// pendingReply is the ranked list of replies prepared for one base position.
// Repeated auto moves cycle through it, each replacing the previous reply.
type pendingReply struct {
	base  *board.Position
	cands []engine.Candidate
	index int
}

// Session is one live game. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        string
	scenario  string
	created   time.Time
	pos       *board.Position
	undo      []*board.Position
	pending   *pendingReply
	autoReply bool
	journal   journal

	store  Store
	cache  *engine.RankCache
	logger log.Interface
}

// New creates a session on the given scenario. An empty id selects the
// default scenario.
func New(scenarioID string, store Store) (*Session, error) {
	if scenarioID == "" {
		scenarioID = scenario.DefaultID
	}
	sc, ok := scenario.Find(scenarioID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenarioID)
	}

	id := uuid.New().String()
	s := &Session{
		id:       id,
		scenario: sc.ID,
		created:  time.Now(),
		pos:      sc.Position(),
		store:    store,
		logger:   log.WithField("session", id),
	}
	s.logger.WithField("scenario", sc.ID).Info("session created")
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Position returns the current position. Positions are immutable.
func (s *Session) Position() *board.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Scenario returns the id of the scenario the session was loaded from.
func (s *Session) Scenario() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario
}

// SetAutoReply turns automatic replies after each move on or off.
func (s *Session) SetAutoReply(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoReply = on
}

// AutoReply reports whether automatic replies are on.
func (s *Session) AutoReply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoReply
}

// UseCache makes the session rank replies through c, which may be shared
// between sessions.
func (s *Session) UseCache(c *engine.RankCache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = c
}

// Legal returns the legal moves from sq in the current position.
func (s *Session) Legal(sq board.Square) []board.Move {
	return board.LegalMoves(s.Position(), sq)
}

// Move plays from->to for the side to move. promo selects the promotion
// piece; NoPieceType keeps the default queen. If automatic replies are on,
// the opponent's top-ranked reply is played straight after.
func (s *Session) Move(from, to board.Square, promo board.PieceType) (board.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.resolve(from, to, promo)
	if err != nil {
		return board.Move{}, err
	}

	s.undo = append(s.undo, s.pos)
	s.pos = board.MakeMove(s.pos, m)
	s.journal.add(m.Piece.Color().Name(), m.Describe())
	s.logger.WithFields(log.Fields{"move": m.String(), "fen": s.pos.FEN()}).Info("move played")
	s.afterMove(false)

	s.pending = s.prepare()
	if s.autoReply && s.pending != nil {
		if _, err := s.playPending(); err != nil {
			s.logger.WithError(err).Warn("auto reply failed")
		}
	}
	return m, nil
}

// resolve finds the legal move from->to, classifying failures.
func (s *Session) resolve(from, to board.Square, promo board.PieceType) (board.Move, error) {
	piece := s.pos.PieceAt(from)
	switch {
	case piece == board.NoPiece:
		return board.Move{}, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	case piece.Color() != s.pos.Turn:
		return board.Move{}, fmt.Errorf("%w: %s", ErrNotYourPiece, from)
	}
	m, ok := board.FindMove(s.pos, from, to, promo)
	if !ok {
		return board.Move{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}
	return m, nil
}

// Preview returns the position after from->to without committing it.
func (s *Session) Preview(from, to board.Square, promo board.PieceType) (*board.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.resolve(from, to, promo)
	if err != nil {
		return nil, err
	}
	return board.SimulateMove(s.pos, m), nil
}

// prepare ranks the replies of the side to move from the current position.
func (s *Session) prepare() *pendingReply {
	var cands []engine.Candidate
	if s.cache != nil {
		cands = s.cache.Rank(s.pos, s.pos.Turn)
	} else {
		cands = engine.RankMoves(s.pos, s.pos.Turn)
	}
	if len(cands) == 0 {
		return nil
	}
	return &pendingReply{base: s.pos, cands: cands}
}

// AutoMove plays the next prepared reply. The first call after a move plays
// the top-ranked reply; each further call replaces it with the next
// alternative from the same base position, wrapping around.
func (s *Session) AutoMove() (engine.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.pending = s.prepare()
		if s.pending == nil {
			return engine.Candidate{}, ErrNoAutoMove
		}
		s.undo = append(s.undo, s.pos)
	}
	return s.playPending()
}

func (s *Session) playPending() (engine.Candidate, error) {
	p := s.pending
	if p == nil || len(p.cands) == 0 {
		return engine.Candidate{}, ErrNoAutoMove
	}
	c := p.cands[p.index]
	s.pos = board.SimulateMove(p.base, c.Move)
	p.index = (p.index + 1) % len(p.cands)

	s.journal.add(c.Move.Piece.Color().Name(), describeAuto(c))
	s.logger.WithFields(log.Fields{
		"move":  c.Move.String(),
		"score": c.Score,
		"mates": c.Mates,
		"next":  p.index,
		"total": len(p.cands),
	}).Info("auto move played")
	s.afterMove(true)
	return c, nil
}

// PendingReplies returns the prepared replies and the index of the next one.
func (s *Session) PendingReplies() ([]engine.Candidate, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, 0
	}
	out := make([]engine.Candidate, len(s.pending.cands))
	copy(out, s.pending.cands)
	return out, s.pending.index
}

func describeAuto(c engine.Candidate) string {
	if c.Mates {
		return c.Move.Describe() + " (finishes with checkmate)"
	}
	return c.Move.Describe() + " (safer reply)"
}

// afterMove persists the new position and records statistics.
func (s *Session) afterMove(auto bool) {
	status := board.GameStatus(s.pos)
	if status == board.Checkmate || status == board.Stalemate {
		s.journal.add("Board", status.String())
		s.logger.WithField("status", status.String()).Info("game over")
	}
	if s.store == nil {
		return
	}
	if err := s.store.SaveLastGame(s.scenario, s.pos.FEN()); err != nil {
		s.logger.WithError(err).Error("save last game")
	}
	mover := s.pos.Turn.Other()
	err := s.store.UpdateStats(func(st *storage.Stats) {
		if auto {
			st.AutoMoves++
		} else {
			st.MovesPlayed++
		}
		switch {
		case status == board.Checkmate && mover == board.White:
			st.WhiteMates++
		case status == board.Checkmate:
			st.BlackMates++
		case status == board.Stalemate:
			st.Stalemates++
		}
	})
	if err != nil {
		s.logger.WithError(err).Error("update stats")
	}
}

// Undo restores the position before the last player move, discarding any
// automatic reply played after it.
func (s *Session) Undo() (*board.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	s.pos = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.pending = nil
	s.journal.add("Board", "undo")
	s.logger.WithField("fen", s.pos.FEN()).Info("undo")

	if s.store != nil {
		if err := s.store.UpdateStats(func(st *storage.Stats) { st.Undos++ }); err != nil {
			s.logger.WithError(err).Error("update stats")
		}
	}
	return s.pos, nil
}

// UndoDepth returns how many moves can be undone.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// Load replaces the game with a catalog scenario, clearing history and log.
func (s *Session) Load(scenarioID string) error {
	sc, ok := scenario.Find(scenarioID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, scenarioID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(sc.ID, sc.Position())
	s.logger.WithField("scenario", sc.ID).Info("scenario loaded")
	return nil
}

// LoadFEN replaces the game with an arbitrary position.
func (s *Session) LoadFEN(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset("custom", pos)
	s.logger.WithField("fen", pos.FEN()).Info("position loaded")
	return nil
}

func (s *Session) reset(scenarioID string, pos *board.Position) {
	s.scenario = scenarioID
	s.pos = pos
	s.undo = nil
	s.pending = nil
	s.journal.clear()
	if s.store != nil {
		if err := s.store.SaveLastGame(s.scenario, s.pos.FEN()); err != nil {
			s.logger.WithError(err).Error("save last game")
		}
	}
}

// Status classifies the current position.
func (s *Session) Status() board.Status {
	return board.GameStatus(s.Position())
}

// Evaluate scores the current position for color.
func (s *Session) Evaluate(color board.Color) engine.Evaluation {
	return engine.EvaluateBreakdown(s.Position(), color)
}

// Heat returns the danger map around perspective's king.
func (s *Session) Heat(perspective board.Color) [64]float64 {
	return engine.Heat(&s.Position().Board, perspective)
}

// Log returns a copy of the analysis log, oldest first.
func (s *Session) Log() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal.snapshot()
}

// Missing returns the captured-piece tally against a full starting set.
func (s *Session) Missing() board.PieceCounts {
	return board.CountPieces(&s.Position().Board).Missing()
}
