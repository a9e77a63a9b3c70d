package session

import (
	"time"

	"github.com/hailam/tensorchess/internal/board"
	"github.com/hailam/tensorchess/internal/engine"
)

// View is a JSON-friendly snapshot of a session.
type View struct {
	ID         string            `json:"id"`
	Scenario   string            `json:"scenario"`
	CreatedAt  time.Time         `json:"createdAt"`
	FEN        string            `json:"fen"`
	Turn       string            `json:"turn"`
	Status     string            `json:"status"`
	Checkmated string            `json:"checkmated,omitempty"`
	LastMove   *MoveView         `json:"lastMove,omitempty"`
	Evaluation engine.Evaluation `json:"evaluation"`
	Missing    map[string]int    `json:"missing"`
	AutoReply  bool              `json:"autoReply"`
	Pending    int               `json:"pendingReplies"`
	NextReply  int               `json:"nextReply"`
	UndoDepth  int               `json:"undoDepth"`
	Draggable  []string          `json:"draggable"`
	Log        []Entry           `json:"log"`
}

// MoveView is the display form of a move.
type MoveView struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Piece       string `json:"piece"`
	Captured    string `json:"captured,omitempty"`
	Promotion   string `json:"promotion,omitempty"`
	Castle      string `json:"castle,omitempty"`
	EnPassant   bool   `json:"enPassant,omitempty"`
	Notation    string `json:"notation"`
	Description string `json:"description"`
}

// NewMoveView converts a move for display.
func NewMoveView(m board.Move) MoveView {
	mv := MoveView{
		From:        m.From.String(),
		To:          m.To.String(),
		Piece:       m.Piece.Tag(),
		Captured:    m.Captured.Tag(),
		Castle:      m.Castle.String(),
		EnPassant:   m.EnPassant,
		Notation:    m.String(),
		Description: m.Describe(),
	}
	if m.IsPromotion() {
		mv.Promotion = string(m.Promotion.Letter())
	}
	return mv
}

// Snapshot captures the session for display.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	pos := s.pos
	v := View{
		ID:        s.id,
		Scenario:  s.scenario,
		CreatedAt: s.created,
		AutoReply: s.autoReply,
		UndoDepth: len(s.undo),
		Log:       s.journal.snapshot(),
	}
	if s.pending != nil {
		v.Pending = len(s.pending.cands)
		v.NextReply = s.pending.index
	}
	s.mu.Unlock()

	v.FEN = pos.FEN()
	v.Turn = pos.Turn.String()
	v.Status = board.GameStatus(pos).String()
	if c := board.CheckmatedColor(pos); c != board.NoColor {
		v.Checkmated = c.String()
	}
	if pos.LastMove != nil {
		mv := NewMoveView(*pos.LastMove)
		v.LastMove = &mv
	}
	v.Evaluation = engine.EvaluateBreakdown(pos, pos.Turn)
	v.Missing = missingByTag(board.CountPieces(&pos.Board).Missing())
	for _, sq := range board.Draggable(pos).Squares() {
		v.Draggable = append(v.Draggable, sq.String())
	}
	return v
}

func missingByTag(pc board.PieceCounts) map[string]int {
	out := make(map[string]int)
	for _, c := range []board.Color{board.White, board.Black} {
		for _, pt := range board.PieceTypes {
			if n := pc[c][pt]; n > 0 {
				out[board.NewPiece(pt, c).Tag()] = n
			}
		}
	}
	return out
}
