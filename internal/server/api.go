package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hailam/tensorchess/internal/board"
	"github.com/hailam/tensorchess/internal/engine"
	"github.com/hailam/tensorchess/internal/scenario"
	"github.com/hailam/tensorchess/internal/session"
)

type fenRequest struct {
	FEN string `json:"fen" validate:"required"`
}

type squareRequest struct {
	FEN    string `json:"fen" validate:"required"`
	Square string `json:"square" validate:"required,square"`
}

type moveRequest struct {
	FEN       string `json:"fen" validate:"required"`
	From      string `json:"from" validate:"required,square"`
	To        string `json:"to" validate:"required,square"`
	Promotion string `json:"promotion" validate:"omitempty,oneof=q r b n Q R B N"`
}

type colorRequest struct {
	FEN   string `json:"fen" validate:"required"`
	Color string `json:"color" validate:"required,color"`
}

type legalResponse struct {
	Square string             `json:"square"`
	Piece  string             `json:"piece,omitempty"`
	Moves  []session.MoveView `json:"moves"`
	Rays   []board.Ray        `json:"rays,omitempty"`
}

type moveResponse struct {
	Move       session.MoveView `json:"move"`
	FEN        string           `json:"fen"`
	Status     string           `json:"status"`
	Checkmated string           `json:"checkmated,omitempty"`
}

type evaluateResponse struct {
	ColorName string `json:"color"`
	engine.Evaluation
}

type attacksResponse struct {
	Color    string         `json:"color"`
	Counts   [64]int        `json:"counts"`
	Attacked map[string]int `json:"attacked"`
}

type kingResponse struct {
	Color   string `json:"color"`
	Square  string `json:"square,omitempty"`
	Found   bool   `json:"found"`
	InCheck bool   `json:"inCheck"`
}

type statusResponse struct {
	FEN        string `json:"fen"`
	Turn       string `json:"turn"`
	Status     string `json:"status"`
	Checkmated string `json:"checkmated,omitempty"`
	LegalMoves int    `json:"legalMoves"`
}

// parsePromotion maps an optional promotion letter to a piece type.
func parsePromotion(s string) board.PieceType {
	if s == "" {
		return board.NoPieceType
	}
	return board.PieceTypeFromLetter(s[0])
}

func moveViews(moves []board.Move) []session.MoveView {
	out := make([]session.MoveView, 0, len(moves))
	for _, m := range moves {
		out = append(out, session.NewMoveView(m))
	}
	return out
}

func checkmatedName(p *board.Position) string {
	if c := board.CheckmatedColor(p); c != board.NoColor {
		return c.String()
	}
	return ""
}

func (s *Server) legal(c echo.Context) error {
	var req squareRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	sq, _ := board.ParseSquare(req.Square)
	return c.JSON(http.StatusOK, legalResponse{
		Square: sq.String(),
		Piece:  pos.PieceAt(sq).Tag(),
		Moves:  moveViews(board.LegalMoves(pos, sq)),
		Rays:   board.MoveRays(&pos.Board, sq),
	})
}

func (s *Server) move(c echo.Context) error {
	var req moveRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	from, _ := board.ParseSquare(req.From)
	to, _ := board.ParseSquare(req.To)
	m, ok := board.FindMove(pos, from, to, parsePromotion(req.Promotion))
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, session.ErrIllegalMove.Error()+": "+req.From+req.To)
	}
	next := board.MakeMove(pos, m)
	return c.JSON(http.StatusOK, moveResponse{
		Move:       session.NewMoveView(m),
		FEN:        next.FEN(),
		Status:     board.GameStatus(next).String(),
		Checkmated: checkmatedName(next),
	})
}

func (s *Server) evaluate(c echo.Context) error {
	var req colorRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	color, _ := board.ParseColor(req.Color)
	return c.JSON(http.StatusOK, evaluateResponse{
		ColorName:  color.String(),
		Evaluation: engine.EvaluateBreakdown(pos, color),
	})
}

func (s *Server) analyze(c echo.Context) error {
	var req fenRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	res, err := s.analyzer.Analyze(pos)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) attacks(c echo.Context) error {
	var req colorRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	color, _ := board.ParseColor(req.Color)
	counts := board.AttackMap(&pos.Board, color)
	attacked := make(map[string]int)
	for sq, n := range counts {
		if n > 0 {
			attacked[board.Square(sq).String()] = n
		}
	}
	return c.JSON(http.StatusOK, attacksResponse{
		Color:    color.String(),
		Counts:   counts,
		Attacked: attacked,
	})
}

func (s *Server) king(c echo.Context) error {
	var req colorRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	color, _ := board.ParseColor(req.Color)
	res := kingResponse{Color: color.String()}
	if sq := board.KingSquare(&pos.Board, color); sq != board.NoSquare {
		res.Square = sq.String()
		res.Found = true
		res.InCheck = board.IsKingInCheck(&pos.Board, color)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) status(c echo.Context) error {
	var req fenRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, statusResponse{
		FEN:        pos.FEN(),
		Turn:       pos.Turn.String(),
		Status:     board.GameStatus(pos).String(),
		Checkmated: checkmatedName(pos),
		LegalMoves: len(board.AllLegalMoves(pos)),
	})
}

func (s *Server) scenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, scenario.All())
}
