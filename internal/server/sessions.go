package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hailam/tensorchess/internal/board"
	"github.com/hailam/tensorchess/internal/engine"
	"github.com/hailam/tensorchess/internal/session"
	"github.com/hailam/tensorchess/internal/snapshot"
)

type createSessionRequest struct {
	Scenario  string `json:"scenario"`
	FEN       string `json:"fen"`
	AutoReply bool   `json:"autoReply"`
}

type sessionMoveRequest struct {
	From      string `json:"from" validate:"required,square"`
	To        string `json:"to" validate:"required,square"`
	Promotion string `json:"promotion" validate:"omitempty,oneof=q r b n Q R B N"`
}

type loadRequest struct {
	Scenario string `json:"scenario" validate:"required_without=FEN"`
	FEN      string `json:"fen"`
}

type autoReplyRequest struct {
	Enabled bool `json:"enabled"`
}

type previewResponse struct {
	Move       session.MoveView  `json:"move"`
	FEN        string            `json:"fen"`
	Status     string            `json:"status"`
	Evaluation engine.Evaluation `json:"evaluation"`
}

type autoResponse struct {
	Move    session.MoveView `json:"move"`
	Score   float64          `json:"score"`
	Mates   bool             `json:"mates"`
	Session session.View     `json:"session"`
}

type heatResponse struct {
	Perspective string      `json:"perspective"`
	Heat        [64]float64 `json:"heat"`
	Threats     [64]float64 `json:"threats"`
}

// requestSession resolves the :id path parameter to a live session.
func (s *Server) requestSession(c echo.Context) (*session.Session, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return s.sessions.Get(id)
}

func (s *Server) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	sess, err := s.sessions.Create(req.Scenario)
	if err != nil {
		return errToHTTP(err)
	}
	if req.FEN != "" {
		if err := sess.LoadFEN(req.FEN); err != nil {
			_ = s.sessions.Delete(sess.ID())
			return errToHTTP(err)
		}
	}
	sess.SetAutoReply(req.AutoReply)
	return c.JSON(http.StatusCreated, sess.Snapshot())
}

func (s *Server) listSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.sessions.IDs())
}

func (s *Server) getSession(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSession(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	if err := s.sessions.Delete(sess.ID()); err != nil {
		return errToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) bindSessionMove(c echo.Context) (*session.Session, board.Square, board.Square, board.PieceType, error) {
	sess, err := s.requestSession(c)
	if err != nil {
		return nil, board.NoSquare, board.NoSquare, board.NoPieceType, errToHTTP(err)
	}
	var req sessionMoveRequest
	if err := bindValid(c, &req); err != nil {
		return nil, board.NoSquare, board.NoSquare, board.NoPieceType, err
	}
	from, _ := board.ParseSquare(req.From)
	to, _ := board.ParseSquare(req.To)
	return sess, from, to, parsePromotion(req.Promotion), nil
}

func (s *Server) sessionMove(c echo.Context) error {
	sess, from, to, promo, err := s.bindSessionMove(c)
	if err != nil {
		return err
	}
	if _, err := sess.Move(from, to, promo); err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) sessionPreview(c echo.Context) error {
	sess, from, to, promo, err := s.bindSessionMove(c)
	if err != nil {
		return err
	}
	next, err := sess.Preview(from, to, promo)
	if err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, previewResponse{
		Move:       session.NewMoveView(*next.LastMove),
		FEN:        next.FEN(),
		Status:     board.GameStatus(next).String(),
		Evaluation: engine.EvaluateBreakdown(next, next.Turn.Other()),
	})
}

func (s *Server) sessionAuto(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	cand, err := sess.AutoMove()
	if err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, autoResponse{
		Move:    session.NewMoveView(cand.Move),
		Score:   cand.Score,
		Mates:   cand.Mates,
		Session: sess.Snapshot(),
	})
}

func (s *Server) sessionUndo(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	if _, err := sess.Undo(); err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) sessionLoad(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	var req loadRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if req.FEN != "" {
		err = sess.LoadFEN(req.FEN)
	} else {
		err = sess.Load(req.Scenario)
	}
	if err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) sessionAutoReply(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	var req autoReplyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	sess.SetAutoReply(req.Enabled)
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// perspective reads the ?perspective= query parameter, defaulting to the
// side to move.
func perspective(c echo.Context, pos *board.Position) (board.Color, error) {
	v := c.QueryParam("perspective")
	if v == "" {
		return pos.Turn, nil
	}
	color, err := board.ParseColor(v)
	if err != nil {
		return board.NoColor, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return color, nil
}

func (s *Server) sessionHeat(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	pos := sess.Position()
	color, err := perspective(c, pos)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, heatResponse{
		Perspective: color.String(),
		Heat:        engine.Heat(&pos.Board, color),
		Threats:     engine.ThreatLevels(&pos.Board),
	})
}

func (s *Server) sessionLog(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	return c.JSON(http.StatusOK, sess.Log())
}

// sessionSnapshot renders the board as PNG. The saved settings choose the
// orientation and heat overlay; ?flipped= and ?heat= override them.
func (s *Server) sessionSnapshot(c echo.Context) error {
	sess, err := s.requestSession(c)
	if err != nil {
		return errToHTTP(err)
	}
	settings, err := s.loadSettings()
	if err != nil {
		return err
	}
	flipped, showHeat := settings.Flipped, settings.ShowHeat
	if v := c.QueryParam("flipped"); v != "" {
		if flipped, err = strconv.ParseBool(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "flipped: "+err.Error())
		}
	}
	if v := c.QueryParam("heat"); v != "" {
		if showHeat, err = strconv.ParseBool(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "heat: "+err.Error())
		}
	}

	pos := sess.Position()
	opts := snapshot.Options{Flipped: flipped, HeatBaseScale: settings.HeatBaseScale}
	if showHeat {
		color, err := perspective(c, pos)
		if err != nil {
			return err
		}
		heat := engine.Heat(&pos.Board, color)
		opts.Heat = &heat
	}

	var buf bytes.Buffer
	if err := snapshot.WritePNG(&buf, pos, opts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
