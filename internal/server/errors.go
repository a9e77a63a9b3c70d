package server

import (
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"

	"github.com/hailam/tensorchess/internal/board"
	"github.com/hailam/tensorchess/internal/session"
)

// errToHTTP maps domain errors onto HTTP status codes.
func errToHTTP(err error) error {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return he
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrUnknownScenario):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrIllegalMove),
		errors.Is(err, session.ErrEmptySquare),
		errors.Is(err, session.ErrNotYourPiece),
		errors.Is(err, session.ErrNoAutoMove):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrNothingToUndo):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, board.ErrEmptyFEN),
		errors.Is(err, board.ErrInvalidSquare),
		errors.Is(err, board.ErrInvalidColor),
		errors.Is(err, board.ErrInvalidMove):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// errorHandler logs unexpected failures and delegates the response to echo.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		mapped := errToHTTP(err)
		var he *echo.HTTPError
		if !errors.As(mapped, &he) {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		e.DefaultHTTPErrorHandler(mapped, c)
	}
}
