package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/dataset"
	"github.com/hupe1980/lloyd/resource"
)

var (
	// ErrBadRequest is returned for malformed or oversized requests.
	ErrBadRequest = errors.New("bad request")

	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
)

// Error kinds reported in the error payload.
const (
	KindConfiguration = "configuration"
	KindFinished      = "finished"
	KindNotFound      = "not_found"
	KindBusy          = "busy"
	KindBadRequest    = "bad_request"
	KindInternal      = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error onto an HTTP status and error kind.
func classify(err error) (int, string) {
	var fe *fiber.Error

	switch {
	case errors.Is(err, lloyd.ErrConfiguration), errors.Is(err, dataset.ErrInvalidSpec):
		return http.StatusBadRequest, KindConfiguration
	case errors.Is(err, lloyd.ErrSessionFinished):
		return http.StatusConflict, KindFinished
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, lloyd.ErrNotInitialized):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, resource.ErrBusy), errors.Is(err, resource.ErrRateLimited):
		return http.StatusTooManyRequests, KindBusy
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, KindBadRequest
	case errors.As(err, &fe):
		switch {
		case fe.Code == http.StatusNotFound:
			return fe.Code, KindNotFound
		case fe.Code == http.StatusTooManyRequests:
			return fe.Code, KindBusy
		case fe.Code < http.StatusInternalServerError:
			return fe.Code, KindBadRequest
		}
		return fe.Code, KindInternal
	}
	return http.StatusInternalServerError, KindInternal
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, kind := classify(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		msg = http.StatusText(status)
	}

	return c.Status(status).JSON(errorResponse{Error: msg, Kind: kind})
}
