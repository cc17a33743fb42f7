package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/commands"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

var (
	ErrUnauthorized = errors.New("round token required")
	ErrForbidden    = errors.New("token was issued for another round")
)

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, status int, v any) {
	if _, err := SendJSON(w, status, v); err != nil {
		logger.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

// sendErrorOrLog answers with the status matching err. Errors that are not
// the client's fault are logged and hidden behind a generic message.
func sendErrorOrLog(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("unable to handle request")
		err = errors.New(http.StatusText(status))
	}
	sendJSONOrLog(w, logger, status, wrapError(err))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, commands.ErrSyntax):
		return http.StatusBadRequest
	case errors.Is(err, mines.ErrIllegalAction):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
