package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"quizbank/internal/quiz"
	"quizbank/internal/screen"
)

const snapshotTimeout = 5 * time.Second

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrBankNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question bank not found"})
	case errors.Is(err, quiz.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
	case errors.Is(err, quiz.ErrFetchQuestions):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch questions"})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// writeEditorError maps an editor state error to a response. Validation
// messages are client errors, anything else came from storage.
func writeEditorError(w http.ResponseWriter, message string) {
	switch message {
	case screen.MsgInvalidBankName, screen.MsgInvalidQuestion:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: message})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: message})
	}
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	value := strings.TrimSpace(chi.URLParam(r, key))
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// waitForState returns the first value of state accepted by ready.
func waitForState[T any](ctx context.Context, state *screen.State[T], ready func(T) bool) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	return state.Await(ctx, ready)
}
