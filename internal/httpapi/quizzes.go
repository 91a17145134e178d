package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quizbank/internal/screen"
)

var errSessionNotFound = errorResponse{Error: "quiz session not found"}

func (a *API) HandleStartQuiz(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}

	controller := screen.NewQuizController(a.questions, bank.ID)
	state := controller.Dispatch(r.Context(), screen.StartQuiz{})
	if state.Phase == screen.PhaseLoading && state.Error != "" {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: state.Error})
		return
	}

	id := a.sessions.create(controller)
	writeJSON(w, http.StatusCreated, toQuizResponse(id, state))
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := a.requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toQuizResponse(id, controller.State().Value()))
}

func (a *API) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if !a.sessions.delete(chi.URLParam(r, "sessionID")) {
		writeJSON(w, http.StatusNotFound, errSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleQuizEvent(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := a.requireSession(w, r)
	if !ok {
		return
	}

	var request quizEventRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	event, errMsg := parseQuizEvent(request)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMsg})
		return
	}

	state := controller.Dispatch(r.Context(), event)
	writeJSON(w, http.StatusOK, toQuizResponse(id, state))
}

func parseQuizEvent(request quizEventRequest) (screen.QuizEvent, string) {
	switch strings.ToLower(strings.TrimSpace(request.Type)) {
	case "start":
		return screen.StartQuiz{}, ""
	case "restart":
		return screen.RestartQuiz{}, ""
	case "answer", "select":
		if request.Index == nil {
			return nil, "index is required for answer events"
		}
		return screen.AnswerSelected{Index: *request.Index}, ""
	case "next":
		return screen.NextQuestion{}, ""
	case "skip":
		return screen.SkipQuestion{}, ""
	default:
		return nil, "unknown event type " + request.Type
	}
}

func (a *API) requireSession(w http.ResponseWriter, r *http.Request) (string, *screen.QuizController, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusNotFound, errSessionNotFound)
		return "", nil, false
	}

	controller, ok := a.sessions.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errSessionNotFound)
		return "", nil, false
	}
	return id, controller, true
}

func (a *API) HandleImport(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "bankID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	amount, err := parseIntParam(r, "amount", a.importAmount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if a.importer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "question import is not configured"})
		return
	}

	result, err := a.importer.Import(r.Context(), id, amount)
	if err != nil {
		a.logger.Printf("import into bank %d failed: %v", id, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
