package httpapi

import (
	"net/http"

	"quizbank/internal/quiz"
	"quizbank/internal/screen"
)

func (a *API) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}

	controller := screen.NewQuestionListController(a.questions, bank.ID)
	controller.Start(r.Context())
	defer controller.Close()

	state, err := waitForState(r.Context(), controller.State(), func(s screen.QuestionListState) bool {
		return !s.IsLoading
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if state.Error != "" {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: state.Error})
		return
	}
	writeJSON(w, http.StatusOK, questionsResponse{BankID: bank.ID, Questions: state.Questions})
}

func (a *API) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}

	var request questionRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	a.saveQuestion(w, r, bank.ID, 0, request, http.StatusCreated)
}

func (a *API) HandleGetQuestion(w http.ResponseWriter, r *http.Request) {
	question, ok := a.requireQuestion(w, r)
	if !ok {
		return
	}

	state := screen.OpenQuestionEditor(r.Context(), a.questions, question.BankID, question.ID).State().Value()
	if state.Error != "" {
		writeEditorError(w, state.Error)
		return
	}
	writeJSON(w, http.StatusOK, state.Question())
}

func (a *API) HandleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	question, ok := a.requireQuestion(w, r)
	if !ok {
		return
	}

	var request questionRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	a.saveQuestion(w, r, question.BankID, question.ID, request, http.StatusOK)
}

func (a *API) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	question, ok := a.requireQuestion(w, r)
	if !ok {
		return
	}

	controller := screen.NewQuestionListController(a.questions, question.BankID)
	if err := controller.DeleteQuestion(r.Context(), question); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveQuestion replays request as editor events and saves the result.
func (a *API) saveQuestion(w http.ResponseWriter, r *http.Request, bankID, questionID int64, request questionRequest, successStatus int) {
	// The editor clamps out-of-range edits, so reject what it would silently drop.
	if len(request.Options) == 0 || len(request.Options) > quiz.MaxOptions ||
		request.CorrectAnswerIndex < 0 || request.CorrectAnswerIndex >= len(request.Options) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: screen.MsgInvalidQuestion})
		return
	}

	ctx := r.Context()
	editor := screen.OpenQuestionEditor(ctx, a.questions, bankID, questionID)
	state := editor.State().Value()
	if state.Error != "" {
		writeEditorError(w, state.Error)
		return
	}

	editor.Dispatch(ctx, screen.QuestionTextChanged{Text: request.QuestionText})
	for len(state.Options) > len(request.Options) {
		state = editor.Dispatch(ctx, screen.RemoveOption{Index: len(state.Options) - 1})
	}
	for len(state.Options) < len(request.Options) {
		state = editor.Dispatch(ctx, screen.AddOption{})
	}
	for i, option := range request.Options {
		editor.Dispatch(ctx, screen.OptionChanged{Index: i, Text: option})
	}
	editor.Dispatch(ctx, screen.CorrectAnswerChanged{Index: request.CorrectAnswerIndex})

	state = editor.Dispatch(ctx, screen.SaveQuestion{})
	if !state.IsSuccess {
		writeEditorError(w, state.Error)
		return
	}
	writeJSON(w, successStatus, state.Question())
}

// requireQuestion loads the question named by the path, which must belong to
// the bank in the same path.
func (a *API) requireQuestion(w http.ResponseWriter, r *http.Request) (quiz.Question, bool) {
	bankID, err := parseIDParam(r, "bankID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return quiz.Question{}, false
	}
	questionID, err := parseIDParam(r, "questionID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return quiz.Question{}, false
	}

	question, err := a.questions.GetQuestion(r.Context(), questionID)
	if err != nil {
		writeError(w, err)
		return quiz.Question{}, false
	}
	if question.BankID != bankID {
		writeError(w, quiz.ErrQuestionNotFound)
		return quiz.Question{}, false
	}
	return question, true
}
