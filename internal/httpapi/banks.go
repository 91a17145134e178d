package httpapi

import (
	"net/http"

	"quizbank/internal/quiz"
	"quizbank/internal/screen"
)

func (a *API) HandleListBanks(w http.ResponseWriter, r *http.Request) {
	controller := screen.NewBankListController(a.banks)
	controller.Start(r.Context())
	defer controller.Close()

	state, err := waitForState(r.Context(), controller.State(), func(s screen.BankListState) bool {
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
	writeJSON(w, http.StatusOK, banksResponse{Banks: state.Banks})
}

func (a *API) HandleCreateBank(w http.ResponseWriter, r *http.Request) {
	var request bankRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	a.saveBank(w, r, 0, request, http.StatusCreated)
}

func (a *API) HandleGetBank(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}

	state := screen.OpenBankEditor(r.Context(), a.banks, bank.ID).State().Value()
	if state.Error != "" {
		writeEditorError(w, state.Error)
		return
	}
	writeJSON(w, http.StatusOK, bankResponse{ID: state.ID, Name: state.Name})
}

func (a *API) HandleUpdateBank(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}

	var request bankRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	a.saveBank(w, r, bank.ID, request, http.StatusOK)
}

func (a *API) HandleDeleteBank(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}

	if err := screen.NewBankListController(a.banks).DeleteBank(r.Context(), bank); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) saveBank(w http.ResponseWriter, r *http.Request, id int64, request bankRequest, successStatus int) {
	editor := screen.OpenBankEditor(r.Context(), a.banks, id)
	if state := editor.State().Value(); state.Error != "" {
		writeEditorError(w, state.Error)
		return
	}

	editor.Dispatch(r.Context(), screen.NameChanged{Name: request.Name})
	state := editor.Dispatch(r.Context(), screen.SaveBank{})
	if !state.IsSuccess {
		writeEditorError(w, state.Error)
		return
	}
	writeJSON(w, successStatus, bankResponse{ID: state.ID, Name: state.Name})
}

func (a *API) requireBank(w http.ResponseWriter, r *http.Request) (quiz.QuestionBank, bool) {
	id, err := parseIDParam(r, "bankID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return quiz.QuestionBank{}, false
	}

	bank, err := a.banks.GetBank(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return quiz.QuestionBank{}, false
	}
	return bank, true
}
