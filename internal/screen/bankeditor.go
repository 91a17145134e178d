package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quizbank/internal/quiz"
)

type BankEditorState struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
	IsSuccess bool   `json:"is_success"`
}

func (s BankEditorState) Bank() quiz.QuestionBank {
	return quiz.QuestionBank{ID: s.ID, Name: s.Name}
}

// BankEditorEvent is one of NameChanged or SaveBank.
type BankEditorEvent interface {
	bankEditorEvent()
}

type NameChanged struct {
	Name string
}

type SaveBank struct{}

func (NameChanged) bankEditorEvent() {}
func (SaveBank) bankEditorEvent()    {}

type BankEditor struct {
	repo  quiz.BankRepository
	state *State[BankEditorState]
	mu    sync.Mutex
}

// OpenBankEditor creates an editor for bank id. A zero id edits a new bank;
// otherwise the bank is loaded first.
func OpenBankEditor(ctx context.Context, repo quiz.BankRepository, id int64) *BankEditor {
	e := &BankEditor{
		repo:  repo,
		state: NewState(BankEditorState{ID: id}),
	}
	if id != 0 {
		e.load(ctx, id)
	}
	return e
}

func (e *BankEditor) State() *State[BankEditorState] {
	return e.state
}

func (e *BankEditor) load(ctx context.Context, id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Update(func(s BankEditorState) BankEditorState {
		s.IsLoading = true
		return s
	})

	bank, err := e.repo.GetBank(ctx, id)
	e.state.Update(func(s BankEditorState) BankEditorState {
		s.IsLoading = false
		switch {
		case errors.Is(err, quiz.ErrBankNotFound):
		case err != nil:
			s.Error = fmt.Sprintf("Failed to load question bank: %v", err)
		default:
			s.ID = bank.ID
			s.Name = bank.Name
		}
		return s
	})
}

func (e *BankEditor) Dispatch(ctx context.Context, event BankEditorEvent) BankEditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev := event.(type) {
	case NameChanged:
		return e.state.Update(func(s BankEditorState) BankEditorState {
			s.Name = ev.Name
			s.IsSuccess = false
			return s
		})
	case SaveBank:
		return e.save(ctx)
	}
	return e.state.Value()
}

func (e *BankEditor) save(ctx context.Context) BankEditorState {
	current := e.state.Value()
	bank := current.Bank()
	if !bank.IsValid() {
		return e.state.Update(func(s BankEditorState) BankEditorState {
			s.Error = MsgInvalidBankName
			s.IsSuccess = false
			return s
		})
	}

	e.state.Update(func(s BankEditorState) BankEditorState {
		s.IsLoading = true
		return s
	})

	var err error
	if bank.ID == 0 {
		bank.ID, err = e.repo.InsertBank(ctx, bank)
	} else {
		err = e.repo.UpdateBank(ctx, bank)
	}

	return e.state.Update(func(s BankEditorState) BankEditorState {
		s.IsLoading = false
		if err != nil {
			s.Error = fmt.Sprintf("Failed to save question bank: %v", err)
			s.IsSuccess = false
			return s
		}
		s.ID = bank.ID
		s.Error = ""
		s.IsSuccess = true
		return s
	})
}
