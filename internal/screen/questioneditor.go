package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quizbank/internal/quiz"
)

type QuestionEditorState struct {
	ID                 int64    `json:"id"`
	BankID             int64    `json:"bank_id"`
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	IsLoading          bool     `json:"is_loading"`
	Error              string   `json:"error,omitempty"`
	IsSuccess          bool     `json:"is_success"`
}

func (s QuestionEditorState) Question() quiz.Question {
	return quiz.Question{
		ID:                 s.ID,
		BankID:             s.BankID,
		QuestionText:       s.QuestionText,
		Options:            append([]string(nil), s.Options...),
		CorrectAnswerIndex: s.CorrectAnswerIndex,
	}
}

type QuestionEditorEvent interface {
	questionEditorEvent()
}

type (
	QuestionTextChanged struct {
		Text string
	}
	OptionChanged struct {
		Index int
		Text  string
	}
	CorrectAnswerChanged struct {
		Index int
	}
	AddOption    struct{}
	RemoveOption struct {
		Index int
	}
	SaveQuestion struct{}
)

func (QuestionTextChanged) questionEditorEvent()  {}
func (OptionChanged) questionEditorEvent()        {}
func (CorrectAnswerChanged) questionEditorEvent() {}
func (AddOption) questionEditorEvent()            {}
func (RemoveOption) questionEditorEvent()         {}
func (SaveQuestion) questionEditorEvent()         {}

type QuestionEditor struct {
	repo  quiz.QuestionRepository
	state *State[QuestionEditorState]
	mu    sync.Mutex
}

// OpenQuestionEditor creates an editor for a question of bankID. A zero
// questionID starts a new question with one empty option.
func OpenQuestionEditor(ctx context.Context, repo quiz.QuestionRepository, bankID, questionID int64) *QuestionEditor {
	e := &QuestionEditor{
		repo: repo,
		state: NewState(QuestionEditorState{
			ID:      questionID,
			BankID:  bankID,
			Options: []string{""},
		}),
	}
	if questionID != 0 {
		e.load(ctx, questionID)
	}
	return e
}

func (e *QuestionEditor) State() *State[QuestionEditorState] {
	return e.state
}

func (e *QuestionEditor) load(ctx context.Context, id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Update(func(s QuestionEditorState) QuestionEditorState {
		s.IsLoading = true
		return s
	})

	question, err := e.repo.GetQuestion(ctx, id)
	e.state.Update(func(s QuestionEditorState) QuestionEditorState {
		s.IsLoading = false
		switch {
		case errors.Is(err, quiz.ErrQuestionNotFound):
		case err != nil:
			s.Error = fmt.Sprintf("Failed to load question: %v", err)
		default:
			s.ID = question.ID
			s.BankID = question.BankID
			s.QuestionText = question.QuestionText
			s.Options = append([]string(nil), question.Options...)
			if len(s.Options) == 0 {
				s.Options = []string{""}
			}
			s.CorrectAnswerIndex = question.CorrectAnswerIndex
		}
		return s
	})
}

func (e *QuestionEditor) Dispatch(ctx context.Context, event QuestionEditorEvent) QuestionEditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := event.(SaveQuestion); ok {
		return e.save(ctx)
	}

	return e.state.Update(func(s QuestionEditorState) QuestionEditorState {
		s.Options = append([]string(nil), s.Options...)
		s.IsSuccess = false

		switch ev := event.(type) {
		case QuestionTextChanged:
			s.QuestionText = ev.Text
		case OptionChanged:
			if ev.Index >= 0 && ev.Index < len(s.Options) {
				s.Options[ev.Index] = ev.Text
			}
		case CorrectAnswerChanged:
			if ev.Index >= 0 && ev.Index < len(s.Options) {
				s.CorrectAnswerIndex = ev.Index
			}
		case AddOption:
			if len(s.Options) < quiz.MaxOptions {
				s.Options = append(s.Options, "")
			}
		case RemoveOption:
			if len(s.Options) <= 1 || ev.Index < 0 || ev.Index >= len(s.Options) {
				break
			}
			s.Options = append(s.Options[:ev.Index], s.Options[ev.Index+1:]...)
			switch {
			case ev.Index == s.CorrectAnswerIndex:
				s.CorrectAnswerIndex = 0
			case ev.Index < s.CorrectAnswerIndex:
				s.CorrectAnswerIndex--
			}
		}
		return s
	})
}

func (e *QuestionEditor) save(ctx context.Context) QuestionEditorState {
	question := e.state.Value().Question()
	if !question.IsValid() {
		return e.state.Update(func(s QuestionEditorState) QuestionEditorState {
			s.Error = MsgInvalidQuestion
			s.IsSuccess = false
			return s
		})
	}

	e.state.Update(func(s QuestionEditorState) QuestionEditorState {
		s.IsLoading = true
		return s
	})

	var err error
	if question.ID == 0 {
		question.ID, err = e.repo.InsertQuestion(ctx, question)
	} else {
		err = e.repo.UpdateQuestion(ctx, question)
	}

	return e.state.Update(func(s QuestionEditorState) QuestionEditorState {
		s.IsLoading = false
		if err != nil {
			s.Error = fmt.Sprintf("Failed to save question: %v", err)
			s.IsSuccess = false
			return s
		}
		s.ID = question.ID
		s.Error = ""
		s.IsSuccess = true
		return s
	})
}
