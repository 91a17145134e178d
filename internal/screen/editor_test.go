package screen

import (
	"context"
	"strings"
	"testing"

	"quizbank/internal/quiz"
)

func TestBankEditorCreate(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	e := OpenBankEditor(ctx, repo, 0)

	e.Dispatch(ctx, NameChanged{Name: "Capitals"})
	state := e.Dispatch(ctx, SaveBank{})
	if !state.IsSuccess || state.Error != "" || state.ID == 0 {
		t.Fatalf("unexpected state: %+v", state)
	}
	bank, err := repo.GetBank(ctx, state.ID)
	if err != nil || bank.Name != "Capitals" {
		t.Fatalf("GetBank() = %+v, %v", bank, err)
	}
}

func TestBankEditorUpdateExisting(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := repo.seedBank("Old")

	e := OpenBankEditor(ctx, repo, id)
	if got := e.State().Value(); got.Name != "Old" || got.IsLoading {
		t.Fatalf("unexpected loaded state: %+v", got)
	}
	e.Dispatch(ctx, NameChanged{Name: "New"})
	if state := e.Dispatch(ctx, SaveBank{}); !state.IsSuccess || state.ID != id {
		t.Fatalf("unexpected state: %+v", state)
	}
	if bank, _ := repo.GetBank(ctx, id); bank.Name != "New" {
		t.Fatalf("bank not updated: %+v", bank)
	}
	if len(repo.banks) != 1 {
		t.Fatalf("update inserted a new bank")
	}
}

func TestBankEditorInvalidNameLeavesStorageUntouched(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	e := OpenBankEditor(ctx, repo, 0)

	for _, name := range []string{"", "   ", strings.Repeat("x", quiz.MaxBankNameLength+1)} {
		e.Dispatch(ctx, NameChanged{Name: name})
		state := e.Dispatch(ctx, SaveBank{})
		if state.Error != "Please enter a valid name" || state.IsSuccess {
			t.Fatalf("name %q: unexpected state %+v", name, state)
		}
	}
	if repo.writes != 0 {
		t.Fatalf("storage written %d times", repo.writes)
	}
}

func TestBankEditorStorageError(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	repo.writeErr = errStorage
	e := OpenBankEditor(ctx, repo, 0)

	e.Dispatch(ctx, NameChanged{Name: "Bank"})
	state := e.Dispatch(ctx, SaveBank{})
	if state.IsSuccess || !strings.HasPrefix(state.Error, "Failed to save question bank:") || state.IsLoading {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestBankEditorMissingBankLoadsNothing(t *testing.T) {
	e := OpenBankEditor(context.Background(), newMemRepo(), 42)
	state := e.State().Value()
	if state.Name != "" || state.Error != "" || state.IsLoading {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestQuestionEditorStartsWithOneOption(t *testing.T) {
	e := OpenQuestionEditor(context.Background(), newMemRepo(), 1, 0)
	state := e.State().Value()
	if len(state.Options) != 1 || state.Options[0] != "" || state.BankID != 1 {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestQuestionEditorCreate(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	bankID := repo.seedBank("Bank")
	e := OpenQuestionEditor(ctx, repo, bankID, 0)

	e.Dispatch(ctx, QuestionTextChanged{Text: "2+2?"})
	e.Dispatch(ctx, OptionChanged{Index: 0, Text: "3"})
	e.Dispatch(ctx, AddOption{})
	e.Dispatch(ctx, OptionChanged{Index: 1, Text: "4"})
	e.Dispatch(ctx, CorrectAnswerChanged{Index: 1})
	state := e.Dispatch(ctx, SaveQuestion{})
	if !state.IsSuccess || state.Error != "" || state.ID == 0 {
		t.Fatalf("unexpected state: %+v", state)
	}

	q, err := repo.GetQuestion(ctx, state.ID)
	if err != nil {
		t.Fatalf("GetQuestion() error: %v", err)
	}
	if q.BankID != bankID || q.CorrectAnswerIndex != 1 || len(q.Options) != 2 || q.Options[1] != "4" {
		t.Fatalf("unexpected stored question: %+v", q)
	}
}

func TestQuestionEditorInvalidDoesNotSave(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	e := OpenQuestionEditor(ctx, repo, 1, 0)

	e.Dispatch(ctx, QuestionTextChanged{Text: "Q"})
	state := e.Dispatch(ctx, SaveQuestion{})
	if state.Error != "Please ensure all fields are filled correctly" || state.IsSuccess {
		t.Fatalf("unexpected state: %+v", state)
	}
	if repo.writes != 0 {
		t.Fatalf("storage written %d times", repo.writes)
	}
}

func TestQuestionEditorOptionBounds(t *testing.T) {
	ctx := context.Background()
	e := OpenQuestionEditor(ctx, newMemRepo(), 1, 0)

	state := e.Dispatch(ctx, RemoveOption{Index: 0})
	if len(state.Options) != 1 {
		t.Fatalf("removed the last option")
	}
	for i := 0; i < quiz.MaxOptions+3; i++ {
		state = e.Dispatch(ctx, AddOption{})
	}
	if len(state.Options) != quiz.MaxOptions {
		t.Fatalf("len(Options) = %d, want %d", len(state.Options), quiz.MaxOptions)
	}
	state = e.Dispatch(ctx, CorrectAnswerChanged{Index: quiz.MaxOptions})
	if state.CorrectAnswerIndex != 0 {
		t.Fatalf("out of range correct index accepted")
	}
}

func TestQuestionEditorRemoveOptionTracksCorrectAnswer(t *testing.T) {
	ctx := context.Background()
	e := OpenQuestionEditor(ctx, newMemRepo(), 1, 0)
	for i, text := range []string{"a", "b", "c", "d"} {
		if i > 0 {
			e.Dispatch(ctx, AddOption{})
		}
		e.Dispatch(ctx, OptionChanged{Index: i, Text: text})
	}
	e.Dispatch(ctx, CorrectAnswerChanged{Index: 2})

	state := e.Dispatch(ctx, RemoveOption{Index: 0})
	if state.CorrectAnswerIndex != 1 || state.Options[state.CorrectAnswerIndex] != "c" {
		t.Fatalf("correct answer moved: %+v", state)
	}
	state = e.Dispatch(ctx, RemoveOption{Index: 2})
	if state.CorrectAnswerIndex != 1 || state.Options[1] != "c" {
		t.Fatalf("removing a later option changed the answer: %+v", state)
	}
	state = e.Dispatch(ctx, RemoveOption{Index: 1})
	if state.CorrectAnswerIndex != 0 || len(state.Options) != 1 {
		t.Fatalf("removing the correct option: %+v", state)
	}
}

func TestQuestionEditorLoadsAndUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	bankID := repo.seedBank("Bank", quiz.Question{QuestionText: "Q", Options: []string{"A", "B"}, CorrectAnswerIndex: 1})
	questions, _ := repo.QuestionsForBank(ctx, bankID)
	id := questions[0].ID

	e := OpenQuestionEditor(ctx, repo, bankID, id)
	if state := e.State().Value(); state.QuestionText != "Q" || len(state.Options) != 2 {
		t.Fatalf("unexpected loaded state: %+v", state)
	}
	e.Dispatch(ctx, QuestionTextChanged{Text: "Q edited"})
	if state := e.Dispatch(ctx, SaveQuestion{}); !state.IsSuccess {
		t.Fatalf("save failed: %+v", state)
	}
	if q, _ := repo.GetQuestion(ctx, id); q.QuestionText != "Q edited" {
		t.Fatalf("question not updated: %+v", q)
	}
	if got, _ := repo.QuestionsForBank(ctx, bankID); len(got) != 1 {
		t.Fatalf("update inserted a new question")
	}
}

func TestQuestionEditorEditingClearsSuccess(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	e := OpenQuestionEditor(ctx, repo, repo.seedBank("Bank"), 0)
	e.Dispatch(ctx, QuestionTextChanged{Text: "Q"})
	e.Dispatch(ctx, OptionChanged{Index: 0, Text: "A"})
	if !e.Dispatch(ctx, SaveQuestion{}).IsSuccess {
		t.Fatalf("save failed")
	}
	if e.Dispatch(ctx, QuestionTextChanged{Text: "Q2"}).IsSuccess {
		t.Fatalf("edit kept IsSuccess")
	}
}
