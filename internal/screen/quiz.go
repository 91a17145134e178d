package screen

import (
	"context"
	"fmt"
	"sync"

	"quizbank/internal/quiz"
)

type QuizPhase string

const (
	PhaseLoading    QuizPhase = "loading"
	PhaseInProgress QuizPhase = "in_progress"
	PhaseFinished   QuizPhase = "finished"
	PhaseEmpty      QuizPhase = "empty"
)

const emptyBankMessage = "No questions available in this bank. Please add some questions first."

type QuizState struct {
	BankID         int64           `json:"bank_id"`
	Phase          QuizPhase       `json:"phase"`
	Questions      []quiz.Question `json:"questions"`
	CurrentIndex   int             `json:"current_index"`
	SelectedAnswer *int            `json:"selected_answer"`
	Score          int             `json:"score"`
	IsLoading      bool            `json:"is_loading"`
	Error          string          `json:"error,omitempty"`
}

// CurrentQuestion returns the question being answered, if any.
func (s QuizState) CurrentQuestion() (quiz.Question, bool) {
	if s.Phase != PhaseInProgress || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return quiz.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

func (s QuizState) Total() int {
	return len(s.Questions)
}

// Progress is the fraction of questions already answered or skipped.
func (s QuizState) Progress() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	if s.Phase == PhaseFinished {
		return 1
	}
	return float64(s.CurrentIndex) / float64(len(s.Questions))
}

type QuizEvent interface {
	quizEvent()
}

type (
	StartQuiz      struct{}
	RestartQuiz    struct{}
	AnswerSelected struct {
		Index int
	}
	NextQuestion struct{}
	SkipQuestion struct{}
)

func (StartQuiz) quizEvent()      {}
func (RestartQuiz) quizEvent()    {}
func (AnswerSelected) quizEvent() {}
func (NextQuestion) quizEvent()   {}
func (SkipQuestion) quizEvent()   {}

type QuizController struct {
	repo  quiz.QuestionRepository
	state *State[QuizState]
	mu    sync.Mutex
}

func NewQuizController(repo quiz.QuestionRepository, bankID int64) *QuizController {
	return &QuizController{
		repo: repo,
		state: NewState(QuizState{
			BankID:    bankID,
			Phase:     PhaseLoading,
			Questions: []quiz.Question{},
		}),
	}
}

func (c *QuizController) State() *State[QuizState] {
	return c.state
}

func (c *QuizController) Dispatch(ctx context.Context, event QuizEvent) QuizState {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := event.(type) {
	case StartQuiz, RestartQuiz:
		return c.start(ctx)
	case AnswerSelected:
		return c.state.Update(func(s QuizState) QuizState {
			if s.Phase != PhaseInProgress {
				return s
			}
			index := ev.Index
			s.SelectedAnswer = &index
			return s
		})
	case NextQuestion:
		return c.state.Update(func(s QuizState) QuizState {
			return advance(s, true)
		})
	case SkipQuestion:
		return c.state.Update(func(s QuizState) QuizState {
			return advance(s, false)
		})
	}
	return c.state.Value()
}

func (c *QuizController) start(ctx context.Context) QuizState {
	bankID := c.state.Value().BankID
	c.state.Set(QuizState{
		BankID:    bankID,
		Phase:     PhaseLoading,
		Questions: []quiz.Question{},
		IsLoading: true,
	})

	questions, err := c.repo.RandomQuestionsForBank(ctx, bankID)
	return c.state.Update(func(s QuizState) QuizState {
		s.IsLoading = false
		switch {
		case err != nil:
			s.Error = fmt.Sprintf("Failed to load questions: %v", err)
		case len(questions) == 0:
			s.Phase = PhaseEmpty
			s.Error = emptyBankMessage
		default:
			s.Phase = PhaseInProgress
			s.Questions = questions
		}
		return s
	})
}

// advance moves past the current question. The tentative selection counts
// only when score is set and it matches the stored answer.
func advance(s QuizState, score bool) QuizState {
	current, ok := s.CurrentQuestion()
	if !ok {
		return s
	}
	if score && s.SelectedAnswer != nil && current.IsCorrect(*s.SelectedAnswer) {
		s.Score++
	}
	s.SelectedAnswer = nil
	if s.CurrentIndex+1 >= len(s.Questions) {
		s.Phase = PhaseFinished
		s.CurrentIndex = len(s.Questions)
		return s
	}
	s.CurrentIndex++
	return s
}
