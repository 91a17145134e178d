package screen

import (
	"context"
	"fmt"
	"sync"

	"quizbank/internal/livequery"
	"quizbank/internal/quiz"
)

type QuestionListState struct {
	BankID    int64           `json:"bank_id"`
	Questions []quiz.Question `json:"questions"`
	IsLoading bool            `json:"is_loading"`
	Error     string          `json:"error,omitempty"`
}

// QuestionListController mirrors the live question list of one bank.
type QuestionListController struct {
	repo   quiz.QuestionRepository
	bankID int64
	state  *State[QuestionListState]

	mu  sync.Mutex
	sub *livequery.Subscription[[]quiz.Question]
}

func NewQuestionListController(repo quiz.QuestionRepository, bankID int64) *QuestionListController {
	return &QuestionListController{
		repo:   repo,
		bankID: bankID,
		state:  NewState(QuestionListState{BankID: bankID, Questions: []quiz.Question{}}),
	}
}

func (c *QuestionListController) State() *State[QuestionListState] {
	return c.state
}

func (c *QuestionListController) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != nil {
		return
	}

	c.state.Update(func(s QuestionListState) QuestionListState {
		s.IsLoading = true
		return s
	})
	c.sub = c.repo.WatchQuestionsForBank(ctx, c.bankID)
	go c.consume(c.sub)
}

func (c *QuestionListController) consume(sub *livequery.Subscription[[]quiz.Question]) {
	for res := range sub.C {
		if res.Err != nil {
			c.state.Update(func(s QuestionListState) QuestionListState {
				s.IsLoading = false
				s.Error = res.Err.Error()
				return s
			})
			continue
		}
		c.state.Update(func(s QuestionListState) QuestionListState {
			s.Questions = res.Value
			s.IsLoading = false
			s.Error = ""
			return s
		})
	}
}

func (c *QuestionListController) DeleteQuestion(ctx context.Context, question quiz.Question) error {
	if err := c.repo.DeleteQuestion(ctx, question); err != nil {
		c.state.Update(func(s QuestionListState) QuestionListState {
			s.Error = fmt.Sprintf("Failed to delete question: %v", err)
			return s
		})
		return err
	}
	return nil
}

func (c *QuestionListController) Close() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}
