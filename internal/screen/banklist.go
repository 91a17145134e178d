package screen

import (
	"context"
	"fmt"
	"sync"

	"quizbank/internal/livequery"
	"quizbank/internal/quiz"
)

type BankListState struct {
	Banks     []quiz.QuestionBank `json:"banks"`
	IsLoading bool                `json:"is_loading"`
	Error     string              `json:"error,omitempty"`
}

// BankListController mirrors the live bank list into its state.
type BankListController struct {
	repo  quiz.BankRepository
	state *State[BankListState]

	mu  sync.Mutex
	sub *livequery.Subscription[[]quiz.QuestionBank]
}

func NewBankListController(repo quiz.BankRepository) *BankListController {
	return &BankListController{
		repo:  repo,
		state: NewState(BankListState{Banks: []quiz.QuestionBank{}}),
	}
}

func (c *BankListController) State() *State[BankListState] {
	return c.state
}

// Start opens the live subscription. Calling it again while subscribed is a
// no-op.
func (c *BankListController) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != nil {
		return
	}

	c.state.Update(func(s BankListState) BankListState {
		s.IsLoading = true
		return s
	})
	c.sub = c.repo.WatchBanks(ctx)
	go c.consume(c.sub)
}

func (c *BankListController) consume(sub *livequery.Subscription[[]quiz.QuestionBank]) {
	for res := range sub.C {
		if res.Err != nil {
			c.state.Update(func(s BankListState) BankListState {
				s.IsLoading = false
				s.Error = res.Err.Error()
				return s
			})
			continue
		}
		c.state.Update(func(s BankListState) BankListState {
			s.Banks = res.Value
			s.IsLoading = false
			s.Error = ""
			return s
		})
	}
}

// DeleteBank removes bank and, through the foreign key, its questions. The
// live subscription picks up the new list.
func (c *BankListController) DeleteBank(ctx context.Context, bank quiz.QuestionBank) error {
	if err := c.repo.DeleteBank(ctx, bank); err != nil {
		c.state.Update(func(s BankListState) BankListState {
			s.Error = fmt.Sprintf("Failed to delete question bank: %v", err)
			return s
		})
		return err
	}
	return nil
}

// Close tears down the subscription. Pending results are dropped.
func (c *BankListController) Close() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}
