package screen

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"quizbank/internal/livequery"
	"quizbank/internal/quiz"
)

var errStorage = errors.New("disk full")

// memRepo is an in-memory implementation of both repositories.
type memRepo struct {
	mu        sync.Mutex
	broker    *livequery.Broker
	nextID    int64
	banks     map[int64]quiz.QuestionBank
	questions map[int64]quiz.Question

	writeErr  error
	randomErr error
	writes    int
}

func newMemRepo() *memRepo {
	return &memRepo{
		broker:    livequery.NewBroker(),
		banks:     make(map[int64]quiz.QuestionBank),
		questions: make(map[int64]quiz.Question),
	}
}

func (r *memRepo) seedBank(name string, questions ...quiz.Question) int64 {
	id, err := r.InsertBank(context.Background(), quiz.QuestionBank{Name: name})
	if err != nil {
		panic(err)
	}
	for _, q := range questions {
		q.BankID = id
		if _, err := r.InsertQuestion(context.Background(), q); err != nil {
			panic(err)
		}
	}
	return id
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) WatchBanks(ctx context.Context) *livequery.Subscription[[]quiz.QuestionBank] {
	return livequery.Watch(ctx, r.broker, func(context.Context) ([]quiz.QuestionBank, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		banks := make([]quiz.QuestionBank, 0, len(r.banks))
		for _, b := range r.banks {
			banks = append(banks, b)
		}
		sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
		return banks, nil
	}, "banks")
}

func (r *memRepo) GetBank(_ context.Context, id int64) (quiz.QuestionBank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banks[id]
	if !ok {
		return quiz.QuestionBank{}, quiz.ErrBankNotFound
	}
	return b, nil
}

func (r *memRepo) InsertBank(ctx context.Context, bank quiz.QuestionBank) (int64, error) {
	r.mu.Lock()
	if r.writeErr != nil {
		r.mu.Unlock()
		return 0, r.writeErr
	}
	r.writes++
	if bank.ID == 0 {
		bank.ID = r.id()
	}
	r.banks[bank.ID] = bank
	r.mu.Unlock()
	r.broker.Publish(ctx, "banks")
	return bank.ID, nil
}

func (r *memRepo) UpdateBank(ctx context.Context, bank quiz.QuestionBank) error {
	r.mu.Lock()
	if r.writeErr != nil {
		r.mu.Unlock()
		return r.writeErr
	}
	r.writes++
	if _, ok := r.banks[bank.ID]; ok {
		r.banks[bank.ID] = bank
	}
	r.mu.Unlock()
	r.broker.Publish(ctx, "banks")
	return nil
}

func (r *memRepo) DeleteBank(ctx context.Context, bank quiz.QuestionBank) error {
	return r.DeleteBankByID(ctx, bank.ID)
}

func (r *memRepo) DeleteBankByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	if r.writeErr != nil {
		r.mu.Unlock()
		return r.writeErr
	}
	r.writes++
	delete(r.banks, id)
	for qid, q := range r.questions {
		if q.BankID == id {
			delete(r.questions, qid)
		}
	}
	r.mu.Unlock()
	r.broker.Publish(ctx, "banks", "questions")
	return nil
}

func (r *memRepo) WatchQuestionsForBank(ctx context.Context, bankID int64) *livequery.Subscription[[]quiz.Question] {
	return livequery.Watch(ctx, r.broker, func(ctx context.Context) ([]quiz.Question, error) {
		return r.QuestionsForBank(ctx, bankID)
	}, "questions")
}

func (r *memRepo) QuestionsForBank(_ context.Context, bankID int64) ([]quiz.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	questions := []quiz.Question{}
	for _, q := range r.questions {
		if q.BankID == bankID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (r *memRepo) RandomQuestionsForBank(ctx context.Context, bankID int64) ([]quiz.Question, error) {
	if r.randomErr != nil {
		return nil, r.randomErr
	}
	return r.QuestionsForBank(ctx, bankID)
}

func (r *memRepo) GetQuestion(_ context.Context, id int64) (quiz.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return quiz.Question{}, quiz.ErrQuestionNotFound
	}
	return q, nil
}

func (r *memRepo) InsertQuestion(ctx context.Context, question quiz.Question) (int64, error) {
	r.mu.Lock()
	if r.writeErr != nil {
		r.mu.Unlock()
		return 0, r.writeErr
	}
	r.writes++
	if question.ID == 0 {
		question.ID = r.id()
	}
	r.questions[question.ID] = question
	r.mu.Unlock()
	r.broker.Publish(ctx, "questions")
	return question.ID, nil
}

func (r *memRepo) UpdateQuestion(ctx context.Context, question quiz.Question) error {
	r.mu.Lock()
	if r.writeErr != nil {
		r.mu.Unlock()
		return r.writeErr
	}
	r.writes++
	r.questions[question.ID] = question
	r.mu.Unlock()
	r.broker.Publish(ctx, "questions")
	return nil
}

func (r *memRepo) DeleteQuestion(ctx context.Context, question quiz.Question) error {
	return r.DeleteQuestionByID(ctx, question.ID)
}

func (r *memRepo) DeleteQuestionByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	if r.writeErr != nil {
		r.mu.Unlock()
		return r.writeErr
	}
	r.writes++
	delete(r.questions, id)
	r.mu.Unlock()
	r.broker.Publish(ctx, "questions")
	return nil
}

// waitFor blocks until a state value satisfies ok.
func waitFor[T any](t *testing.T, state *State[T], ok func(T) bool) T {
	t.Helper()
	ch, cancel := state.Subscribe()
	defer cancel()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case v := <-ch:
			if ok(v) {
				return v
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state, last value %+v", state.Value())
		}
	}
}
