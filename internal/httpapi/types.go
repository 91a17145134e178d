package httpapi

import (
	"quizbank/internal/quiz"
	"quizbank/internal/screen"
)

type bankRequest struct {
	Name string `json:"name"`
}

type bankResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type banksResponse struct {
	Banks []quiz.QuestionBank `json:"banks"`
}

type questionRequest struct {
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

type questionsResponse struct {
	BankID    int64           `json:"bank_id"`
	Questions []quiz.Question `json:"questions"`
}

type quizEventRequest struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
}

// quizQuestionResponse hides the answer key of the question being played.
type quizQuestionResponse struct {
	ID           int64    `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

type quizResponse struct {
	SessionID       string                `json:"session_id"`
	BankID          int64                 `json:"bank_id"`
	Phase           screen.QuizPhase      `json:"phase"`
	CurrentIndex    int                   `json:"current_index"`
	Total           int                   `json:"total"`
	Score           int                   `json:"score"`
	Progress        float64               `json:"progress"`
	SelectedAnswer  *int                  `json:"selected_answer"`
	CurrentQuestion *quizQuestionResponse `json:"current_question,omitempty"`
	Error           string                `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toQuizResponse(sessionID string, state screen.QuizState) quizResponse {
	response := quizResponse{
		SessionID:      sessionID,
		BankID:         state.BankID,
		Phase:          state.Phase,
		CurrentIndex:   state.CurrentIndex,
		Total:          state.Total(),
		Score:          state.Score,
		Progress:       state.Progress(),
		SelectedAnswer: state.SelectedAnswer,
		Error:          state.Error,
	}
	if question, ok := state.CurrentQuestion(); ok {
		response.CurrentQuestion = &quizQuestionResponse{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			Options:      question.Options,
		}
	}
	return response
}
