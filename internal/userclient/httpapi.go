package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"quizbank/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type banksResponse struct {
	Banks []quiz.QuestionBank `json:"banks"`
}

type quizQuestion struct {
	ID           int64    `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// QuizView is the server's rendering of a quiz session.
type QuizView struct {
	SessionID       string        `json:"session_id"`
	BankID          int64         `json:"bank_id"`
	Phase           string        `json:"phase"`
	CurrentIndex    int           `json:"current_index"`
	Total           int           `json:"total"`
	Score           int           `json:"score"`
	Progress        float64       `json:"progress"`
	SelectedAnswer  *int          `json:"selected_answer"`
	CurrentQuestion *quizQuestion `json:"current_question,omitempty"`
	Error           string        `json:"error,omitempty"`
}

type quizEventRequest struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) ListBanks(ctx context.Context) ([]quiz.QuestionBank, error) {
	var payload banksResponse
	if err := c.doJSON(ctx, http.MethodGet, "/banks", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Banks, nil
}

func (c *HTTPClient) ImportQuestions(ctx context.Context, bankID int64, amount int) (quiz.ImportResult, error) {
	query := url.Values{}
	if amount > 0 {
		query.Set("amount", strconv.Itoa(amount))
	}
	path := bankPath(bankID) + "/import"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result quiz.ImportResult
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &result); err != nil {
		return quiz.ImportResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) StartQuiz(ctx context.Context, bankID int64) (QuizView, error) {
	var view QuizView
	if err := c.doJSON(ctx, http.MethodPost, bankPath(bankID)+"/quizzes", nil, &view); err != nil {
		return QuizView{}, err
	}
	return view, nil
}

// SendEvent dispatches one quiz event. index is only used by "answer".
func (c *HTTPClient) SendEvent(ctx context.Context, sessionID, eventType string, index *int) (QuizView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return QuizView{}, errors.New("session_id is required")
	}

	var view QuizView
	path := "/quizzes/" + url.PathEscape(sessionID) + "/events"
	if err := c.doJSON(ctx, http.MethodPost, path, quizEventRequest{Type: eventType, Index: index}, &view); err != nil {
		return QuizView{}, err
	}
	return view, nil
}

func (c *HTTPClient) EndQuiz(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/quizzes/"+url.PathEscape(sessionID), nil, nil)
}

func bankPath(bankID int64) string {
	return "/banks/" + strconv.FormatInt(bankID, 10)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
