package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quizbank/internal/screen"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// HandleWatchBanks streams the bank list state every time it changes.
func (a *API) HandleWatchBanks(w http.ResponseWriter, r *http.Request) {
	conn, ok := a.upgrade(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	controller := screen.NewBankListController(a.banks)
	controller.Start(ctx)
	defer controller.Close()

	streamState(ctx, cancel, conn, controller.State(), a)
}

// HandleWatchQuestions streams the question list of one bank.
func (a *API) HandleWatchQuestions(w http.ResponseWriter, r *http.Request) {
	bank, ok := a.requireBank(w, r)
	if !ok {
		return
	}
	conn, ok := a.upgrade(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	controller := screen.NewQuestionListController(a.questions, bank.ID)
	controller.Start(ctx)
	defer controller.Close()

	streamState(ctx, cancel, conn, controller.State(), a)
}

func (a *API) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, bool) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     a.originAllowed,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		a.logger.Printf("websocket upgrade failed: %v", err)
		return nil, false
	}
	return conn, true
}

// streamState writes every state value to conn as JSON until the client
// goes away or ctx ends.
func streamState[T any](ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, state *screen.State[T], a *API) {
	defer conn.Close()

	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					a.logger.Printf("websocket read error: %v", err)
				}
				return
			}
		}
	}()

	updates, stop := state.Subscribe()
	defer stop()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case value := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(value); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
