// Command loadtest registers a throwaway account, joins the chat over
// websocket, and fires a burst of messages to exercise the relay path.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/yuto1106110/plus-chat-api/internal/handler"
	"github.com/yuto1106110/plus-chat-api/internal/model"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	count := flag.Int("count", 10, "number of messages to send")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	username := "load-" + uuid.NewString()[:8]

	token, err := register(ctx, *base, username)
	if err != nil {
		log.Fatalf("registration failed: %v", err)
	}

	wsURL := "ws" + (*base)[len("http"):] + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		log.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.CloseNow()

	// Drain load_history and everything else in the background so the
	// server never sees us as a slow client.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for i := range *count {
		frame, err := json.Marshal(model.Event{
			Event: model.EventSendMessage,
			Data: model.Message{
				Author: username,
				Body:   fmt.Sprintf("load test message %d", i+1),
			},
		})
		if err != nil {
			log.Fatalf("failed to encode frame: %v", err)
		}

		if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
			log.Fatalf("failed to send message %d: %v", i+1, err)
		}
	}

	log.Printf("sent %d messages as [%s]", *count, username)
	conn.Close(websocket.StatusNormalClosure, "done")
}

func register(ctx context.Context, base, username string) (string, error) {
	body, err := json.Marshal(handler.AuthRequest{
		Username: username,
		Password: "loadtest-pass",
		Mode:     "register",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var authRes handler.AuthResponse
	if err := json.NewDecoder(res.Body).Decode(&authRes); err != nil {
		return "", err
	}
	if !authRes.Success {
		return "", fmt.Errorf("server rejected registration: %s", authRes.Message)
	}

	return authRes.Token, nil
}
