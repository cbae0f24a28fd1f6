package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/yuto1106110/plus-chat-api/internal/auth"
	"github.com/yuto1106110/plus-chat-api/internal/chat"
)

// ServeWs upgrades the client's connection and registers it with the hub.
// Login is not required to join the channel; a valid bearer token or a
// username query parameter only pre-fills the author name.
func ServeWs(hub *chat.Hub, tokenSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username := r.URL.Query().Get("username")
		if token := bearerToken(r); token != "" {
			if subject, err := auth.ValidateJWT(token, tokenSecret); err == nil {
				username = subject
			} else {
				log.Printf("ignoring invalid token on /ws: %v", err)
			}
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Printf("failed to upgrade connection: %v", err)
			return
		}

		c := chat.NewClient(conn, username)
		reg := chat.Registration{
			Client: c,
			Done:   make(chan struct{}),
		}

		hub.Register <- reg

		// Wait for registration to complete; the history replay is queued
		// by the time Done closes.
		<-reg.Done

		// We block on ReadPump because the request context is cancelled as
		// soon as this handler returns.
		go c.WritePump(ctx)
		c.ReadPump(ctx)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return r.URL.Query().Get("token")
}
