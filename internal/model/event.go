package model

// Event names carried in the websocket envelope.
const (
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventLoadHistory    = "load_history"
	EventPresenceCount  = "presence_count"
)

// Event is the envelope for every frame on the websocket, both directions.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Presence is the payload of a presence_count event.
type Presence struct {
	Count int      `json:"count"`
	Users []string `json:"users"`
}
