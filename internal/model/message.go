// Package model defines the wire-level data structures.
package model

import (
	"encoding/json"
)

// Message is a single chat message as it travels over the wire and sits in
// history. Clients may attach fields beyond author/body; those are carried
// verbatim in Extra and survive a decode/encode round trip untouched.
type Message struct {
	Author string
	Body   string
	// SentAt is assigned by the server at relay time, HH:MM in UTC+9.
	// Any client-supplied value is discarded.
	SentAt string
	Extra  map[string]json.RawMessage
}

// UnmarshalJSON splits the known fields out of the payload and keeps
// everything else opaque in Extra.
func (m *Message) UnmarshalJSON(p []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(p, &raw); err != nil {
		return err
	}

	if v, ok := raw["author"]; ok {
		if err := json.Unmarshal(v, &m.Author); err != nil {
			return err
		}
		delete(raw, "author")
	}
	if v, ok := raw["body"]; ok {
		if err := json.Unmarshal(v, &m.Body); err != nil {
			return err
		}
		delete(raw, "body")
	}
	if v, ok := raw["sentAt"]; ok {
		if err := json.Unmarshal(v, &m.SentAt); err != nil {
			return err
		}
		delete(raw, "sentAt")
	}

	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

// MarshalJSON re-assembles the payload. Known fields win over any Extra
// entry of the same name.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Extra)+3)
	for k, v := range m.Extra {
		out[k] = v
	}

	author, err := json.Marshal(m.Author)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(m.Body)
	if err != nil {
		return nil, err
	}
	sentAt, err := json.Marshal(m.SentAt)
	if err != nil {
		return nil, err
	}

	out["author"] = author
	out["body"] = body
	out["sentAt"] = sentAt

	return json.Marshal(out)
}
