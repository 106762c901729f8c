package preview

import (
	"encoding/json"

	"github.com/inamate/inamate/lottiegen/internal/engine"
	"github.com/inamate/inamate/lottiegen/internal/issues"
)

type Message struct {
	Type          string          `json:"type"`
	TranslationID string          `json:"translationId,omitempty"`
	ConnID        string          `json:"connId,omitempty"`
	ClientID      string          `json:"clientId,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Playback, client to server
	TypeSeek  = "playback.seek"
	TypePlay  = "playback.play"
	TypePause = "playback.pause"

	// Playback, server to client
	TypeFrame = "frame"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ConnID   string               `json:"connId"`
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Issues   []issues.Issue       `json:"issues"`
	Playback engine.PlaybackState `json:"playback"`
}

// SeekPayload moves the shared playhead. Frame wins when both are set.
type SeekPayload struct {
	Frame    *int     `json:"frame,omitempty"`
	Progress *float64 `json:"progress,omitempty"`
}

type FramePayload struct {
	Playback engine.PlaybackState `json:"playback"`
	Commands []engine.DrawCommand `json:"commands"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PresencePayload is what a viewer shares with the others: where its
// pointer is and which scene nodes it has selected.
type PresencePayload struct {
	Cursor    *CursorPos `json:"cursor,omitempty"`
	Selection []int      `json:"selection,omitempty"`
	Name      string     `json:"name,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ConnID string `json:"connId"`
	Name   string `json:"name"`
}

type PresenceLeavePayload struct {
	ConnID string `json:"connId"`
}

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
