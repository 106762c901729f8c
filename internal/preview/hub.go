// Package preview runs shared playback sessions over websockets. Every
// viewer of a translation joins the same room and sees the same playhead.
package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/inamate/lottiegen/internal/engine"
	"github.com/inamate/inamate/lottiegen/internal/translate"
)

type Room struct {
	translationID string
	clients       map[string]*Client // connID -> client
	presence      *PresenceManager

	mu     sync.Mutex // guards engine and ticker
	result *translate.Result
	engine *engine.Engine
	stop   chan struct{}
}

func NewRoom(translationID string, result *translate.Result) *Room {
	eng := engine.NewEngine(translate.Options{})
	eng.Load(result)
	return &Room{
		translationID: translationID,
		clients:       make(map[string]*Client),
		presence:      NewPresenceManager(),
		result:        result,
		engine:        eng,
	}
}

// frameMessage renders the current frame. Callers hold r.mu.
func (r *Room) frameMessage() *Message {
	commands, err := r.engine.Commands()
	if err != nil {
		slog.Warn("render frame failed", "error", err, "translation", r.translationID)
	}
	if commands == nil {
		commands = []engine.DrawCommand{}
	}
	msg := newMessage(TypeFrame, FramePayload{
		Playback: r.engine.PlaybackState(),
		Commands: commands,
	})
	msg.TranslationID = r.translationID
	return msg
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // translationID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is done, then stops every room's
// playback.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.stopAll()
			close(h.done)
			return
		}
	}
}

// Register adds client to its translation's room. It reports false once
// the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// RoomCount is the number of translations with at least one viewer.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.TranslationID]
	if !ok {
		room = NewRoom(client.TranslationID, client.result)
		h.rooms[client.TranslationID] = room
	}
	room.clients[client.ConnID] = client
	h.mu.Unlock()

	room.mu.Lock()
	welcome := newMessage(TypeWelcome, WelcomePayload{
		ConnID:   client.ConnID,
		Width:    room.result.Width,
		Height:   room.result.Height,
		Issues:   room.result.Issues,
		Playback: room.engine.PlaybackState(),
	})
	frame := room.frameMessage()
	room.mu.Unlock()

	client.Send(welcome)
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}
	client.Send(frame)

	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ConnID: client.ConnID,
		Name:   client.Name,
	})
	joinMsg.ConnID = client.ConnID
	h.broadcastToRoom(client.TranslationID, joinMsg, client.ConnID)

	slog.Info("viewer joined", "conn", client.ConnID, "client", client.ClientID, "translation", client.TranslationID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.TranslationID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ConnID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ConnID)
	client.close()
	room.presence.Remove(client.ConnID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.TranslationID)
	}
	h.mu.Unlock()

	if empty {
		room.mu.Lock()
		room.stopTicker()
		room.mu.Unlock()
	} else {
		leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{ConnID: client.ConnID})
		leaveMsg.ConnID = client.ConnID
		h.broadcastToRoom(client.TranslationID, leaveMsg, "")
	}

	slog.Info("viewer left", "conn", client.ConnID, "translation", client.TranslationID)
}

func (h *Hub) stopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		room.mu.Lock()
		room.stopTicker()
		room.mu.Unlock()
		for _, c := range room.clients {
			c.close()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) room(translationID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[translationID]
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeSeek:
		h.handleSeek(sender, msg)
	case TypePlay:
		h.handlePlay(sender)
	case TypePause:
		h.handlePause(sender)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "conn", sender.ConnID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handleSeek(sender *Client, msg *Message) {
	var seek SeekPayload
	if err := json.Unmarshal(msg.Payload, &seek); err != nil || (seek.Frame == nil && seek.Progress == nil) {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "seek needs a frame or a progress"}))
		return
	}

	room := h.room(sender.TranslationID)
	if room == nil {
		return
	}

	room.mu.Lock()
	if seek.Frame != nil {
		room.engine.SetPlayhead(*seek.Frame)
	} else {
		room.engine.SetProgress(max(0, min(1, *seek.Progress)))
	}
	frame := room.frameMessage()
	room.mu.Unlock()

	h.broadcastToRoom(sender.TranslationID, frame, "")
}

func (h *Hub) handlePlay(sender *Client) {
	room := h.room(sender.TranslationID)
	if room == nil {
		return
	}

	room.mu.Lock()
	room.engine.Play()
	if room.stop == nil {
		room.stop = make(chan struct{})
		go h.tick(room, room.stop, room.engine.GetFPS())
	}
	frame := room.frameMessage()
	room.mu.Unlock()

	h.broadcastToRoom(sender.TranslationID, frame, "")
}

func (h *Hub) handlePause(sender *Client) {
	room := h.room(sender.TranslationID)
	if room == nil {
		return
	}

	room.mu.Lock()
	room.engine.Pause()
	room.stopTicker()
	frame := room.frameMessage()
	room.mu.Unlock()

	h.broadcastToRoom(sender.TranslationID, frame, "")
}

// tick advances the room's playhead at fps and broadcasts every frame
// until stop is closed.
func (h *Hub) tick(room *Room, stop <-chan struct{}, fps float64) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			room.mu.Lock()
			room.engine.Advance()
			frame := room.frameMessage()
			room.mu.Unlock()
			h.broadcastToRoom(room.translationID, frame, "")
		case <-stop:
			return
		}
	}
}

// stopTicker ends the tick goroutine, if any. Callers hold r.mu.
func (r *Room) stopTicker() {
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.Name = sender.Name

	room := h.room(sender.TranslationID)
	if room == nil {
		return
	}

	room.presence.Update(sender.ConnID, &presence)

	// Broadcast to other viewers in room
	outMsg := newMessage(TypePresenceUpdate, presence)
	outMsg.ConnID = sender.ConnID
	h.broadcastToRoom(sender.TranslationID, outMsg, sender.ConnID)
}

func (h *Hub) broadcastToRoom(translationID string, msg *Message, excludeConnID string) {
	h.mu.RLock()
	room, ok := h.rooms[translationID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ConnID != excludeConnID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
