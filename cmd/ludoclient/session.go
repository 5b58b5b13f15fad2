// File: cmd/ludoclient/session.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var errNotInRoom = errors.New("join a room first")

// session remembers what the server told this client so commands can be
// typed without repeating the room and color.
type session struct {
	mu     sync.Mutex
	connID string
	roomID string
	color  string
}

type frameHeader struct {
	MessageType  string `json:"messageType"`
	ConnectionID string `json:"connectionId"`
	RoomID       string `json:"roomId"`
	Color        string `json:"color"`
}

// observe records identity carrying events and returns a printable line.
func (s *session) observe(frame []byte) string {
	var h frameHeader
	if err := json.Unmarshal(frame, &h); err != nil {
		return string(frame)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch h.MessageType {
	case "connected":
		s.connID = h.ConnectionID
	case "joined":
		s.roomID = h.RoomID
		s.color = h.Color
	case "kickedOut":
		s.roomID, s.color = "", ""
	case "migrateColor":
		var m struct {
			OldColor string `json:"oldColor"`
			NewColor string `json:"newColor"`
		}
		if json.Unmarshal(frame, &m) == nil && m.OldColor == s.color {
			s.color = m.NewColor
		}
	}
	return fmt.Sprintf("<- %s %s", h.MessageType, frame)
}

// command turns one input line into a wire message.
func (s *session) command(line string) (map[string]interface{}, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty command")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if fields[0] == "join" {
		if len(fields) < 2 {
			return nil, errors.New("usage: join <room> [name]")
		}
		msg := map[string]interface{}{"messageType": "joinRoom", "id": fields[1]}
		if len(fields) > 2 {
			msg["name"] = strings.Join(fields[2:], " ")
		}
		return msg, nil
	}

	if s.roomID == "" {
		return nil, errNotInRoom
	}
	msg := map[string]interface{}{"roomId": s.roomID}
	switch fields[0] {
	case "start":
		msg["messageType"] = "startGame"
	case "restart":
		msg["messageType"] = "restartGame"
	case "pass":
		msg["messageType"] = "passTurn"
	case "roll":
		msg["messageType"] = "rollDice"
		msg["color"] = s.color
	case "move":
		if len(fields) != 3 {
			return nil, errors.New("usage: move <token> <roll>")
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("bad token index %q", fields[1])
		}
		roll, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("bad roll %q", fields[2])
		}
		msg["messageType"] = "moveToken"
		msg["color"] = s.color
		msg["idx"] = idx
		msg["roll"] = roll
	case "kick":
		if len(fields) != 2 {
			return nil, errors.New("usage: kick <connectionId>")
		}
		msg["messageType"] = "kickPlayer"
		msg["targetId"] = fields[1]
	case "accept", "reject":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: %s <connectionId>", fields[0])
		}
		msg["messageType"] = "handleJoinRequest"
		msg["requesterId"] = fields[1]
		msg["accepted"] = fields[0] == "accept"
	case "say":
		msg["messageType"] = "sendInteraction"
		msg["color"] = s.color
		msg["type"] = "chat"
		msg["content"] = strings.Join(fields[1:], " ")
	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
	return msg, nil
}
