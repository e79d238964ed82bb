package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/models"
)

// ActionEvent marks a message carrying a stored event.
const ActionEvent = "event"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

func encode(msg Message) []byte {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("action", msg.Action).Msg("Failed to encode websocket message")
		return nil
	}
	return b
}

// NewEventMessage wraps a stored event for delivery.
func NewEventMessage(event models.Event) []byte {
	return encode(Message{Action: ActionEvent, Payload: event})
}
