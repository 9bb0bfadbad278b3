package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"artha/internal/core"
)

// DayReplacedMessage announces that every expense of one date was rewritten.
// Consumers re-read the day from the store; the message carries no rows.
type DayReplacedMessage struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDayReplacedMessage(date core.Date, count int) *DayReplacedMessage {
	return &DayReplacedMessage{
		ID:        uuid.NewString(),
		Date:      date.String(),
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

// ParsedDate returns the message date as a core.Date.
func (m *DayReplacedMessage) ParsedDate() (core.Date, error) {
	return core.ParseDate(m.Date)
}

func (m *DayReplacedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DayReplacedMessageFromJSON(data []byte) (*DayReplacedMessage, error) {
	var msg DayReplacedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := msg.ParsedDate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
