package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseMirrorMessage asks the backup worker to mirror one expense. It
// carries only the ID; the worker loads the full record from the store so a
// delayed delivery never mirrors stale data.
type ExpenseMirrorMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseMirrorMessage(id string) *ExpenseMirrorMessage {
	return &ExpenseMirrorMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseMirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseMirrorMessageFromJSON(data []byte) (*ExpenseMirrorMessage, error) {
	var msg ExpenseMirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, ErrEmptyMessageID
	}
	return &msg, nil
}
