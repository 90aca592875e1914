package amqp

import (
	"encoding/json"
	"time"

	"wealthify/internal/core"
)

// ImportedRowMessage carries one CSV-imported transaction toward the
// collaborator. The full transaction rides along so the relay worker
// never has to reach back into the importer's state.
type ImportedRowMessage struct {
	ImportID    string           `json:"import_id"`
	UserID      int64            `json:"user_id"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewImportedRowMessage(importID string, userID int64, tx core.Transaction) *ImportedRowMessage {
	return &ImportedRowMessage{
		ImportID:    importID,
		UserID:      userID,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ImportedRowMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func ImportedRowMessageFromJSON(data []byte) (*ImportedRowMessage, error) {
	var msg ImportedRowMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
