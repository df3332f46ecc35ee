package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage announces a persisted transaction by id. The
// consumer fetches the full record from the ledger, so the message stays
// small and replayable.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
