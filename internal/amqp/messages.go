package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds routed through the sync queue.
const (
	KindSync   = "sync"
	KindDelete = "delete"
)

// SyncMessage asks the worker to mirror or remove one transaction. It carries
// only identifiers; the worker fetches the full row from the database so the
// queue never holds stale copies of the data.
type SyncMessage struct {
	Kind          string    `json:"kind"`
	UserID        string    `json:"userId"`
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewSyncMessage(userID, transactionID string) *SyncMessage {
	return &SyncMessage{
		Kind:          KindSync,
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func NewDeleteMessage(userID, transactionID string) *SyncMessage {
	return &SyncMessage{
		Kind:          KindDelete,
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
