package entity

import (
	"github.com/google/uuid"
)

// Notification is a persisted inbox entry. EventID is unique so replayed
// events never produce duplicate rows.
type Notification struct {
	BaseSimple
	UserID  uuid.UUID `db:"user_id"`
	EventID uuid.UUID `db:"event_id"`
	Kind    string    `db:"kind"`
	Message string    `db:"message"`
	Read    bool      `db:"read"`
}
