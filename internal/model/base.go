package model

import "github.com/google/uuid"

// ensureID assigns a random UUID when the primary key is still zero.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// DateLayout is the calendar-day format used by daily records.
const DateLayout = "2006-01-02"
