package models

import (
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/dialog"
)

// Session is the single dialog session of a user: the current step of the
// conversation and the context tree accumulating everything collected so
// far. Exactly one row per user.
type Session struct {
	ID          string
	UserID      string
	CurrentStep dialog.Step
	Context     mapx.Map
	UpdatedAt   time.Time
}
