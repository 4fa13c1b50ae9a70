package skilledit

import (
	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/sheet"
)

// Status is the lifecycle state of a mastery update request.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusRejected
	StatusFailed
	StatusCanceled
	StatusSuperseded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	case StatusSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s Status) Terminal() bool {
	return s != StatusIdle && s != StatusPending
}

// Transition describes one state change of an update request.
type Transition struct {
	SkillID sheet.SkillID
	Seq     uint64
	Level   mastery.Level
	From    Status
	To      Status
	Message string // rejection message, when To is StatusRejected
	Err     error  // failure cause, when To is StatusFailed
}
