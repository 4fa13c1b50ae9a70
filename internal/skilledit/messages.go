package skilledit

import (
	"github.com/abhisek/masterysheet/internal/client"
	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/sheet"
)

// UpdateResultMsg is sent when a mastery update request completes.
type UpdateResultMsg struct {
	SkillID sheet.SkillID
	Seq     uint64
	Level   mastery.Level
	Result  *client.UpdateResult
	Err     error
}
