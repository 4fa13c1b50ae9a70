package model

import (
	"time"

	"github.com/abhisek/masterysheet/internal/mastery"
)

// CharacterSkill is a character's standing in one named skill.
type CharacterSkill struct {
	ID          uint          `json:"id"`
	CharacterID uint          `json:"character_id"`
	Name        string        `json:"name"`
	Mastery     mastery.Level `json:"mastery"`
}

// CharacterSkillCreate is the body of POST /character-skill.
type CharacterSkillCreate struct {
	CharacterID uint          `json:"character_id"`
	Name        string        `json:"name"`
	Mastery     mastery.Level `json:"mastery"`
}

// CharacterSkillUpdate is the body of PATCH /character-skill/{id}.
type CharacterSkillUpdate struct {
	Mastery mastery.Level `json:"mastery"`
}

// MasteryChange records one accepted mastery update.
type MasteryChange struct {
	Sequence  int64         `json:"sequence"`
	SkillID   uint          `json:"skill_id"`
	From      mastery.Level `json:"from"`
	To        mastery.Level `json:"to"`
	RequestID string        `json:"request_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
