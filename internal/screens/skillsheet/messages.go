package skillsheet

import "github.com/abhisek/masterysheet/internal/model"

// skillsLoadedMsg carries a character's skills fetched from the backend.
type skillsLoadedMsg struct {
	Skills []model.CharacterSkill
	Err    error
}

// skillCreatedMsg is sent when a new skill was added through the backend.
type skillCreatedMsg struct {
	Skill *model.CharacterSkill
	Err   error
}
