package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDBUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.SkillRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CharacterSkillCreate{CharacterID: 1, Name: "Arcana"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if created.Mastery != mastery.None {
		t.Errorf("default mastery = %q, want None", created.Mastery)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *created {
		t.Errorf("get = %+v, want %+v", got, created)
	}

	if _, err := repo.Get(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := openTestStore(t)
	repo := s.SkillRepo()
	ctx := context.Background()

	in := model.CharacterSkillCreate{CharacterID: 1, Name: "Arcana", Mastery: mastery.Trained}
	if _, err := repo.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, in); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate create: err = %v, want ErrDuplicate", err)
	}

	// Same name on another character is fine.
	in.CharacterID = 2
	if _, err := repo.Create(ctx, in); err != nil {
		t.Errorf("create for other character: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	insert := `INSERT INTO character_skills (character_id, name, mastery) VALUES (?, ?, ?)`
	if _, err := s.DB().ExecContext(ctx, insert, 1, "Arcana", "None"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err := s.DB().ExecContext(ctx, insert, 1, "Arcana", "None")
	if err == nil || !isUniqueViolation(err) {
		t.Errorf("duplicate insert: isUniqueViolation(%v) = false, want true", err)
	}

	// A CHECK failure mentioning the same table is not a duplicate.
	_, err = s.DB().ExecContext(ctx, insert, 1, "Stealth", "Godlike")
	if err == nil {
		t.Fatal("expected CHECK constraint error")
	}
	if isUniqueViolation(err) {
		t.Errorf("check failure reported as unique violation: %v", err)
	}

	if isUniqueViolation(errors.New("UNIQUE constraint failed: character_skills.name")) {
		t.Error("plain error text must not count as a unique violation")
	}
}

func TestListByCharacter(t *testing.T) {
	s := openTestStore(t)
	repo := s.SkillRepo()
	ctx := context.Background()

	for _, in := range []model.CharacterSkillCreate{
		{CharacterID: 7, Name: "Stealth", Mastery: mastery.Expert},
		{CharacterID: 7, Name: "Arcana", Mastery: mastery.Trained},
		{CharacterID: 8, Name: "Athletics"},
	} {
		if _, err := repo.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
	}

	skills, err := repo.ListByCharacter(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("got %d skills, want 2", len(skills))
	}
	if skills[0].Name != "Arcana" || skills[1].Name != "Stealth" {
		t.Errorf("order = %s, %s; want Arcana, Stealth", skills[0].Name, skills[1].Name)
	}

	empty, err := repo.ListByCharacter(ctx, 99)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestUpdateMasteryRecordsHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.SkillRepo()
	ctx := context.Background()

	skill, err := repo.Create(ctx, model.CharacterSkillCreate{CharacterID: 1, Name: "Diplomacy", Mastery: mastery.Trained})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.UpdateMastery(ctx, skill.ID, mastery.Expert, "req-1"); err != nil {
		t.Fatalf("update 1: %v", err)
	}
	updated, err := repo.UpdateMastery(ctx, skill.ID, mastery.Master, "req-2")
	if err != nil {
		t.Fatalf("update 2: %v", err)
	}
	if updated.Mastery != mastery.Master {
		t.Errorf("updated mastery = %q, want Master", updated.Mastery)
	}

	got, _ := repo.Get(ctx, skill.ID)
	if got.Mastery != mastery.Master {
		t.Errorf("stored mastery = %q, want Master", got.Mastery)
	}

	history, err := repo.History(ctx, skill.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d changes, want 2", len(history))
	}
	if history[0].From != mastery.Expert || history[0].To != mastery.Master || history[0].RequestID != "req-2" {
		t.Errorf("newest change = %+v", history[0])
	}
	if history[0].Sequence <= history[1].Sequence {
		t.Errorf("sequences not descending: %d, %d", history[0].Sequence, history[1].Sequence)
	}
	if history[1].Timestamp.IsZero() {
		t.Error("expected timestamp")
	}

	limited, err := repo.History(ctx, skill.ID, 1)
	if err != nil {
		t.Fatalf("history limit: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != history[0].Sequence {
		t.Errorf("limited history = %+v", limited)
	}
}

func TestUpdateMasteryErrors(t *testing.T) {
	s := openTestStore(t)
	repo := s.SkillRepo()
	ctx := context.Background()

	if _, err := repo.UpdateMastery(ctx, 404, mastery.Expert, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing skill: err = %v, want ErrNotFound", err)
	}

	skill, _ := repo.Create(ctx, model.CharacterSkillCreate{CharacterID: 1, Name: "Lore"})
	_, err := repo.UpdateMastery(ctx, skill.ID, "Godlike", "")
	var unknown *mastery.ErrUnknownLevel
	if !errors.As(err, &unknown) {
		t.Errorf("unknown level: err = %v, want *ErrUnknownLevel", err)
	}

	history, _ := repo.History(ctx, skill.ID, 0)
	if len(history) != 0 {
		t.Errorf("failed updates recorded history: %+v", history)
	}
}

func TestSequenceCounterMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx, s.DB())
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n <= prev {
			t.Fatalf("sequence %d not greater than %d", n, prev)
		}
		prev = n
	}
}
