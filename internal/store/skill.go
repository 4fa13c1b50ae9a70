package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/model"
)

// SkillRepo manages character skills and their mastery history.
type SkillRepo interface {
	// Create inserts a new character skill.
	Create(ctx context.Context, in model.CharacterSkillCreate) (*model.CharacterSkill, error)

	// Get returns the skill with the given id, or ErrNotFound.
	Get(ctx context.Context, id uint) (*model.CharacterSkill, error)

	// ListByCharacter returns a character's skills ordered by name.
	ListByCharacter(ctx context.Context, characterID uint) ([]model.CharacterSkill, error)

	// UpdateMastery sets a new level and records the change atomically.
	UpdateMastery(ctx context.Context, id uint, level mastery.Level, requestID string) (*model.CharacterSkill, error)

	// History returns recorded mastery changes for a skill, newest first.
	// A limit of 0 returns every change.
	History(ctx context.Context, id uint, limit int) ([]model.MasteryChange, error)
}

var skillColumns = []string{"id", "character_id", "name", "mastery"}

// skillRepo implements SkillRepo with statements built by ent's SQL builder.
type skillRepo struct {
	db  *sql.DB
	sb  *entsql.DialectBuilder
	seq *sequenceCounter
}

func (r *skillRepo) Create(ctx context.Context, in model.CharacterSkillCreate) (*model.CharacterSkill, error) {
	level := in.Mastery
	if level == "" {
		level = mastery.None
	}
	if !level.Valid() {
		return nil, &mastery.ErrUnknownLevel{Value: string(level)}
	}

	query, args := r.sb.Insert(tableSkills).
		Columns("character_id", "name", "mastery").
		Values(in.CharacterID, in.Name, string(level)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert character skill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert character skill: %w", err)
	}

	return &model.CharacterSkill{
		ID:          uint(id),
		CharacterID: in.CharacterID,
		Name:        in.Name,
		Mastery:     level,
	}, nil
}

func (r *skillRepo) Get(ctx context.Context, id uint) (*model.CharacterSkill, error) {
	return r.get(ctx, r.db, id)
}

func (r *skillRepo) get(ctx context.Context, q rowQuerier, id uint) (*model.CharacterSkill, error) {
	query, args := r.sb.Select(skillColumns...).
		From(r.sb.Table(tableSkills)).
		Where(entsql.EQ("id", id)).
		Query()

	skill, err := scanSkill(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query character skill %d: %w", id, err)
	}
	return skill, nil
}

func (r *skillRepo) ListByCharacter(ctx context.Context, characterID uint) ([]model.CharacterSkill, error) {
	query, args := r.sb.Select(skillColumns...).
		From(r.sb.Table(tableSkills)).
		Where(entsql.EQ("character_id", characterID)).
		OrderBy("name").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query character skills: %w", err)
	}
	defer rows.Close()

	skills := []model.CharacterSkill{}
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character skill: %w", err)
		}
		skills = append(skills, *skill)
	}
	return skills, rows.Err()
}

func (r *skillRepo) UpdateMastery(ctx context.Context, id uint, level mastery.Level, requestID string) (*model.CharacterSkill, error) {
	if !level.Valid() {
		return nil, &mastery.ErrUnknownLevel{Value: string(level)}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	query, args := r.sb.Update(tableSkills).
		Set("mastery", string(level)).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update mastery: %w", err)
	}

	seq, err := r.seq.Next(ctx, tx)
	if err != nil {
		return nil, err
	}
	query, args = r.sb.Insert(tableChanges).
		Columns("sequence", "skill_id", "from_level", "to_level", "request_id", "timestamp").
		Values(seq, id, string(current.Mastery), string(level), requestID, time.Now().UTC().Format(time.RFC3339Nano)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("save mastery change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	current.Mastery = level
	return current, nil
}

func (r *skillRepo) History(ctx context.Context, id uint, limit int) ([]model.MasteryChange, error) {
	sel := r.sb.Select("sequence", "skill_id", "from_level", "to_level", "request_id", "timestamp").
		From(r.sb.Table(tableChanges)).
		Where(entsql.EQ("skill_id", id)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mastery history: %w", err)
	}
	defer rows.Close()

	changes := []model.MasteryChange{}
	for rows.Next() {
		var (
			c        model.MasteryChange
			from, to string
			ts       string
		)
		if err := rows.Scan(&c.Sequence, &c.SkillID, &from, &to, &c.RequestID, &ts); err != nil {
			return nil, fmt.Errorf("scan mastery change: %w", err)
		}
		c.From = mastery.Level(from)
		c.To = mastery.Level(to)
		if c.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse change timestamp: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSkill(s scanner) (*model.CharacterSkill, error) {
	var (
		skill model.CharacterSkill
		level string
	)
	if err := s.Scan(&skill.ID, &skill.CharacterID, &skill.Name, &level); err != nil {
		return nil, err
	}
	parsed, err := mastery.Parse(level)
	if err != nil {
		return nil, err
	}
	skill.Mastery = parsed
	return &skill, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
