package client

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/sheet"
)

// Updater persists a new mastery level for a skill.
type Updater interface {
	UpdateMastery(ctx context.Context, id sheet.SkillID, level mastery.Level) (*UpdateResult, error)
}

var _ Updater = (*Client)(nil)

// LoggingUpdater is a decorator that logs every update call.
type LoggingUpdater struct {
	inner  Updater
	logger *zap.Logger
}

// WithLogging wraps an Updater with structured logging.
func WithLogging(u Updater, logger *zap.Logger) Updater {
	return &LoggingUpdater{inner: u, logger: logger}
}

func (l *LoggingUpdater) UpdateMastery(ctx context.Context, id sheet.SkillID, level mastery.Level) (*UpdateResult, error) {
	start := time.Now()
	res, err := l.inner.UpdateMastery(ctx, id, level)

	fields := []zap.Field{
		zap.String("skill_id", string(id)),
		zap.Stringer("mastery", level),
		zap.Duration("latency", time.Since(start)),
	}
	switch {
	case err != nil:
		fields = append(fields, zap.Error(err))
		if errors.Is(err, context.Canceled) {
			l.logger.Info("mastery update canceled", fields...)
		} else {
			l.logger.Warn("mastery update failed", fields...)
		}
	case res.Error != "":
		fields = append(fields, zap.String("request_id", res.RequestID), zap.String("reason", res.Error))
		l.logger.Info("mastery update rejected", fields...)
	default:
		fields = append(fields, zap.String("request_id", res.RequestID))
		l.logger.Debug("mastery updated", fields...)
	}
	return res, err
}
