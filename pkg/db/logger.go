package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caesium-cloud/relay/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slowQuery is the threshold above which queries are logged as warnings.
const slowQuery = 200 * time.Millisecond

// Logger routes gorm's logging through the relay logger.
type Logger struct{}

func (l *Logger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	log.Info(log.Clean(fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	log.Warn(log.Clean(fmt.Sprintf(msg, args...)))
}

func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	log.Error(log.Clean(fmt.Sprintf(msg, args...)))
}

func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error("query failure", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case elapsed > slowQuery:
		sql, rows := fc()
		log.Warn("slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	default:
		sql, rows := fc()
		log.Debug("query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
