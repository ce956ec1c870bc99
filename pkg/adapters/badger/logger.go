package badger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// badgerLogger routes Badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) log(level slog.Level, format string, args ...any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	l.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.log(slog.LevelError, format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.log(slog.LevelWarn, format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.log(slog.LevelDebug, format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.log(slog.LevelDebug, format, args...) }
