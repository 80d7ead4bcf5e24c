package logger

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logDir  = "logs"
	logPath = "logs/gatehouse.log"
)

// NewLogger builds the service logger: JSON entries, buffered file
// output, and a console mirror. The level comes from LOG_LEVEL and
// defaults to info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	logger.SetLevel(levelFromEnv())

	if err := os.MkdirAll(logDir, 0750); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	sink, err := NewFileSink(logPath)
	if err != nil {
		log.Fatalf("Failed to open log sink: %v", err)
	}
	logger.SetOutput(sink)

	logger.AddHook(NewConsoleMirror(os.Stdout))

	return logger
}

func levelFromEnv() logrus.Level {
	raw := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
