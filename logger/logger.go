package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  = logrus.New()
	WarnLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLoggers points the three loggers at stdout plus a rotating file per level.
// Safe to call more than once; the last call wins.
func InitLoggers() {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if os.Getenv("APP_ENV") == "production" {
		formatter = &logrus.JSONFormatter{}
	}

	setup(InfoLogger, formatter, filepath.Join(dir, "info.log"))
	setup(WarnLogger, formatter, filepath.Join(dir, "warn.log"))
	setup(ErrorLogger, formatter, filepath.Join(dir, "error.log"))
}

func setup(l *logrus.Logger, formatter logrus.Formatter, file string) {
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	l.SetOutput(io.MultiWriter(os.Stdout, rotating))
	l.SetFormatter(formatter)
	// The file name picks the stream, not the level: callers mix Warnf/Errorf on any logger.
	l.SetLevel(logrus.InfoLevel)
}
