package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFilename = "roster.log"

var Logger zerolog.Logger = zerolog.Nop()
var logFilePath string

// Init sets up console logging at the given level ("debug", "info", ...).
// Unknown levels fall back to info.
func Init(logLevel string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}
	Logger = newLogger(consoleWriter, logLevel)
}

// AddFileLogger tees log output into a rotating file under dir
func AddFileLogger(dir, logLevel string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	logFilePath = filepath.Join(dir, logFilename)
	fileLogger := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 3,
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}
	Logger = newLogger(zerolog.MultiLevelWriter(consoleWriter, fileLogger), logLevel)
	return nil
}

func GetLogFilePath() string {
	return logFilePath
}

func newLogger(w io.Writer, logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		l = l.With().Caller().Logger()
	}
	return l
}
