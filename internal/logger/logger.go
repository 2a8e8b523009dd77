package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	Logger zerolog.Logger
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

func init() {
	// Warnings only until the command line has been parsed
	Logger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
}

// Configure sets up the global logger with the specified level, writing
// human-readable lines to w. Colors are only used when color is true.
func Configure(level LogLevel, w io.Writer, color bool) {
	var zeroLevel zerolog.Level
	switch level {
	case LevelDebug:
		zeroLevel = zerolog.DebugLevel
	case LevelInfo:
		zeroLevel = zerolog.InfoLevel
	case LevelWarn:
		zeroLevel = zerolog.WarnLevel
	case LevelError:
		zeroLevel = zerolog.ErrorLevel
	default:
		zeroLevel = zerolog.WarnLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !color,
	}

	Logger = zerolog.New(writer).Level(zeroLevel).With().Timestamp().Logger()

	// Update the global logger
	log.Logger = Logger
}

// GetLogLevel determines the log level from the debug flag, falling back to
// the CCAT_DEBUG and DEBUG environment variables.
func GetLogLevel(debug bool) LogLevel {
	if debug {
		return LevelDebug
	}
	for _, key := range []string{"CCAT_DEBUG", "DEBUG"} {
		v := strings.ToLower(os.Getenv(key))
		if v == "true" || v == "1" {
			return LevelDebug
		}
	}
	return LevelWarn
}

// Debug returns a debug level event
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}

// Warn returns a warn level event
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Warnf logs a formatted message at warn level
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}
