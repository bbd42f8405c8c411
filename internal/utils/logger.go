package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	Logger zerolog.Logger
)

func init() {
	// Console only until SetupLogger runs, so packages can log from init and tests.
	Logger = newLogger(consoleWriter(os.Stderr), zerolog.InfoLevel)
	log.Logger = Logger
}

// SetupLogger replaces the package logger. level is a zerolog level name
// ("debug", "info", ...); when file is non-empty logs are appended there as
// JSON in addition to the colored console output.
func SetupLogger(level, file string) (io.Closer, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	var out io.Writer = consoleWriter(os.Stderr)
	var closer io.Closer = io.NopCloser(nil)
	if file != "" {
		logFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, logFile)
		closer = logFile
	}

	Logger = newLogger(out, lvl)
	// Also replace global log, so log.Info().Msg() etc works everywhere
	log.Logger = Logger
	return closer, nil
}

func newLogger(out io.Writer, lvl zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	return zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
}

// levelColors maps zerolog level names to ANSI color codes for the console.
var levelColors = map[string]int{
	zerolog.LevelTraceValue: 90,
	zerolog.LevelDebugValue: 36,
	zerolog.LevelInfoValue:  32,
	zerolog.LevelWarnValue:  33,
	zerolog.LevelErrorValue: 31,
	zerolog.LevelFatalValue: 35,
	zerolog.LevelPanicValue: 35,
}

func colorLevel(i interface{}) string {
	name, _ := i.(string)
	tag := fmt.Sprintf("%-5s", strings.ToUpper(name))
	if code, ok := levelColors[name]; ok {
		return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, tag)
	}
	return tag
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:         out,
		TimeFormat:  "15:04:05",
		FormatLevel: colorLevel,
		FormatCaller: func(i interface{}) string {
			s, _ := i.(string)
			return filepath.Base(s)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
	}
}
