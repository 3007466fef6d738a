// Package logger writes salesops' log file. Entries go to a rotating
// file under the config directory; in debug mode they are mirrored to
// stderr. Until Init runs every helper is a no-op.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// FileName is the log file inside <config dir>/logs
	FileName = "salesops.log"

	componentKey = "component"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

type Config struct {
	Debug     bool
	ConfigDir string
}

// Init opens the log file and installs the global logger
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    5, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}

	level := log.InfoLevel
	var out io.Writer = file
	// stderr would corrupt the console, so it only joins in debug mode
	if cfg.Debug {
		level = log.DebugLevel
		out = io.MultiWriter(os.Stderr, file)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "salesops",
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs msg and exits with status 1
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}

// Component tags every entry it writes with the subsystem that wrote
// it, e.g. component=controller. It is safe to declare before Init.
type Component string

func (c Component) tagged(keyvals []interface{}) []interface{} {
	return append([]interface{}{componentKey, string(c)}, keyvals...)
}

func (c Component) Debug(msg string, keyvals ...interface{}) {
	Debug(msg, c.tagged(keyvals)...)
}

func (c Component) Info(msg string, keyvals ...interface{}) {
	Info(msg, c.tagged(keyvals)...)
}

func (c Component) Warn(msg string, keyvals ...interface{}) {
	Warn(msg, c.tagged(keyvals)...)
}

func (c Component) Error(msg string, keyvals ...interface{}) {
	Error(msg, c.tagged(keyvals)...)
}
