// Package logger provides the leveled logger shared by every vodforge package.
// Console output is colored per level; file output is plain text.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

var levelTags = map[LogLevel]string{
	DEBUG: "[DEBUG] ",
	INFO:  "[INFO]  ",
	WARN:  "[WARN]  ",
	ERROR: "[ERROR] ",
}

var levelColors = map[LogLevel]string{
	DEBUG: colorGray,
	INFO:  colorReset,
	WARN:  colorYellow,
	ERROR: colorRed,
}

type sink struct {
	logger  *log.Logger
	colored bool
}

var (
	mu       sync.Mutex
	minLevel = DEBUG
	sinks    []sink
	logFile  *os.File
)

func init() {
	sinks = []sink{{logger: log.New(os.Stdout, "", log.Ldate|log.Ltime), colored: true}}
}

// Init reconfigures the logger outputs. If filename is non-empty, log lines
// are appended to that file without color codes. If console is true, lines
// also go to stdout with per-level colors.
func Init(filename string, console bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	sinks = nil

	if filename != "" {
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = file
		sinks = append(sinks, sink{logger: log.New(file, "", log.Ldate|log.Ltime)})
	}
	if console {
		sinks = append(sinks, sink{logger: log.New(os.Stdout, "", log.Ldate|log.Ltime), colored: true})
	}
	if len(sinks) == 0 {
		return fmt.Errorf("no output destination specified")
	}
	return nil
}

// SetLevel sets the minimum level; messages below it are dropped.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// Close closes the log file if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func output(level LogLevel, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}
	for _, s := range sinks {
		if s.colored {
			s.logger.Print(levelColors[level] + levelTags[level] + colorReset + msg)
		} else {
			s.logger.Print(levelTags[level] + msg)
		}
	}
}

// Debug logs a debug message.
func Debug(v ...interface{}) { output(DEBUG, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message.
func Debugf(format string, v ...interface{}) { output(DEBUG, fmt.Sprintf(format, v...)) }

// Info logs an info message.
func Info(v ...interface{}) { output(INFO, fmt.Sprint(v...)) }

// Infof logs a formatted info message.
func Infof(format string, v ...interface{}) { output(INFO, fmt.Sprintf(format, v...)) }

// Warn logs a warning message.
func Warn(v ...interface{}) { output(WARN, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) { output(WARN, fmt.Sprintf(format, v...)) }

// Error logs an error message.
func Error(v ...interface{}) { output(ERROR, fmt.Sprint(v...)) }

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) { output(ERROR, fmt.Sprintf(format, v...)) }

// Fatal logs an error message and exits the program.
func Fatal(v ...interface{}) {
	output(ERROR, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits the program.
func Fatalf(format string, v ...interface{}) {
	output(ERROR, fmt.Sprintf(format, v...))
	os.Exit(1)
}
