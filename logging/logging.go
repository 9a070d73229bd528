package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	logFile  *os.File
	mu       sync.Mutex
	isSetup  bool
	console  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	fallback = newConsoleLogger()
)

func encoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.TimeKey = "timestamp"
	config.MessageKey = "message"
	config.LevelKey = "level"
	return config
}

func newConsoleLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stderr),
		console,
	)
	return zap.New(core)
}

// SetupLogger initializes the logger with the specified log file.
// The file receives every level; stderr receives info and above unless debug is enabled.
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(logFile), zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), console),
	)
	logger = zap.New(core)

	logger.Info(fmt.Sprintf("--- exifimage log started at %s ---", time.Now().Format(time.RFC3339)))

	isSetup = true
	return nil
}

// SetDebug switches debug output on stderr
func SetDebug(enabled bool) {
	if enabled {
		console.SetLevel(zapcore.DebugLevel)
	} else {
		console.SetLevel(zapcore.InfoLevel)
	}
}

// CloseLogger flushes and closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Info(fmt.Sprintf("--- exifimage log closed at %s ---", time.Now().Format(time.RFC3339)))
		_ = logger.Sync()
		logFile.Close()
		logFile = nil
		logger = nil
		isSetup = false
	}
}

func current() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		return logger
	}
	return fallback
}

// Named returns a sugared logger for a component
func Named(component string) *zap.SugaredLogger {
	return current().Named(component).Sugar()
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	current().Sugar().Infof(format, args...)
}

// DebugLog logs a message at debug level
func DebugLog(format string, args ...interface{}) {
	current().Sugar().Debugf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	current().Sugar().Errorf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	current().Sugar().Warnf(format, args...)
}

// LogImageProcessed logs when an image is processed
func LogImageProcessed(path string, success bool, errMsg string) {
	l := current()
	if success {
		l.Info("processed", zap.String("path", path))
	} else {
		l.Warn("failed", zap.String("path", path), zap.String("error", errMsg))
	}
}
