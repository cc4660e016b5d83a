// Package logging builds the zap logger used across the server.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stdout. Debug output is enabled
// by debug or by setting the DEBUG environment variable to "true".
func New(debug bool) *zap.SugaredLogger {
	log, err := newLogger(debug, "stdout", "stderr")
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	return log
}

// newLogger writes entries to out and internal zap errors to errOut. Both are
// zap sink URLs or paths.
func newLogger(debug bool, out, errOut string) (*zap.SugaredLogger, error) {
	encConfig := zap.NewDevelopmentEncoderConfig()
	encConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encConfig.EncodeCaller = nil
	encConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.StampMicro))
	}

	encoder := zapcore.NewConsoleEncoder(encConfig)

	// zap.Open cleans up after itself on failure and returns a nil closer.
	stdout, _, err := zap.Open(out)
	if err != nil {
		return nil, err
	}

	stderr, _, err := zap.Open(errOut)
	if err != nil {
		return nil, err
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if val, ok := os.LookupEnv("DEBUG"); debug || (ok && strings.EqualFold(val, "true")) {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(stdout), level)
	return zap.New(core, zap.ErrorOutput(stderr)).Sugar(), nil
}
