// Package observability configures process-wide logging.
package observability

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mbruegger/wallcast/internal/config"
)

// SetupLogging points the standard logger at stderr, and additionally at
// a size-rotated file when one is configured.
func SetupLogging(cfg config.Logging) {
	log.SetFlags(log.LstdFlags)

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
}
