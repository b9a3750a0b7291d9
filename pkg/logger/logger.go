package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log - process-wide sugared logger. Init must run before any handler uses it.
var Log *zap.SugaredLogger

// Init builds the logger: JSON in production, console in development.
func Init(production bool) {
	var (
		l   *zap.Logger
		err error
	)
	if production {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	Log = l.Sugar()
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
