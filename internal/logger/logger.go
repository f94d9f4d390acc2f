package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the process logger for the given environment and installs it
// as zap's global logger, so the rest of the code can use zap.L().
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case "production", "staging":
		l, err = zap.NewProduction()
	case "test":
		l = zap.NewNop()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build %s logger -> %w", environment, err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
