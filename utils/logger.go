package utils

import "go.uber.org/zap"

// Log is the process-wide logger. It is a no-op until InitLogger runs so
// packages can log from tests without setup.
var Log = zap.NewNop()

func InitLogger(dev bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = logger
	return nil
}
