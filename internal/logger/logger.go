package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevel()

// Init installs the global zap logger. Production gets the JSON encoder at
// info level, anything else the console encoder at debug.
func Init(environment string) error {
	var conf zap.Config
	if environment == "production" {
		conf = zap.NewProductionConfig()
		level.SetLevel(zapcore.InfoLevel)
	} else {
		conf = zap.NewDevelopmentConfig()
		level.SetLevel(zapcore.DebugLevel)
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the running logger.
func SetLevel(name string) error {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}

	if lvl != level.Level() {
		level.SetLevel(lvl)
		zap.L().Info("log level changed", zap.Stringer("level", lvl))
	}

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
