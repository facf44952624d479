package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gaurav-prasanna/cxserver/lderr"
)

// BuildLogger constructs a zap.Logger from the Logging section: level is
// one of debug/info/warn/error, encoding is "console" or "json".
func (c *Config) BuildLogger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return nil, lderr.NewConfigError("invalid logging level %q: %v", c.Logging.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = c.Logging.Encoding
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := zc.Build()
	if err != nil {
		return nil, lderr.NewConfigError("building logger: %v", err)
	}
	return log, nil
}
