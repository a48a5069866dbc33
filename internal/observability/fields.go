package observability

import (
	"time"

	"go.uber.org/zap"
)

// Thin aliases over zap fields so callers outside this package don't need
// a direct zap import for structured logging.

// String constructs a string field.
func String(key, value string) zap.Field {
	return zap.String(key, value)
}

// Int constructs an int field.
func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// Int64 constructs an int64 field.
func Int64(key string, value int64) zap.Field {
	return zap.Int64(key, value)
}

// Float64 constructs a float64 field.
func Float64(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// Bool constructs a bool field.
func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// Duration constructs a duration field.
func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

// Error constructs an error field under the standard "error" key.
func Error(err error) zap.Field {
	return zap.Error(err)
}
