// Package config exposes typed, read-only access to the service
// configuration.
package config

import (
	"io"
	"time"
)

// Config retrieves configuration values by dotted key ("modules.account.otp.ttl_seconds").
//
// Missing keys yield the zero value of the requested type unless a default
// has been registered by the implementation.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetArray reads a comma separated list, trimming blanks and dropping empty entries.
	GetArray(key string) []string
}
