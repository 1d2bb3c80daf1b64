// Package uid generates identifiers for persisted records and tokens.
package uid

// NumberID produces unique, roughly time-ordered 64-bit ids.
type NumberID interface {
	Generate() int64
}

// StringID produces unique string ids.
type StringID interface {
	Generate() string
}
