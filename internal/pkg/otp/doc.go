// Package otp generates short numeric one-time passcodes.
//
// Codes are drawn uniformly from the full range for the configured width,
// leading zeros included, using crypto/rand.
package otp
