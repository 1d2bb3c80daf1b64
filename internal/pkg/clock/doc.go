// Package clock provides a small time abstraction.
//
// Code that stamps or compares times (OTP issuance and expiry, token
// lifetimes) depends on Clocker rather than calling time.Now directly, so
// tests can drive time with a Manual clock.
package clock
