// Package hash provides one-way digests for secrets.
//
// Passwords and OTP codes are stored only as digests. Callers keep the
// digest and later check user input with Verify, which compares in constant
// time. HMAC-SHA256 is deterministic; bcrypt and Argon2id are salted.
package hash
