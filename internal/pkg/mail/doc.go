// Package mail sends plain and HTML email through a swappable Mail
// implementation: SMTP for real delivery, Log for local runs.
package mail
