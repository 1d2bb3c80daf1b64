// Package jwt issues and verifies the signed session tokens handed out at
// login, and carries verified claims through a request context.
package jwt
