package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
)

type RegisterRequest struct {
	Identity             string `json:"identity"`
	DisplayName          string `json:"display_name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type PendingVerificationResponse struct {
	AccountID string    `json:"account_id"`
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`

	status int
	msg    string
}

func (r PendingVerificationResponse) StatusCode() int { return r.status }

func (r PendingVerificationResponse) Message() string { return r.msg }

type SendOTPRequest struct {
	Identity string `json:"identity"`
	Purpose  string `json:"purpose"`
}

// ConfirmOTPRequest confirms a code. Purpose defaults to register.
type ConfirmOTPRequest struct {
	Identity string `json:"identity"`
	Purpose  string `json:"purpose"`
	Code     string `json:"code"`
}

type ConfirmOTPResponse struct {
	Purpose string `json:"purpose"`
}

func (r ConfirmOTPResponse) Message() string {
	if r.Purpose == entity.PurposeReset.String() {
		return "Code verified. Set your new password with the same code."
	}
	return "Your account has been verified. You can now log in."
}

type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccountID   string    `json:"account_id"`
	DisplayName string    `json:"display_name"`
}

func (r LoginResponse) Message() string {
	return "Welcome back, " + r.DisplayName
}

type ResetPasswordRequest struct {
	Identity             string `json:"identity"`
	Code                 string `json:"code"`
	NewPassword          string `json:"new_password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string {
	return "Your password has been reset. You can now log in."
}

type ProfileResponse struct {
	AccountID   string    `json:"account_id"`
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (HealthResponse) StatusCode() int { return http.StatusOK }

func (HealthResponse) Message() string { return "service is healthy" }
