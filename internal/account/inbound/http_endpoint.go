package inbound

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/account/usecase"
	"github.com/shandysiswandi/bazaar/internal/pkg/router"
)

// HTTPEndpoint exposes the registration, verification and login workflow.
type HTTPEndpoint struct {
	uc uc
}

func pending(pv *entity.PendingVerification, status int, msg string) PendingVerificationResponse {
	return PendingVerificationResponse{
		AccountID: strconv.FormatInt(pv.AccountID, 10),
		Identity:  pv.Identity,
		ExpiresAt: pv.ExpiresAt,
		status:    status,
		msg:       msg,
	}
}

// Register creates an unverified account and sends it a verification code.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	pv, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Identity:             req.Identity,
		DisplayName:          req.DisplayName,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		return nil, err
	}

	return pending(pv, http.StatusCreated, "Registration successful. Please check your email for the verification code."), nil
}

// SendOTP issues a fresh code for a purpose and invalidates the previous one.
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	pv, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		Identity: req.Identity,
		Purpose:  req.Purpose,
	})
	if err != nil {
		return nil, err
	}

	return pending(pv, http.StatusOK, "A new code has been sent."), nil
}

// ConfirmOTP verifies a REGISTER code, or pre-verifies a RESET code before
// the new password is chosen.
func (h *HTTPEndpoint) ConfirmOTP(r *router.Request) (any, error) {
	var req ConfirmOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	purpose := strings.ToLower(strings.TrimSpace(req.Purpose))
	if purpose == "" {
		purpose = entity.PurposeRegister.String()
	}

	if err := h.uc.ConfirmOTP(r.Context(), usecase.ConfirmOTPInput{
		Identity: req.Identity,
		Purpose:  purpose,
		Code:     req.Code,
	}); err != nil {
		return nil, err
	}

	return ConfirmOTPResponse{Purpose: purpose}, nil
}

func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	sess, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Identity: req.Identity,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
		ExpiresAt:   sess.ExpiresAt,
		AccountID:   strconv.FormatInt(sess.AccountID, 10),
		DisplayName: sess.DisplayName,
	}, nil
}

// ResetPassword consumes a RESET code and replaces the password.
func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{
		Identity:             req.Identity,
		Code:                 req.Code,
		NewPassword:          req.NewPassword,
		PasswordConfirmation: req.PasswordConfirmation,
	}); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}

// Profile returns the account behind the bearer token.
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	acc, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		AccountID:   strconv.FormatInt(acc.ID, 10),
		Identity:    acc.Identity,
		DisplayName: acc.DisplayName,
		Verified:    acc.Verified,
		CreatedAt:   acc.CreatedAt,
	}, nil
}

func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	if err := h.uc.Health(r.Context()); err != nil {
		return nil, err
	}
	return HealthResponse{Status: "ok"}, nil
}
