package inbound

import (
	"context"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/account/usecase"
	"github.com/shandysiswandi/bazaar/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.PendingVerification, error)
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*entity.PendingVerification, error)
	ConfirmOTP(ctx context.Context, in usecase.ConfirmOTPInput) error
	Login(ctx context.Context, in usecase.LoginInput) (*entity.Session, error)
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error
	Profile(ctx context.Context) (*entity.Account, error)
	Health(ctx context.Context) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/account/register", end.Register, router.Public())
	r.POST("/api/v1/account/otp/send", end.SendOTP, router.Public())
	r.POST("/api/v1/account/otp/confirm", end.ConfirmOTP, router.Public())
	r.POST("/api/v1/account/login", end.Login, router.Public())
	r.POST("/api/v1/account/password/reset", end.ResetPassword, router.Public())

	r.GET("/api/v1/account/me", end.Profile) // need authenticated

	r.GET("/healthz", end.Health, router.Public())
}
