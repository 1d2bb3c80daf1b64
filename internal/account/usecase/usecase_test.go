package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/memory"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/config"
	"github.com/shandysiswandi/bazaar/internal/pkg/hash"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
	"github.com/shandysiswandi/bazaar/internal/pkg/otp"
	"github.com/shandysiswandi/bazaar/internal/pkg/uid"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type fakeTransport struct {
	mu   sync.Mutex
	sent []entity.Dispatch
	err  error
}

func (f *fakeTransport) Send(_ context.Context, d entity.Dispatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, d)
	return nil
}

// last returns the most recent code sent for purpose.
func (f *fakeTransport) last(t *testing.T, p entity.Purpose) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Purpose == p {
			return f.sent[i].Code
		}
	}
	t.Fatalf("no %s code was sent", p)
	return ""
}

type seqGenerator struct {
	mu    sync.Mutex
	codes []string
}

func (g *seqGenerator) Code() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return "", errors.New("sequence exhausted")
	}
	c := g.codes[0]
	g.codes = g.codes[1:]
	return c, nil
}

type fixedID struct{}

func (fixedID) Generate() string { return "jti" }

type harness struct {
	uc        *Usecase
	store     *memory.Store
	transport *fakeTransport
	clock     *clock.Manual
	jwt       jwt.JWT
}

type harnessOption func(*Dependency)

func withGenerator(g otp.Generator) harnessOption {
	return func(d *Dependency) { d.Generator = g }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	clk := clock.NewManual(epoch)
	store := memory.New(clk)
	tr := &fakeTransport{}

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  account:\n    otp:\n      ttl_seconds: 300\n"))
	require.NoError(t, err)

	sf, err := uid.NewSnowflakeNode(1)
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "bazaar",
		Audiences: []string{"bazaar"},
		TTL:       time.Hour,
		Clock:     clk,
		ID:        fixedID{},
	})
	require.NoError(t, err)

	dep := Dependency{
		Store:      store,
		Transport:  tr,
		Validator:  v,
		Config:     cfg,
		Password:   hash.NewHMACSHA256("password-secret"),
		CodeHash:   hash.NewHMACSHA256("otp-secret"),
		Generator:  otp.NewNumeric(6),
		UID:        sf,
		Clock:      clk,
		JWT:        signer,
		Instrument: instrument.NewNoop(),
	}
	for _, opt := range opts {
		opt(&dep)
	}

	return &harness{uc: New(dep), store: store, transport: tr, clock: clk, jwt: signer}
}

// register creates alice and returns her REGISTER code.
func (h *harness) register(t *testing.T) string {
	t.Helper()
	_, err := h.uc.Register(context.Background(), RegisterInput{
		Identity: "a@x.com", DisplayName: "Alice", Password: "P@ssw0rd!", PasswordConfirmation: "P@ssw0rd!",
	})
	require.NoError(t, err)
	return h.transport.last(t, entity.PurposeRegister)
}

// verified registers and confirms alice.
func (h *harness) verified(t *testing.T) {
	t.Helper()
	code := h.register(t)
	require.NoError(t, h.uc.ConfirmOTP(context.Background(), ConfirmOTPInput{
		Identity: "a@x.com", Purpose: "register", Code: code,
	}))
}
