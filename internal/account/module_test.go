package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/bazaar/internal/notification"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/config"
	"github.com/shandysiswandi/bazaar/internal/pkg/goroutine"
	"github.com/shandysiswandi/bazaar/internal/pkg/hash"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/pkg/router"
	"github.com/shandysiswandi/bazaar/internal/pkg/uid"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reCode = regexp.MustCompile(`<strong>(\d{6})</strong>`)

type stack struct {
	router *router.Router
	outbox *mail.Log
	clock  *clock.Manual
}

func newStack(t *testing.T, yaml string) (*stack, Dependency) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	sf, err := uid.NewSnowflakeNode(3)
	require.NoError(t, err)

	clk := clock.NewManual(time.Now().UTC())
	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("m", 64)),
		Issuer:    "bazaar",
		Audiences: []string{"bazaar"},
		TTL:       time.Hour,
		Clock:     clk,
		ID:        uid.NewUUID(),
	})
	require.NoError(t, err)

	ins := instrument.NewNoop()
	r := router.NewRouter(router.Config{Instrument: ins, JWT: signer, UUID: uid.NewUUID()})
	outbox := mail.NewLog("no-reply@bazaar.test")

	return &stack{router: r, outbox: outbox, clock: clk}, Dependency{
		Mail:       outbox,
		Router:     r,
		Config:     cfg,
		Instrument: ins,
		UID:        sf,
		Clock:      clk,
		Validator:  v,
		JWT:        signer,
		Password:   hash.NewHMACSHA256("pw"),
		CodeHash:   hash.NewHMACSHA256("otp"),
	}
}

func (s *stack) post(t *testing.T, path, body string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	}
	return rec.Code, out
}

// lastCode pulls the code out of the newest mail.
func (s *stack) lastCode(t *testing.T, want int) string {
	t.Helper()
	require.Eventually(t, func() bool { return len(s.outbox.Sent()) >= want }, time.Second, 5*time.Millisecond)
	sent := s.outbox.Sent()
	m := reCode.FindStringSubmatch(sent[len(sent)-1].HTMLBody)
	require.Len(t, m, 2)
	return m[1]
}

func (s *stack) registerAndLogin(t *testing.T) {
	t.Helper()

	code, _ := s.post(t, "/api/v1/account/register", `{"identity":"Alice@X.com","display_name":"Alice","password":"P@ssw0rd!","password_confirmation":"P@ssw0rd!"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.post(t, "/api/v1/account/login", `{"identity":"alice@x.com","password":"P@ssw0rd!"}`)
	require.Equal(t, http.StatusForbidden, code)

	code, _ = s.post(t, "/api/v1/account/otp/confirm", `{"identity":"alice@x.com","code":"`+s.lastCode(t, 1)+`"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := s.post(t, "/api/v1/account/login", `{"identity":"alice@x.com","password":"P@ssw0rd!"}`)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["data"].(map[string]any)["access_token"])
}

func TestNew_MemoryStoreWithMailDelivery(t *testing.T) {
	s, dep := newStack(t, "modules:\n  account:\n    store: memory\n    delivery: mail\n")
	require.NoError(t, New(dep))

	s.registerAndLogin(t)

	code, _ := s.post(t, "/api/v1/account/otp/send", `{"identity":"alice@x.com","purpose":"reset"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Your password reset code", s.outbox.Sent()[1].Subject)

	code, _ = s.post(t, "/api/v1/account/password/reset",
		`{"identity":"alice@x.com","code":"`+s.lastCode(t, 2)+`","new_password":"N3w!passw","password_confirmation":"N3w!passw"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.post(t, "/api/v1/account/login", `{"identity":"alice@x.com","password":"N3w!passw"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestNew_ResetCodeVerifiedBeforeNewPassword(t *testing.T) {
	s, dep := newStack(t, "modules:\n  account:\n    store: memory\n    delivery: mail\n")
	require.NoError(t, New(dep))
	s.registerAndLogin(t)

	code, _ := s.post(t, "/api/v1/account/otp/send", `{"identity":"alice@x.com","purpose":"reset"}`)
	require.Equal(t, http.StatusOK, code)
	resetCode := s.lastCode(t, 2)

	code, _ = s.post(t, "/api/v1/account/otp/confirm", `{"identity":"alice@x.com","purpose":"reset","code":"`+resetCode+`"}`)
	require.Equal(t, http.StatusOK, code)

	reset := `{"identity":"alice@x.com","code":"` + resetCode + `","new_password":"N3w!passw","password_confirmation":"N3w!passw"}`
	code, _ = s.post(t, "/api/v1/account/password/reset", reset)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.post(t, "/api/v1/account/password/reset", reset)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.post(t, "/api/v1/account/login", `{"identity":"alice@x.com","password":"N3w!passw"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestNew_BrokerDeliveryThroughNotification(t *testing.T) {
	s, dep := newStack(t, "modules:\n  account:\n    store: memory\n    delivery: broker\n    topic:\n      otp_issued: otp.e2e\n")
	bus := messaging.NewMemory()
	t.Cleanup(func() { _ = bus.Close() })
	dep.Messaging = bus
	require.NoError(t, New(dep))

	ctx, cancel := context.WithCancel(context.Background())
	routine := goroutine.NewManager(2)
	require.NoError(t, notification.New(ctx, notification.Dependency{
		Messaging:  bus,
		Config:     dep.Config,
		Instrument: dep.Instrument,
		Clock:      dep.Clock,
		Goroutine:  routine,
		Validator:  dep.Validator,
		Mail:       s.outbox,
	}))
	require.Eventually(t, func() bool { return bus.Groups("otp.e2e") == 1 }, time.Second, 5*time.Millisecond)

	s.registerAndLogin(t)

	cancel()
	assert.NoError(t, routine.Wait())
}

func TestNew_Selection(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "postgres without pool", yaml: "modules:\n  account:\n    store: postgres\n", wantErr: ErrMissingConn},
		{name: "redis without client", yaml: "modules:\n  account:\n    store: memory\n    challenge_store: redis\n", wantErr: ErrMissingConn},
		{name: "unknown store", yaml: "modules:\n  account:\n    store: mongo\n", wantErr: ErrUnknownStore},
		{name: "unknown challenge store", yaml: "modules:\n  account:\n    store: memory\n    challenge_store: etcd\n", wantErr: ErrUnknownStore},
		{name: "broker without bus", yaml: "modules:\n  account:\n    store: memory\n    delivery: broker\n", wantErr: ErrMissingConn},
		{name: "unknown delivery", yaml: "modules:\n  account:\n    store: memory\n    delivery: sms\n", wantErr: ErrUnknownDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dep := newStack(t, tt.yaml)

			err := New(dep)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
