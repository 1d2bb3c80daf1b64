package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/bazaar/internal/notification/usecase"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	got []usecase.ConsumeOTPIssuedInput
	err error
}

func (f *fakeUsecase) ConsumeOTPIssued(_ context.Context, in usecase.ConsumeOTPIssuedInput) error {
	f.got = append(f.got, in)
	return f.err
}

func TestMQHandler_OTPIssued(t *testing.T) {
	body := []byte(`{"identity":"a@x.com","display_name":"A","purpose":"reset","code":"654321","expires_at":1777885500}`)

	tests := []struct {
		name    string
		body    []byte
		ucErr   error
		wantErr bool
		wantUC  int
	}{
		{name: "forwards the event", body: body, wantUC: 1},
		{name: "malformed body is acked", body: []byte("{"), wantUC: 0},
		{name: "validation failure is acked", body: body, ucErr: goerror.NewInvalidInput(errors.New("bad")), wantUC: 1},
		{name: "server failure is redelivered", body: body, ucErr: goerror.NewServer(errors.New("smtp")), wantErr: true, wantUC: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{err: tt.ucErr}
			h := &MQHandler{uc: uc, ins: instrument.NewNoop()}

			err := h.OTPIssued(context.Background(), messaging.Message{Body: tt.body})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.Len(t, uc.got, tt.wantUC)
			if tt.wantUC == 1 {
				assert.Equal(t, usecase.ConsumeOTPIssuedInput{
					Identity:    "a@x.com",
					DisplayName: "A",
					Purpose:     "reset",
					Code:        "654321",
					ExpiresAt:   time.Unix(1777885500, 0).UTC(),
				}, uc.got[0])
			}
		})
	}
}
