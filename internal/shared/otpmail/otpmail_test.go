package otpmail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		wantSubject string
		contains    []string
		absent      []string
		wantErr     error
	}{
		{
			name:        "register",
			in:          Input{To: "alice@x.com", DisplayName: "Alice", Purpose: "register", Code: "123456", Validity: 5 * time.Minute},
			wantSubject: "Your verification code",
			contains:    []string{"Hi Alice", "<strong>123456</strong>", "expire in 5 minutes"},
			absent:      []string{"reset your password"},
		},
		{
			name:        "reset rounds validity up",
			in:          Input{To: "bob@x.com", Purpose: "reset", Code: "000042", Validity: 4*time.Minute + time.Second},
			wantSubject: "Your password reset code",
			contains:    []string{"Hi there", "expire in 5 minutes", "reset your password"},
		},
		{
			name:        "display name is escaped",
			in:          Input{To: "c@x.com", DisplayName: "<b>C</b>", Purpose: "register", Code: "111111", Validity: time.Minute},
			wantSubject: "Your verification code",
			contains:    []string{"&lt;b&gt;C&lt;/b&gt;", "expire in 1 minute."},
		},
		{
			name:    "missing code",
			in:      Input{To: "d@x.com", Purpose: "register"},
			wantErr: ErrNoCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Compose(tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.in.To}, msg.To)
			assert.Equal(t, tt.wantSubject, msg.Subject)
			for _, s := range tt.contains {
				assert.Contains(t, msg.HTMLBody, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, msg.HTMLBody, s)
			}
		})
	}
}
