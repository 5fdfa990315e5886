package managetoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agendly-app/booking-api/internal/httperr"
)

func TestIssueStoresOnlyHash(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	plain, tok := Issue(42, 72*time.Hour, now)

	assert.NotEmpty(t, plain)
	assert.NotEqual(t, plain, tok.TokenHash)
	assert.Equal(t, Hash(plain), tok.TokenHash)
	assert.Equal(t, uint(42), tok.AppointmentID)
	assert.Equal(t, now.Add(72*time.Hour), tok.ExpiresAt)
	assert.Nil(t, tok.UsedAt)
}

func TestIssueUniquePerCall(t *testing.T) {
	now := time.Now()

	a, _ := Issue(1, time.Hour, now)
	b, _ := Issue(1, time.Hour, now)

	assert.NotEqual(t, a, b)
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Hour)

	_, valid := Issue(1, 72*time.Hour, now)

	expired := *valid
	expired.ExpiresAt = now.Add(-time.Minute)

	alreadyUsed := *valid
	alreadyUsed.UsedAt = &used

	assert.NoError(t, Validate(valid, now))
	assert.Equal(t, httperr.CodeTokenInvalid, httperr.BusinessCode(Validate(nil, now)))
	assert.Equal(t, httperr.CodeTokenExpired, httperr.BusinessCode(Validate(&expired, now)))
	assert.Equal(t, httperr.CodeTokenAlreadyUsed, httperr.BusinessCode(Validate(&alreadyUsed, now)))
}

// já usado e expirado ao mesmo tempo: uso único fala mais alto
func TestValidateUsedBeatsExpired(t *testing.T) {
	now := time.Now()
	used := now.Add(-2 * time.Hour)

	_, tok := Issue(1, time.Hour, now.Add(-3*time.Hour))
	tok.UsedAt = &used

	assert.Equal(t, httperr.CodeTokenAlreadyUsed, httperr.BusinessCode(Validate(tok, now)))
}
