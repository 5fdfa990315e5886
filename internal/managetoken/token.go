package managetoken

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
)

// Issue gera o valor em claro (vai para o e-mail do cliente) e o registro
// persistível com o hash. O valor em claro nunca é armazenado.
func Issue(appointmentID uint, ttl time.Duration, now time.Time) (string, *models.ManageToken) {
	plain := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")

	return plain, &models.ManageToken{
		AppointmentID: appointmentID,
		TokenHash:     Hash(plain),
		ExpiresAt:     now.Add(ttl),
	}
}

func Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Validate rejeita token expirado ou já usado, com erros distinguíveis.
func Validate(tok *models.ManageToken, now time.Time) error {
	if tok == nil {
		return httperr.ErrBusiness(httperr.CodeTokenInvalid)
	}
	if tok.UsedAt != nil {
		return httperr.ErrBusiness(httperr.CodeTokenAlreadyUsed)
	}
	if now.After(tok.ExpiresAt) {
		return httperr.ErrBusiness(httperr.CodeTokenExpired)
	}
	return nil
}
