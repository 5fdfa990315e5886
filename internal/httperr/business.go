package httperr

import "errors"

// Códigos de negócio distinguíveis pelo chamador (a UI explica cada um).
const (
	CodeSlotConflict        = "slot_conflict"
	CodeTokenInvalid        = "token_invalid"
	CodeTokenExpired        = "token_expired"
	CodeTokenAlreadyUsed    = "token_already_used"
	CodeTerminalAppointment = "terminal_appointment"
	CodeInvalidTransition   = "invalid_transition"
	CodeMinimumNotice       = "minimum_notice"
	CodeBookingDisabled     = "booking_disabled"
	CodeBeyondHorizon       = "beyond_horizon"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extrai o código, ou "" se não for erro de negócio.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
