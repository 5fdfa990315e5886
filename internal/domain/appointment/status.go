package appointment

import "github.com/agendly-app/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
	StatusCanceled  Status = "canceled"
)

// transições permitidas; estados terminais não aparecem como chave
var transitions = map[Status][]Status{
	StatusBooked:    {StatusConfirmed, StatusCanceled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCanceled, StatusNoShow},
}

// IsTerminal: completed/canceled/no_show nunca revertem.
func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// Occupies responde se o status ocupa a agenda do profissional para fins
// de exclusão de horários.
func Occupies(s Status) bool {
	return s == StatusBooked || s == StatusConfirmed
}

// CanTransition valida a máquina de estados.
func CanTransition(from, to Status) error {
	if IsTerminal(from) {
		return httperr.ErrBusiness(httperr.CodeTerminalAppointment)
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

// CanReschedule: reagendar mexe em horário, não em status, e só é
// permitido em agendamento não terminal.
func CanReschedule(current Status) error {
	if IsTerminal(current) {
		return httperr.ErrBusiness(httperr.CodeTerminalAppointment)
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
