package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
)

func TestConfirmThenComplete(t *testing.T) {
	f := newFixture()
	ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusBooked)
	ctx := context.Background()

	confirmed, err := NewConfirmAppointment(f.repo, nil).Execute(ctx, f.est.ID, 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)

	completed, err := NewCompleteAppointment(f.repo, nil).Execute(ctx, f.est.ID, 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// histórico: booked→confirmed, confirmed→completed
	events := f.repo.state().events
	require.Len(t, events, 2)
	assert.Equal(t, string(domain.StatusBooked), events[0].FromStatus)
	assert.Equal(t, string(domain.StatusConfirmed), events[0].ToStatus)
	assert.Equal(t, string(domain.StatusConfirmed), events[1].FromStatus)
	assert.Equal(t, string(domain.StatusCompleted), events[1].ToStatus)
}

func TestCompleteWithoutConfirm(t *testing.T) {
	f := newFixture()
	ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusBooked)

	_, err := NewCompleteAppointment(f.repo, nil).Execute(context.Background(), f.est.ID, 1, ap.ID)

	assert.Equal(t, httperr.CodeInvalidTransition, httperr.BusinessCode(err))
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture()
	ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusBooked)
	ctx := context.Background()

	canceled, err := NewCancelAppointment(f.repo, nil, nil, nil).Execute(ctx, f.est.ID, 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceled), canceled.Status)

	slots, err := availabilityUC(f).Execute(ctx, availabilityInput(f))
	require.NoError(t, err)
	assert.Contains(t, slotStarts(slots), "10:00")
}

func TestCancelTerminalRejected(t *testing.T) {
	f := newFixture()
	ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusCompleted)

	_, err := NewCancelAppointment(f.repo, nil, nil, nil).Execute(context.Background(), f.est.ID, 1, ap.ID)

	assert.Equal(t, httperr.CodeTerminalAppointment, httperr.BusinessCode(err))
}

func TestNoShow(t *testing.T) {
	f := newFixture()
	ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusConfirmed)

	got, err := NewMarkNoShow(f.repo, nil).Execute(context.Background(), f.est.ID, 1, ap.ID)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), got.Status)
}

// Duas transições terminais disputando o mesmo agendamento: a transição
// roda sob lock, então a segunda precisa enxergar o terminal da primeira
// e falhar — nunca sobrescrever.
func TestConcurrentTerminalTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cancelUC := NewCancelAppointment(f.repo, nil, nil, nil)
	completeUC := NewCompleteAppointment(f.repo, nil)

	for i := 0; i < 50; i++ {
		ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusConfirmed)

		errs := make(chan error, 2)
		go func() {
			_, err := cancelUC.Execute(ctx, f.est.ID, 1, ap.ID)
			errs <- err
		}()
		go func() {
			_, err := completeUC.Execute(ctx, f.est.ID, 2, ap.ID)
			errs <- err
		}()

		var failures int
		for j := 0; j < 2; j++ {
			if err := <-errs; err != nil {
				failures++
				assert.Equal(t, httperr.CodeTerminalAppointment, httperr.BusinessCode(err))
			}
		}
		require.Equal(t, 1, failures, "exatamente uma transição deve vencer")

		final := f.repo.state().appointments[ap.ID].Status
		assert.Contains(t,
			[]string{string(domain.StatusCanceled), string(domain.StatusCompleted)},
			final,
		)
		if final == string(domain.StatusCanceled) {
			assert.NotNil(t, f.repo.state().appointments[ap.ID].CanceledAt)
		} else {
			assert.NotNil(t, f.repo.state().appointments[ap.ID].CompletedAt)
		}
	}
}

func TestStatusChangeAcrossEstablishments(t *testing.T) {
	f := newFixture()
	ap := f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusBooked)

	// outro estabelecimento não enxerga o agendamento
	other := *f.est
	other.ID = 99
	f.repo.state().establishments[other.ID] = &other

	_, err := NewCancelAppointment(f.repo, nil, nil, nil).Execute(context.Background(), other.ID, 1, ap.ID)

	assert.Equal(t, "appointment_not_found", httperr.BusinessCode(err))
}
