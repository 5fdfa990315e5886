package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agendly-app/booking-api/internal/models"
)

func TestResolve(t *testing.T) {
	est := func(closed bool, open, close string) *models.BusinessHours {
		return &models.BusinessHours{Closed: closed, OpenTime: open, CloseTime: close}
	}
	prof := func(closed bool, start, end string) *models.ProfessionalHours {
		return &models.ProfessionalHours{Closed: closed, StartTime: start, EndTime: end}
	}

	tests := []struct {
		name string
		est  *models.BusinessHours
		prof *models.ProfessionalHours
		want DayHours
	}{
		{
			name: "sem linha do estabelecimento é fechado",
			est:  nil,
			prof: prof(false, "08:00", "12:00"),
			want: DayHours{Closed: true},
		},
		{
			name: "estabelecimento fechado ignora override do profissional",
			est:  est(true, "", ""),
			prof: prof(false, "08:00", "12:00"),
			want: DayHours{Closed: true},
		},
		{
			name: "sem override usa horário do estabelecimento",
			est:  est(false, "09:00", "18:00"),
			prof: nil,
			want: DayHours{Open: "09:00", Close: "18:00"},
		},
		{
			name: "override do profissional prevalece",
			est:  est(false, "09:00", "18:00"),
			prof: prof(false, "10:00", "15:00"),
			want: DayHours{Open: "10:00", Close: "15:00"},
		},
		{
			name: "profissional fechado no dia mesmo com estabelecimento aberto",
			est:  est(false, "09:00", "18:00"),
			prof: prof(true, "", ""),
			want: DayHours{Closed: true},
		},
		{
			name: "override incompleto cai no horário do estabelecimento",
			est:  est(false, "09:00", "18:00"),
			prof: prof(false, "10:00", ""),
			want: DayHours{Open: "09:00", Close: "18:00"},
		},
		{
			name: "estabelecimento sem horários é fechado",
			est:  est(false, "", ""),
			prof: nil,
			want: DayHours{Closed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.est, tt.prof))
		})
	}
}
