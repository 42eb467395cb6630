package valueobject

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

func TestParseSpecialties_RejectsUnknownAndDeduplicates(t *testing.T) {
	got, err := ParseSpecialties([]string{"dj", "camera_operator", "dj"})
	require.NoError(t, err)
	assert.Equal(t, []Specialty{SpecialtyDJ, SpecialtyCameraOperator}, got)

	_, err = ParseSpecialties([]string{"dj", "astronaut"})
	assert.True(t, apperror.IsValidation(err))
}

func TestCatalog_LabelsAndMatching(t *testing.T) {
	assert.Len(t, All(), 16)

	label, ok := Label(SpecialtyAudioEngineer)
	assert.True(t, ok)
	assert.Equal(t, "Técnico de Áudio", label)

	_, ok = Label("unknown")
	assert.False(t, ok)

	assert.True(t, MatchLabel(SpecialtyAudioEngineer, "ÁUDIO"))
	assert.True(t, MatchLabel(SpecialtyDronePilot, "drone"))
	assert.False(t, MatchLabel(SpecialtyDJ, "câmera"))
	assert.True(t, MatchLabel(SpecialtyDJ, "  "))

	// All отдаёт копию
	all := All()
	all[0].Label = "changed"
	assert.Equal(t, "Técnico de Áudio", All()[0].Label)
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusInProgress))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))
	assert.True(t, BookingStatusInProgress.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusCompleted.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusCompleted))
	assert.False(t, BookingStatusInProgress.CanTransitionTo(BookingStatusConfirmed))
}

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(1499.999, "")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, m.Amount)
	assert.Equal(t, CurrencyBRL, m.Currency)

	m, err = NewMoney(MaxAmount, CurrencyBRL)
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, m.Amount)

	for _, bad := range []float64{0, -10, 0.004, 0.001, 1e10, math.NaN(), math.Inf(1)} {
		_, err := NewMoney(bad, CurrencyBRL)
		assert.True(t, apperror.IsValidation(err), "amount %v", bad)
	}
}

func TestPriceRange(t *testing.T) {
	lo, hi := 500.0, 1000.0
	r, err := NewPriceRange(&lo, &hi)
	require.NoError(t, err)

	in, out := 750.0, 1200.0
	assert.True(t, r.Contains(&in))
	assert.False(t, r.Contains(&out))
	assert.False(t, r.Contains(nil))
	assert.True(t, PriceRange{}.Contains(nil))

	_, err = NewPriceRange(&hi, &lo)
	assert.Error(t, err)
}
