package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

func acceptedOffer(t *testing.T) (*Offer, Actor, Actor) {
	t.Helper()
	o, client, freelancer := newTestOffer(t)
	require.NoError(t, o.Accept(freelancer))
	return o, client, freelancer
}

func TestNewBookingFromOffer_DefaultsFromOffer(t *testing.T) {
	o, client, _ := acceptedOffer(t)

	b, err := NewBookingFromOffer(o, client, BookingTerms{})
	require.NoError(t, err)
	assert.Equal(t, valueobject.BookingStatusConfirmed, b.Status)
	assert.Equal(t, o.ID, b.OfferID)
	assert.Equal(t, o.Location, b.Location)
	assert.Equal(t, o.EventDate, b.EventDate)
	assert.Equal(t, 1500.0, b.TotalAmount)
	assert.Zero(t, b.DepositAmount)
}

func TestNewBookingFromOffer_Eligibility(t *testing.T) {
	pending, client, freelancer := newTestOffer(t)

	_, err := NewBookingFromOffer(pending, client, BookingTerms{})
	assert.True(t, apperror.IsStateConflict(err))

	o, client, freelancer := acceptedOffer(t)
	_, err = NewBookingFromOffer(o, freelancer, BookingTerms{})
	assert.True(t, apperror.IsForbidden(err))

	total := 1000.0
	_, err = NewBookingFromOffer(o, client, BookingTerms{TotalAmount: &total, DepositAmount: 1200})
	assert.True(t, apperror.IsValidation(err))

	dust := 0.002
	_, err = NewBookingFromOffer(o, client, BookingTerms{TotalAmount: &dust})
	assert.True(t, apperror.IsValidation(err))
}

func TestBooking_Lifecycle(t *testing.T) {
	o, client, freelancer := acceptedOffer(t)
	b, err := NewBookingFromOffer(o, client, BookingTerms{})
	require.NoError(t, err)

	require.NoError(t, b.Apply(freelancer, BookingActionStart))
	assert.Equal(t, valueobject.BookingStatusInProgress, b.Status)

	assert.True(t, apperror.IsStateConflict(b.Start(client)))
	assert.True(t, apperror.IsForbidden(b.Complete(freelancer)))

	require.NoError(t, b.Complete(client))
	assert.Equal(t, valueobject.BookingStatusCompleted, b.Status)
	require.NotNil(t, b.CompletedAt)

	err = b.Cancel(client)
	require.True(t, apperror.IsStateConflict(err))
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"confirmed", "in_progress"}, appErr.Expected)
	assert.Equal(t, "completed", appErr.Actual)

	assert.True(t, apperror.IsStateConflict(b.Complete(client)))
}

func TestBooking_CancelFromConfirmed(t *testing.T) {
	o, client, _ := acceptedOffer(t)
	b, err := NewBookingFromOffer(o, client, BookingTerms{})
	require.NoError(t, err)

	outsider := Actor{ID: uuid.New(), Role: valueobject.RoleClient}
	assert.True(t, apperror.IsForbidden(b.Cancel(outsider)))

	require.NoError(t, b.Cancel(client))
	require.NotNil(t, b.CancelledAt)
	assert.True(t, apperror.IsStateConflict(b.Complete(client)))
}

func TestNewReview_Rules(t *testing.T) {
	o, client, freelancer := acceptedOffer(t)
	b, err := NewBookingFromOffer(o, client, BookingTerms{})
	require.NoError(t, err)

	_, err = NewReview(b, client, 5, "")
	assert.True(t, apperror.IsStateConflict(err))

	require.NoError(t, b.Complete(client))

	_, err = NewReview(b, client, 6, "")
	assert.True(t, apperror.IsValidation(err))

	outsider := Actor{ID: uuid.New(), Role: valueobject.RoleClient}
	_, err = NewReview(b, outsider, 5, "")
	assert.True(t, apperror.IsForbidden(err))

	r, err := NewReview(b, client, 5, " Excelente ")
	require.NoError(t, err)
	assert.Equal(t, freelancer.ID, r.ReceiverID)
	require.NotNil(t, r.Comment)
	assert.Equal(t, "Excelente", *r.Comment)

	back, err := NewReview(b, freelancer, 4, "")
	require.NoError(t, err)
	assert.Equal(t, client.ID, back.ReceiverID)
	assert.Nil(t, back.Comment)
}

func TestMeanRating(t *testing.T) {
	assert.Equal(t, RatingAggregate{}, MeanRating(nil))
	agg := MeanRating([]int{5, 4, 3})
	assert.InDelta(t, 4.0, agg.Average, 1e-9)
	assert.Equal(t, 3, agg.Count)
}

func TestComputeProfileStrength(t *testing.T) {
	rate := 200.0
	avatar := "https://cdn.freela.av/a.png"
	p := &Profile{City: "São Paulo", State: "SP", AvatarURL: &avatar}
	f := &FreelancerProfile{
		Bio:             "Operador de câmera com dez anos de experiência em eventos corporativos, shows e casamentos.",
		HourlyRate:      &rate,
		YearsExperience: 10,
		Equipment:       "Sony FX6",
		Specialties:     []valueobject.Specialty{valueobject.SpecialtyCameraOperator},
	}
	assert.Equal(t, 100, ComputeProfileStrength(p, f, 3))

	assert.Equal(t, 0, ComputeProfileStrength(&Profile{}, &FreelancerProfile{}, 0))
	assert.Equal(t, 25, ComputeProfileStrength(&Profile{City: "Rio"}, &FreelancerProfile{Bio: "oi"}, 1))
}

func TestReceivable_OverdueAndSummary(t *testing.T) {
	owner := Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}
	yesterday := time.Now().AddDate(0, 0, -1)
	r, err := NewReceivable(owner, ReceivableFields{
		ServiceTitle: "Show",
		ClientName:   "Bar do Zé",
		ServiceDate:  yesterday,
		Amount:       300,
		DueDate:      &yesterday,
	})
	require.NoError(t, err)
	assert.True(t, r.IsOverdue(time.Now()))

	today := time.Now()
	r.DueDate = &today
	assert.False(t, r.IsOverdue(time.Now()))

	require.NoError(t, r.SetStatus(valueobject.ReceivableStatusReceived))
	require.NoError(t, r.SetStatus(valueobject.ReceivableStatusPending))
	assert.True(t, apperror.IsValidation(r.SetStatus("lost")))

	other := &Receivable{Status: valueobject.ReceivableStatusReceived, Amount: 200}
	s := SummarizeReceivables([]*Receivable{r, other})
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 300.0, s.Totals[valueobject.ReceivableStatusPending])
	assert.Equal(t, 200.0, s.Totals[valueobject.ReceivableStatusReceived])
	assert.Equal(t, 0, s.Counts[valueobject.ReceivableStatusOverdue])

	client := Actor{ID: uuid.New(), Role: valueobject.RoleClient}
	_, err = NewReceivable(client, ReceivableFields{ServiceTitle: "x", ClientName: "y", ServiceDate: today, Amount: 1})
	assert.True(t, apperror.IsForbidden(err))

	_, err = NewReceivable(owner, ReceivableFields{ServiceTitle: "x", ClientName: "y", ServiceDate: today, Amount: 0.003})
	assert.True(t, apperror.IsValidation(err))
}
