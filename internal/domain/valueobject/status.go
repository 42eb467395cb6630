package valueobject

import "github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleFreelancer
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.Validation("некорректная роль пользователя")
	}
	return r, nil
}

type OfferStatus string

const (
	OfferStatusPending         OfferStatus = "pending"
	OfferStatusAccepted        OfferStatus = "accepted"
	OfferStatusRejected        OfferStatus = "rejected"
	OfferStatusCounterProposed OfferStatus = "counter_proposed"
)

var OfferStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusCounterProposed,
	OfferStatusAccepted,
	OfferStatusRejected,
}

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected, OfferStatusCounterProposed:
		return true
	}
	return false
}

// IsTerminal: из accepted и rejected переходов нет.
func (s OfferStatus) IsTerminal() bool {
	return s == OfferStatusAccepted || s == OfferStatusRejected
}

func NewOfferStatus(status string) (OfferStatus, error) {
	s := OfferStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус предложения")
	}
	return s, nil
}

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// AllowedSources возвращает статусы, из которых допустим переход в s.
func (s BookingStatus) AllowedSources() []BookingStatus {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusInProgress: {BookingStatusConfirmed},
		BookingStatusCompleted:  {BookingStatusConfirmed, BookingStatusInProgress},
		BookingStatusCancelled:  {BookingStatusConfirmed, BookingStatusInProgress},
	}
	return transitions[s]
}

func (s BookingStatus) CanTransitionTo(newStatus BookingStatus) bool {
	for _, src := range newStatus.AllowedSources() {
		if src == s {
			return true
		}
	}
	return false
}

func NewBookingStatus(status string) (BookingStatus, error) {
	s := BookingStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус бронирования")
	}
	return s, nil
}

type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "pending"
	ReceivableStatusReceived  ReceivableStatus = "received"
	ReceivableStatusOverdue   ReceivableStatus = "overdue"
	ReceivableStatusCancelled ReceivableStatus = "cancelled"
)

var ReceivableStatuses = []ReceivableStatus{
	ReceivableStatusPending,
	ReceivableStatusReceived,
	ReceivableStatusOverdue,
	ReceivableStatusCancelled,
}

func (s ReceivableStatus) IsValid() bool {
	for _, known := range ReceivableStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func NewReceivableStatus(status string) (ReceivableStatus, error) {
	s := ReceivableStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус платежа")
	}
	return s, nil
}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

func (k MediaKind) IsValid() bool {
	return k == MediaKindImage || k == MediaKindVideo || k == MediaKindAudio
}

func NewMediaKind(kind string) (MediaKind, error) {
	k := MediaKind(kind)
	if !k.IsValid() {
		return "", apperror.Validation("тип медиа должен быть image, video или audio")
	}
	return k, nil
}
