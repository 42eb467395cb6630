package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

// Receivable: внешний платёж, который фрилансер ведёт сам, вне бронирований платформы.
type Receivable struct {
	ID           uuid.UUID
	FreelancerID uuid.UUID
	ServiceTitle string
	ClientName   string
	ServiceDate  time.Time
	Amount       float64
	DueDate      *time.Time
	Status       valueobject.ReceivableStatus
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ReceivableFields struct {
	ServiceTitle string
	ClientName   string
	ServiceDate  time.Time
	Amount       float64
	DueDate      *time.Time
	Notes        string
}

func (f ReceivableFields) validate() (ReceivableFields, error) {
	f.ServiceTitle = strings.TrimSpace(f.ServiceTitle)
	if f.ServiceTitle == "" {
		return f, apperror.Validation("название услуги обязательно")
	}
	f.ClientName = strings.TrimSpace(f.ClientName)
	if f.ClientName == "" {
		return f, apperror.Validation("имя клиента обязательно")
	}
	if f.ServiceDate.IsZero() {
		return f, apperror.Validation("дата услуги обязательна")
	}
	amount, err := valueobject.NewMoney(f.Amount, valueobject.CurrencyBRL)
	if err != nil {
		return f, err
	}
	f.Amount = amount.Amount
	f.Notes = strings.TrimSpace(f.Notes)
	return f, nil
}

func NewReceivable(owner Actor, fields ReceivableFields) (*Receivable, error) {
	if !owner.IsFreelancer() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "учёт платежей доступен только фрилансерам")
	}
	f, err := fields.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Receivable{
		ID:           uuid.New(),
		FreelancerID: owner.ID,
		Status:       valueobject.ReceivableStatusPending,
		CreatedAt:    now,
	}
	r.assign(f, now)
	return r, nil
}

func (r *Receivable) assign(f ReceivableFields, now time.Time) {
	r.ServiceTitle = f.ServiceTitle
	r.ClientName = f.ClientName
	r.ServiceDate = f.ServiceDate
	r.Amount = f.Amount
	r.DueDate = f.DueDate
	r.Notes = nil
	if f.Notes != "" {
		notes := f.Notes
		r.Notes = &notes
	}
	r.UpdatedAt = now
}

func (r *Receivable) IsOwnedBy(userID uuid.UUID) bool {
	return r.FreelancerID == userID
}

func (r *Receivable) Update(fields ReceivableFields) error {
	f, err := fields.validate()
	if err != nil {
		return err
	}
	r.assign(f, time.Now())
	return nil
}

// SetStatus допускает переход между любыми статусами.
func (r *Receivable) SetStatus(status valueobject.ReceivableStatus) error {
	if !status.IsValid() {
		return apperror.Validation("некорректный статус платежа")
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

// IsOverdue: ожидаемый платёж со сроком раньше текущего дня.
func (r *Receivable) IsOverdue(today time.Time) bool {
	if r.Status != valueobject.ReceivableStatusPending || r.DueDate == nil {
		return false
	}
	y, m, d := today.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return r.DueDate.Before(startOfDay)
}

// ReceivableSummary: итоги по статусам для дашборда фрилансера.
type ReceivableSummary struct {
	Totals map[valueobject.ReceivableStatus]float64
	Counts map[valueobject.ReceivableStatus]int
	Count  int
}

func SummarizeReceivables(items []*Receivable) ReceivableSummary {
	s := ReceivableSummary{
		Totals: make(map[valueobject.ReceivableStatus]float64, len(valueobject.ReceivableStatuses)),
		Counts: make(map[valueobject.ReceivableStatus]int, len(valueobject.ReceivableStatuses)),
	}
	for _, st := range valueobject.ReceivableStatuses {
		s.Totals[st] = 0
		s.Counts[st] = 0
	}
	for _, r := range items {
		s.Totals[r.Status] += r.Amount
		s.Counts[r.Status]++
		s.Count++
	}
	return s
}
