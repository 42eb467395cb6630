package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var errDate = errors.New("дата должна быть в формате YYYY-MM-DD")

// ParseDate разбирает YYYY-MM-DD; пустая строка даёт nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, errDate
	}
	return &d, nil
}

func MustDate(s string) (time.Time, error) {
	d, err := ParseDate(&s)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, errDate
	}
	return *d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

func ParseUUIDs(uuidStrs []string) ([]uuid.UUID, error) {
	uuids := make([]uuid.UUID, 0, len(uuidStrs))
	for _, str := range uuidStrs {
		id, err := uuid.Parse(str)
		if err != nil {
			return nil, err
		}
		uuids = append(uuids, id)
	}
	return uuids, nil
}

// mapSlice применяет fn к каждому элементу и никогда не возвращает nil.
func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
