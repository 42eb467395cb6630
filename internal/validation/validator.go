package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

// Ограничения полей запросов, дублируют проверки доменных конструкторов.
const (
	MaxDisplayNameLength = 100
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxBioLength         = 1000
	MaxLocationLength    = 200
	MaxMessageLength     = 5000
	MaxCommentLength     = 2000
	MaxURLLength         = 500
)

var registerOnce sync.Once

// Register добавляет кастомные теги в валидатор gin. Вызывается один раз при сборке роутера.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("validation: движок gin не go-playground/validator")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn регистрирует теги specialty и receivable_status на переданном валидаторе.
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("specialty", isSpecialty); err != nil {
		return fmt.Errorf("validation: specialty: %w", err)
	}
	if err := v.RegisterValidation("receivable_status", isReceivableStatus); err != nil {
		return fmt.Errorf("validation: receivable_status: %w", err)
	}
	return nil
}

func isSpecialty(fl validator.FieldLevel) bool {
	return valueobject.Specialty(fl.Field().String()).IsValid()
}

func isReceivableStatus(fl validator.FieldLevel) bool {
	return valueobject.ReceivableStatus(fl.Field().String()).IsValid()
}

// Message переводит ошибку биндинга в сообщение для клиента.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "некорректные данные запроса"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + ": обязательное поле"
	case "specialty":
		return field + ": неизвестная специальность " + fmt.Sprint(fe.Value())
	case "receivable_status":
		return field + ": некорректный статус " + fmt.Sprint(fe.Value())
	case "max":
		return field + ": не более " + fe.Param()
	case "min":
		return field + ": не менее " + fe.Param()
	case "gt":
		return field + ": должно быть больше " + fe.Param()
	case "gte":
		return field + ": должно быть не меньше " + fe.Param()
	case "lte":
		return field + ": должно быть не больше " + fe.Param()
	case "email":
		return field + ": некорректный email"
	case "url":
		return field + ": некорректная ссылка"
	case "oneof":
		return field + ": допустимо одно из " + fe.Param()
	case "uuid":
		return field + ": должно быть UUID"
	}
	return field + ": некорректное значение"
}
