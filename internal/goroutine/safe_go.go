package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/freelaav-backend/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в фоновых горутинах
type RecoveryHandler struct {
	logger Logger
	// onPanic вызывается после логирования, например для метрик
	onPanic func(recovered any)
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// OnPanic задаёт колбэк, который получает значение recover().
func (rh *RecoveryHandler) OnPanic(fn func(recovered any)) *RecoveryHandler {
	rh.onPanic = fn
	return rh
}

func (rh *RecoveryHandler) recover(where string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic in %s: %v\nstack trace:\n%s", where, r, debug.Stack())
		if rh.onPanic != nil {
			rh.onPanic(r)
		}
	}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recover("goroutine")
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recover("goroutine (with context)")
		fn(ctx)
	}()
}

// Run выполняет fn в текущей горутине; panic логируется и не выходит наружу.
func (rh *RecoveryHandler) Run(where string, fn func()) {
	defer rh.recover(where)
	fn()
}

// logrusLogger берёт logger.Log при каждом вызове, т.к. Init пересоздаёт логгер.
type logrusLogger struct{}

func (logrusLogger) Errorf(format string, args ...interface{}) {
	logger.WithComponent("goroutine").Errorf(format, args...)
}

// DefaultRecoveryHandler - глобальный обработчик, пишет в logrus
var DefaultRecoveryHandler = NewRecoveryHandler(logrusLogger{})

func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
