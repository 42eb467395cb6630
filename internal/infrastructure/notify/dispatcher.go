package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/goroutine"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/metrics"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const (
	DefaultQueueSize = 256
	// deliverTimeout ограничивает одну доставку в одном sink
	deliverTimeout = 10 * time.Second
	// drainTimeout даёт очереди дослаться при остановке
	drainTimeout = 5 * time.Second
)

// Sink: один канал доставки событий.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev entity.DomainEvent) error
}

// Dispatcher реализует outbox. Publish кладёт событие в ограниченную очередь, воркер раздаёт его по sink'ам.
// Ошибки доставки логируются и считаются, но никогда не возвращаются вызвавшему сценарию.
type Dispatcher struct {
	queue    chan entity.DomainEvent
	sinks    []Sink
	log      *logrus.Entry
	recovery *goroutine.RecoveryHandler
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
}

func NewDispatcher(queueSize int, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		queue:    make(chan entity.DomainEvent, queueSize),
		sinks:    sinks,
		log:      logger.WithComponent("notify"),
		recovery: goroutine.DefaultRecoveryHandler,
	}
}

// Publish не блокирует: при полной очереди событие отбрасывается.
func (d *Dispatcher) Publish(_ context.Context, ev entity.DomainEvent) {
	select {
	case d.queue <- ev:
	default:
		metrics.RecordDropped()
		d.log.WithFields(logrus.Fields{"event": ev.Type, "entity_id": ev.EntityID}).Warn("очередь уведомлений заполнена, событие отброшено")
	}
}

// Start запускает воркер. Повторный вызов без Stop ничего не делает.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	d.recovery.SafeGoWithContext(ctx, func(ctx context.Context) {
		defer d.wg.Done()
		d.loop(ctx)
	})
}

// Stop останавливает воркер, дослав уже принятые события.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
		d.wg.Wait()
	}
}

func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case ev := <-d.queue:
			d.dispatch(context.Background(), ev)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-d.queue:
			d.dispatch(ctx, ev)
		default:
			return
		}
	}
}

// dispatch отдаёт событие всем sink'ам по очереди; сбой одного не мешает остальным.
func (d *Dispatcher) dispatch(ctx context.Context, ev entity.DomainEvent) {
	for _, sink := range d.sinks {
		err := d.deliver(ctx, sink, ev)
		metrics.RecordDelivery(sink.Name(), metrics.Result(err))
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"sink":      sink.Name(),
				"event":     ev.Type,
				"entity_id": ev.EntityID,
			}).WithError(err).Warn("доставка уведомления не удалась")
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, ev entity.DomainEvent) (err error) {
	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	delivered := false
	d.recovery.Run("notify sink "+sink.Name(), func() {
		err = sink.Deliver(ctx, ev)
		delivered = true
	})
	if !delivered {
		err = fmt.Errorf("sink %s: panic", sink.Name())
	}
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNotificationDelivery, "доставка через "+sink.Name()+" не удалась")
	}
	return nil
}
