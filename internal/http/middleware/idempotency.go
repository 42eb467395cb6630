package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/idempotency"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
)

const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency отклоняет повтор запроса с тем же Idempotency-Key от того же actor на тот же маршрут.
// Если сценарий завершился ошибкой, ключ освобождается и повтор допускается.
// Ставится после AuthMiddleware.
func Idempotency(store repository.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	releaser, _ := store.(idempotency.Releaser)

	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyHeader)
		if header == "" {
			c.Next()
			return
		}
		if len(header) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key слишком длинный")
			return
		}

		actor, ok := ActorFrom(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		key := idempotency.Key(actor.ID, c.Request.Method+" "+c.FullPath(), header)
		reserved, err := store.Reserve(c.Request.Context(), key, ttl)
		if err != nil {
			// хранилище недоступно: пропускаем, защитит статус-гард в БД
			logger.WithComponent("idempotency").WithError(err).Warn("не удалось зарезервировать ключ")
			c.Next()
			return
		}
		if !reserved {
			response.Conflict(c, "запрос с этим Idempotency-Key уже выполнен")
			return
		}

		c.Next()

		if releaser != nil && c.Writer.Status() >= http.StatusBadRequest {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaser.Release(ctx, key); err != nil {
				logger.WithComponent("idempotency").WithError(err).Warn("не удалось освободить ключ")
			}
		}
	}
}
