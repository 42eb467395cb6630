package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
)

// ErrorHandler отвечает за ошибки, добавленные через c.Error, если хэндлер сам ничего не записал.
// Коды и статусы берутся из AppError; прочие ошибки маскируются response.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}
