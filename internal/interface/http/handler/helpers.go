package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/http/middleware"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/validation"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func currentActor(c *gin.Context) (entity.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
		return entity.Actor{}, false
	}
	return actor, true
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return false
	}
	return true
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// pageParams читает limit/offset и приводит их к допустимым границам.
func pageParams(c *gin.Context) (limit, offset int) {
	limit = parseIntQuery(c, "limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset = parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func optionalQuery(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok && v != "" {
		return &v
	}
	return nil
}
