package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		db := new(MockPinger)
		db.On("PingContext", mock.Anything).Return(nil)
		r := gin.New()
		r.GET("/health", NewSystemHandler(db).Health)

		w := serve(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "up", data["database"])
	})

	t.Run("database down", func(t *testing.T) {
		db := new(MockPinger)
		db.On("PingContext", mock.Anything).Return(errors.New("connection refused"))
		r := gin.New()
		r.GET("/health", NewSystemHandler(db).Health)

		w := serve(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Database unavailable", resp.Error)
		assert.Equal(t, "degraded", resp.Data.(map[string]any)["status"])
	})
}
