package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingWithConfig_LabelsRequestContext(t *testing.T) {
	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	labels := map[string]string{}
	router.POST("/api/v1/cart", func(c *gin.Context) {
		for _, key := range []string{ProfilingLabelMethod, ProfilingLabelRoute, ProfilingLabelController, ProfilingLabelAction} {
			if v, ok := pprof.Label(c.Request.Context(), key); ok {
				labels[key] = v
			}
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cart?action=buy_now", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		ProfilingLabelMethod:     "POST",
		ProfilingLabelRoute:      "/api/v1/cart",
		ProfilingLabelController: "cart",
		ProfilingLabelAction:     "buy_now",
	}, labels)
}

func TestProfilingWithConfig_IgnoresOddActions(t *testing.T) {
	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var hasAction bool
	router.GET("/api/v1/messages", func(c *gin.Context) {
		_, hasAction = pprof.Label(c.Request.Context(), ProfilingLabelAction)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages?action=DROP%20TABLE", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hasAction)
}

func TestProfilingWithConfig_SkipsAndDisabled(t *testing.T) {
	for name, cfg := range map[string]ProfilingConfig{
		"skip path": DefaultProfilingConfig(),
		"disabled":  {Enabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			router := gin.New()
			router.Use(ProfilingWithConfig(cfg))

			var labelled bool
			router.GET("/api/v1/health", func(c *gin.Context) {
				_, labelled = pprof.Label(c.Request.Context(), ProfilingLabelRoute)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		})
	}
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/products": "products",
		"/api/v2/cart":     "cart",
		"/metrics":         "metrics",
		"/uploads/:name":   "uploads",
		"":                 "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}
