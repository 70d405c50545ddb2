package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func routerLimitado(cnt contador, l Limite) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitar(cnt, l))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func golpear(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Memoria(t *testing.T) {
	ahora := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cnt := newContadorMemoria()
	cnt.now = func() time.Time { return ahora }
	r := routerLimitado(cnt, Limite{Nombre: "test", Max: 2, Ventana: time.Minute, Mensaje: "basta"})

	assert.Equal(t, http.StatusOK, golpear(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, golpear(r, "10.0.0.1").Code)

	w := golpear(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "basta")

	// Other clients keep their own window.
	assert.Equal(t, http.StatusOK, golpear(r, "10.0.0.2").Code)

	ahora = ahora.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, golpear(r, "10.0.0.1").Code)
}

func TestContadorMemoria_Purga(t *testing.T) {
	ahora := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cnt := newContadorMemoria()
	cnt.now = func() time.Time { return ahora }

	_, _, _ = cnt.incrementar(context.Background(), "a", time.Second)
	ahora = ahora.Add(10 * time.Minute)
	_, _, _ = cnt.incrementar(context.Background(), "b", time.Second)

	assert.NotContains(t, cnt.ventana, "a")
	assert.Contains(t, cnt.ventana, "b")
}
