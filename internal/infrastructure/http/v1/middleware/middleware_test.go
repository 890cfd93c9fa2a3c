package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pricetable/internal/core/apperror"
	"pricetable/pkg/logger"
)

func newTestEngine(routes func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.NewNop()), ErrorHandler())
	routes(r)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecovery_RendersInternalError(t *testing.T) {
	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/panic", func(*gin.Context) { panic("boom") })
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeInternal)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestErrorHandler(t *testing.T) {
	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/app", func(c *gin.Context) {
			_ = c.Error(apperror.NewConflict("nothing to retry"))
		})
		r.GET("/plain", func(c *gin.Context) {
			_ = c.Error(errors.New("db exploded"))
		})
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "nothing to retry")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db exploded")
}

func TestTrace_EchoesRequestID(t *testing.T) {
	r := newTestEngine(func(r *gin.Engine) {
		r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	rec := serve(r, req)

	assert.Equal(t, "req-7", rec.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestErrorHandler_LogsThroughRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.FromZap(zap.New(core))), ErrorHandler())
	r.GET("/bad", func(c *gin.Context) {
		_ = c.Error(apperror.NewInvalidInput("page", -1))
	})

	req := httptest.NewRequest(http.MethodGet, "/bad", nil)
	req.Header.Set(HeaderRequestID, "req-9")
	rec := serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rejected := logs.FilterMessage("request rejected").All()
	require.Len(t, rejected, 1)
	fields := rejected[0].ContextMap()
	assert.Equal(t, apperror.CodeInvalidInput, fields["code"])
	assert.Equal(t, "req-9", fields["request_id"])
}
