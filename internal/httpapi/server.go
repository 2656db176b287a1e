// Package httpapi exposes quotes, arbitrage simulations and the metadata
// registry over HTTP using gin and a {code, message, data, meta} envelope.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apm"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const (
	tracerName  = "github.com/futarchy-fi/futarchy-orchestrator/internal/httpapi"
	traceHeader = "X-Trace-Id"
)

// Registrar mounts a handler group on the router.
type Registrar interface {
	Register(r gin.IRouter)
}

// NewEngine builds the router with recovery, tracing and request logging.
// A non-nil metrics handler is mounted at /metrics.
func NewEngine(log logger.LoggerInterface, metrics http.Handler, handlers ...Registrar) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestMiddleware(apm.NewTracer(tracerName), log))

	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics))
	}
	for _, h := range handlers {
		h.Register(engine)
	}
	return engine
}

func requestMiddleware(tracer apm.Tracer, log logger.LoggerInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := tracer.StartSpanFromContext(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		if id := span.TraceID(); id != "" {
			c.Header(traceHeader, id)
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", status),
		)
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if err := c.Errors.Last(); err != nil {
			kv = append(kv, apperror.LogFields(err.Err)...)
			if status >= http.StatusInternalServerError {
				span.NoticeError(err.Err)
				log.Error(ctx, "request failed", kv...)
				return
			}
		}
		log.Debug(ctx, "request", kv...)
	}
}

// Server runs the engine on a port until stopped.
type Server struct {
	server *http.Server
	logger logger.LoggerInterface
}

// NewServer wraps handler in an http.Server listening on port.
func NewServer(port int, handler http.Handler, log logger.LoggerInterface) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "api server stopped", "addr", s.server.Addr, "error", err)
		}
	}()
}

// Stop drains in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
