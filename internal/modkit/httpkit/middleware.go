package httpkit

import (
	"net/http"
	"time"

	"oraflow/internal/platform/config"
	"oraflow/internal/platform/net/middleware"
)

// CommonStack is the baseline middleware for /api/v1
// ORA_API_TIMEOUT bounds a request, ORA_API_SLOW_MS marks slow ones in the access log,
// ORA_API_MAX_INFLIGHT throttles concurrent enrichment runs (0 = unlimited)
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	stack := middleware.Defaults(cfg.MayDuration("TIMEOUT", 120*time.Second))
	stack = append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: time.Duration(cfg.MayInt("SLOW_MS", 2000)) * time.Millisecond,
		}),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
		}),
	)
	if n := cfg.MayInt("MAX_INFLIGHT", 0); n > 0 {
		stack = append(stack, middleware.Throttle(n))
	}
	return stack
}
