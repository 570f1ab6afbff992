package http

import (
	"github.com/sirupsen/logrus"

	rl "github.com/rogerio-castellano/steel-quoter/internal/http/rate_limiter"
)

var (
	requestLog     logrus.FieldLogger
	rateLimited    bool
	trustProxy     bool
	allowedOrigins = []string{"http://localhost:5173"}
)

// SetRequestLogger enables per-request logging.
func SetRequestLogger(l logrus.FieldLogger) {
	requestLog = l
}

// SetRateLimit enables per-IP limiting; a non-positive rps disables it.
func SetRateLimit(rps float64, burst int) {
	rateLimited = rps > 0
	if rateLimited {
		rl.Configure(rps, burst)
	}
}

// SetTrustProxy makes client addresses come from X-Forwarded-For/X-Real-IP.
// Enable only behind a proxy that overwrites those headers.
func SetTrustProxy(trust bool) {
	trustProxy = trust
}

func SetAllowedOrigins(origins []string) {
	allowedOrigins = origins
}
