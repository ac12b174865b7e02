package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tteodorogustavo/athlos/internal/metrics"
	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const actorKey = "athlos.actor"

// AuthMiddleware resolves the bearer access token to the calling account.
func AuthMiddleware(auth AuthAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if rest, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			token = strings.TrimSpace(rest)
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(actorKey, user)
		c.Next()
	}
}

func actor(c *gin.Context) *models.User {
	return c.MustGet(actorKey).(*models.User)
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get(actorKey); ok {
			fields = append(fields, zap.Uint("user_id", v.(*models.User).ID))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			utils.Log.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			utils.Log.Warn("Request rejected", fields...)
		default:
			utils.Log.Debug("Request served", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.Log.Error("Panic while serving request",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Detail: msgInternal})
	})
}

// CORS allows the configured browser origins. "*" allows any.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Metrics records every request in the collector, labelled by route
// pattern. A panicking handler counts as a 500 and the panic is passed on
// to Recovery.
func Metrics(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Begin()
		start := time.Now()
		defer func() {
			done()
			status := c.Writer.Status()
			r := recover()
			if r != nil {
				status = http.StatusInternalServerError
			}
			m.Observe(c.Request.Method, c.FullPath(), status, time.Since(start))
			if r != nil {
				panic(r)
			}
		}()
		c.Next()
	}
}

// maxTrackedClients bounds the token buckets kept in memory. The least
// recently seen client loses its bucket first.
const maxTrackedClients = 10000

// ipLimiter hands out one token bucket per client address.
type ipLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func newIPLimiter(perMinute, size int) *ipLimiter {
	limiters, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		panic(err)
	}
	return &ipLimiter{
		limiters: limiters,
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters.Get(ip)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(ip, lim)
	}
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimit rejects clients exceeding perMinute requests. Zero disables it.
// Clients are told apart by gin's ClientIP, so forwarded headers only count
// when the engine trusts the proxy that set them.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPLimiter(perMinute, maxTrackedClients)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			utils.Log.Warn("Login rate limit exceeded", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Detail: msgThrottled})
			return
		}
		c.Next()
	}
}
