package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages rate limiters for each IP address
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  *sync.RWMutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a new rate limiter
// r: requests per second
// b: burst size
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		mu:  &sync.RWMutex{},
		r:   r,
		b:   b,
	}

	// Clean up old entries periodically to prevent memory leak
	go i.cleanupLoop()

	return i
}

// AddIP creates a new limiter for an IP if it doesn't exist
func (i *IPRateLimiter) AddIP(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}

	return limiter
}

// GetLimiter returns the limiter for a given IP
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	limiter, exists := i.ips[ip]
	if !exists {
		i.mu.Unlock()
		return i.AddIP(ip)
	}
	i.mu.Unlock()
	return limiter
}

// cleanupLoop drops every tracked IP hourly rather than aging entries
// individually; the gateway sits behind other backends, not browsers, so
// its IP cardinality stays low enough that a full reset is cheap.
func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Hour)
		i.mu.Lock()
		log.Println("clearing rate limiter IP map")
		i.ips = make(map[string]*rate.Limiter)
		i.mu.Unlock()
	}
}

// RateLimit middleware bounds each client IP to rps requests per second
// with the given burst (spec §5's ambient throttling, sized from
// service_rate_limit_rps/service_rate_limit_burst rather than fixed at
// the values the teacher hardcoded).
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(rps, burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
