package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls access to the API documentation routes.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     // gate the docs behind JWT authentication
	AllowedIPs  []string // IPs or CIDR ranges; empty means no IP restriction
}

// ipWhitelist holds the parsed form of SwaggerConfig.AllowedIPs so the
// per-request check never re-parses strings.
type ipWhitelist struct {
	ips  []net.IP
	nets []*net.IPNet
}

func parseWhitelist(entries []string) ipWhitelist {
	var wl ipWhitelist
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				wl.nets = append(wl.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			wl.ips = append(wl.ips, ip)
		}
	}
	return wl
}

func (wl ipWhitelist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range wl.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range wl.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SwaggerProtection guards the documentation routes. Disabled docs answer
// 404 so the endpoint is indistinguishable from an absent one. When a
// whitelist is configured the client IP must match, and when RequireAuth is
// set the supplied JWT middleware must pass before the docs are served. IP
// and auth checks compose.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	wl := parseWhitelist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "API documentation is not available",
			})
			return
		}

		if len(cfg.AllowedIPs) > 0 && !wl.contains(clientIP(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Access to API documentation is restricted",
			})
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

// clientIP resolves the caller's address, preferring gin's trusted-proxy
// aware resolution and falling back to the raw socket address.
func clientIP(c *gin.Context) net.IP {
	if resolved := c.ClientIP(); resolved != "" {
		if ip := net.ParseIP(resolved); ip != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}
