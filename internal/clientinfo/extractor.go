package clientinfo

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is the sentinel used when no client fact can be resolved.
const Unknown = "Unknown"

// DirectReferer marks visits that arrived without a referer header.
const DirectReferer = "Direct"

// Context carries the raw client facts of one request.
type Context struct {
	IP        string
	UserAgent string
	Referer   string
}

// Extractor derives client IP, user agent and referer from a request.
type Extractor struct {
	// fallbackTestIP replaces loopback addresses so local requests still
	// resolve to a usable geolocation. Empty means no substitution.
	fallbackTestIP string
}

// NewExtractor creates an extractor with the configured fallback test IP.
func NewExtractor(fallbackTestIP string) *Extractor {
	return &Extractor{fallbackTestIP: fallbackTestIP}
}

// FromRequest resolves the client context of a request.
func (e *Extractor) FromRequest(r *http.Request) Context {
	return Context{
		IP:        e.clientIP(r),
		UserAgent: userAgent(r),
		Referer:   referer(r),
	}
}

// clientIP resolves the client address. Precedence: the X-Test-IP override
// header, the first entry of X-Forwarded-For, X-Real-IP, then the transport
// peer address. Loopback peers are replaced by the configured fallback.
func (e *Extractor) clientIP(r *http.Request) string {
	if testIP := r.Header.Get("X-Test-IP"); testIP != "" {
		return testIP
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For holds a proxy chain; the first entry is the
		// original client.
		ips := strings.Split(forwarded, ",")
		if first := strings.TrimSpace(ips[0]); first != "" {
			return first
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "::1" || ip == "127.0.0.1" {
		if e.fallbackTestIP != "" {
			return e.fallbackTestIP
		}
		return Unknown
	}

	if ip == "" {
		return Unknown
	}
	return ip
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return Unknown
}

func referer(r *http.Request) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}
	// Some clients send the correctly-spelled variant.
	if ref := r.Header.Get("Referrer"); ref != "" {
		return ref
	}
	return DirectReferer
}
