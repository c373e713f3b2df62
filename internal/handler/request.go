package handlers

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address of the client, honouring the headers set by
// the proxies the service runs behind. The first usable header wins.
func ClientIP(r *http.Request) string {
	if ip := headerIP(r.Header.Get("X-Client-IP")); ip != "" {
		return ip
	}

	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := headerIP(candidate); ip != "" {
			return ip
		}
	}

	for _, header := range []string{"CF-Connecting-IP", "True-Client-IP", "X-Real-IP"} {
		if ip := headerIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func headerIP(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	if net.ParseIP(value) == nil {
		return ""
	}
	return value
}
