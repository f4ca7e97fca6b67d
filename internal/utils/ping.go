package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

const authzDialTimeout = 1500 * time.Millisecond

// PingAuthorizer reports whether the Authorizer endpoint accepts TCP
// connections. Health reporting and the lazy auth client init both use this
// instead of a full session round trip.
func PingAuthorizer(authzURL string) error {
	parsed, err := url.Parse(authzURL)
	if err != nil {
		return fmt.Errorf("invalid authorizer URL: %w", err)
	}

	port := parsed.Port()
	if port == "" {
		if parsed.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	address := net.JoinHostPort(parsed.Hostname(), port)
	conn, err := net.DialTimeout("tcp", address, authzDialTimeout)
	if err != nil {
		return fmt.Errorf("authorizer unreachable at %s: %w", address, err)
	}
	return conn.Close()
}
