package utils

import (
	"net/netip"
	"net/url"
	"strings"
)

// IsAllowedOrigin decides whether an Origin header belongs to the local
// network. Trusted: localhost, loopback/private/link-local IPs, .local mDNS
// names and bare single-label hostnames. Anything that looks like a public
// internet origin is rejected.
func IsAllowedOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()

	if addr, err := netip.ParseAddr(host); err == nil {
		return isLocalAddr(addr)
	}

	switch {
	case host == "localhost":
		return true
	case strings.HasSuffix(host, ".local"):
		return true
	case !strings.Contains(host, "."):
		// Single-label hostnames resolve on the LAN only.
		return true
	}
	return false
}

// isLocalAddr covers RFC1918 and ULA ranges plus loopback and link-local.
func isLocalAddr(addr netip.Addr) bool {
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast()
}
