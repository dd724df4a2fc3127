package http

import (
	"net/http"
	"net/netip"
	"strings"
)

const (
	forwardedForHeader = "X-Forwarded-For"
	realIPHeader       = "X-Real-IP"
)

// withClientIP replaces r.RemoteAddr with the forwarded client address, but
// only when the TCP peer is one of the configured trusted proxies. Requests
// from anyone else keep their peer address whatever headers they send.
func (h *Handler) withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if addr, ok := h.forwardedClient(r); ok {
			r.RemoteAddr = addr.String()
		}
		next.ServeHTTP(w, r)
	})
}

// forwardedClient walks X-Forwarded-For from the right and returns the first
// hop that is not a trusted proxy. X-Real-IP is used when the list is absent.
func (h *Handler) forwardedClient(r *http.Request) (netip.Addr, bool) {
	if len(h.trustedProxies) == 0 {
		return netip.Addr{}, false
	}
	peer, ok := peerAddr(r.RemoteAddr)
	if !ok || !h.trustedProxy(peer) {
		return netip.Addr{}, false
	}

	var hops []string
	for _, v := range r.Header.Values(forwardedForHeader) {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}

	if len(hops) == 0 {
		addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get(realIPHeader)))
		if err != nil {
			return netip.Addr{}, false
		}
		return addr.Unmap(), true
	}

	var client netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			break
		}
		client = addr.Unmap()
		if !h.trustedProxy(client) {
			break
		}
	}
	return client, client.IsValid()
}

func (h *Handler) trustedProxy(addr netip.Addr) bool {
	for _, p := range h.trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func peerAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
