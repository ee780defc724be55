package main

import (
	"net"
	"sync"

	"golang.org/x/time/rate"
)

// admission limits how fast each remote IP may open game sessions.
type admission struct {
	mu  sync.Mutex
	ips map[string]*rate.Limiter
	r   rate.Limit
	b   int
}

func newAdmission(r rate.Limit, b int) *admission {
	return &admission{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// allow reports whether a session from addr may start now.
func (a *admission) allow(addr net.Addr) bool {
	return a.limiter(remoteIP(addr)).Allow()
}

func (a *admission) limiter(ip string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()

	limiter, exists := a.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(a.r, a.b)
		a.ips[ip] = limiter
	}
	return limiter
}

func remoteIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
