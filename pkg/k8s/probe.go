package k8s

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"k8s.io/client-go/discovery"
)

// Probe periodically checks that the API server is reachable. The readiness
// endpoint reports unready until the first successful check and again after
// any failed check.
type Probe struct {
	discovery discovery.DiscoveryInterface
	interval  time.Duration

	mu        sync.RWMutex
	reachable bool
	checked   bool
	version   string
}

// NewProbe creates a Probe with a 30 second check interval.
func NewProbe(disc discovery.DiscoveryInterface) *Probe {
	return &Probe{
		discovery: disc,
		interval:  30 * time.Second,
	}
}

// IsReady returns true once the API server has been reached and the most
// recent check succeeded.
func (p *Probe) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checked && p.reachable
}

// ServerVersion returns the version string from the last successful check.
func (p *Probe) ServerVersion() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

// Start begins the probe loop. It runs until the context is cancelled.
func (p *Probe) Start(ctx context.Context) {
	p.check()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("api server probe stopped")
			return
		case <-ticker.C:
			p.check()
		}
	}
}

func (p *Probe) check() {
	info, err := p.discovery.ServerVersion()

	p.mu.Lock()
	wasReachable := p.reachable
	p.checked = true
	if err != nil {
		p.reachable = false
	} else {
		p.reachable = true
		p.version = info.GitVersion
	}
	p.mu.Unlock()

	if err != nil {
		slog.Warn("api server unreachable, will retry", "error", err)
		return
	}
	if !wasReachable {
		slog.Info("api server reachable", "version", info.GitVersion)
	}
}
