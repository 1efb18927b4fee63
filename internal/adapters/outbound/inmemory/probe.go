package inmemory

import (
	"context"
	"sync"

	"github.com/sufield/mapgw/internal/ports"
)

// Prober is an in-memory ports.Prober returning a fixed status.
type Prober struct {
	mu     sync.Mutex
	status int
	err    error
	urls   []string
}

// NewProber returns a prober answering every probe with status.
func NewProber(status int) *Prober {
	return &Prober{status: status}
}

// NewFailingProber returns a prober failing every probe with err.
func NewFailingProber(err error) *Prober {
	return &Prober{err: err}
}

// Probe records url and returns the configured status.
func (p *Prober) Probe(_ context.Context, url string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, url)
	if p.err != nil {
		return 0, p.err
	}
	return p.status, nil
}

// SetStatus changes the status returned by later probes.
func (p *Prober) SetStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.err = nil
}

// Calls returns how many probes were issued.
func (p *Prober) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.urls)
}

// URLs returns the probed URLs in order.
func (p *Prober) URLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.urls...)
}

// Detector is a ports.BindingDetector with a fixed answer.
type Detector bool

// Available reports the fixed answer.
func (d Detector) Available() bool {
	return bool(d)
}

var (
	_ ports.Prober          = (*Prober)(nil)
	_ ports.BindingDetector = Detector(false)
)
