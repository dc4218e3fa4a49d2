package man2pdf

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxChromePoolSize caps browser instances to limit memory (~200MB each).
	MaxChromePoolSize = 8

	// chromeCPUDivisor leaves headroom for Chrome child processes.
	chromeCPUDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// ConverterPool manages a pool of Converter instances for parallel processing.
// Each converter has its own renderer (and browser, for the chrome engine),
// enabling true parallelism. Converters are created lazily on first acquire.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewConverterPool creates a pool with capacity for n Converter instances,
// each built with opts. Converters are created when acquired, not here.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:       n,
		opts:       append([]Option(nil), opts...),
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks if all converters are in use. Returns ErrPoolClosed once Close
// has been called, even if released converters are still buffered.
func (p *ConverterPool) Acquire() (*Converter, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	// Try to get an existing converter (non-blocking)
	select {
	case c, ok := <-p.sem:
		return p.received(c, ok)
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new converter outside the lock
		c, err := NewConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.converters = append(p.converters, c)
		p.mu.Unlock()

		return c, nil
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released
	c, ok := <-p.sem
	return p.received(c, ok)
}

// received vets a converter taken from sem. A closed channel still yields
// its buffered converters, which Close has already shut down.
func (p *ConverterPool) received(c *Converter, ok bool) (*Converter, error) {
	if !ok || p.isClosed() {
		return nil, ErrPoolClosed
	}
	return c, nil
}

func (p *ConverterPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Release returns a converter to the pool.
// Holding the lock while sending cannot deadlock: at most size converters
// exist, so the buffered channel always has room.
func (p *ConverterPool) Release(c *Converter) {
	if c == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- c
}

// Close releases all renderer resources.
// Returns an aggregated error if multiple converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// The native engine uses one worker per processing unit; the chrome engine
// halves that and caps it at MaxChromePoolSize.
func ResolvePoolSize(workers int, engine Engine) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	if engine != EngineChrome {
		return max(available, MinPoolSize)
	}

	n := available / chromeCPUDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxChromePoolSize {
		return MaxChromePoolSize
	}
	return n
}
