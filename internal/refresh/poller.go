package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type PollFunc func(ctx context.Context) error

// Poller calls fn once on Start and then every interval until the context
// is cancelled or Stop is called.
type Poller struct {
	name     string
	interval time.Duration
	fn       PollFunc
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(name string, interval time.Duration, fn PollFunc, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   logger,
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	p.logger.Info("starting poller", "name", p.name, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial poll
	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller shutting down", "name", p.name)
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.logger.Debug("polling", "name", p.name)
	if err := p.fn(ctx); err != nil {
		p.logger.Error("poll failed", "name", p.name, "error", err)
		return
	}
	p.logger.Debug("poll complete", "name", p.name)
}

// Stop cancels the poller and waits for an in-progress poll to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}
