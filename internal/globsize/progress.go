package globsize

import (
	"context"
	"sync"
	"time"
)

// progress tracks files discovered and bytes stat'ed for the progress hook.
// A nil *progress is valid and ignores all updates.
type progress struct {
	mu    sync.Mutex
	files int64
	bytes int64
}

func (p *progress) addFile() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.files++
}

func (p *progress) addBytes(n int64) {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.bytes += n
}

func (p *progress) snapshot() (int64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.files, p.bytes
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
// It returns nil when there is no hook.
func startProgressReporter(ctx context.Context, hook func(int64, int64), interval time.Duration) *progress {
	if hook == nil {
		return nil
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	p := &progress{}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}
