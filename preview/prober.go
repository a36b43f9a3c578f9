// Package preview keeps a live preview of the composed image while a
// declaration is being edited.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"mime"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/log"
	"github.com/xiaoyuanzhu-com/yaruze/og"
	"github.com/xiaoyuanzhu-com/yaruze/share"
)

// DefaultDelay is the quiet period after the last edit before probing.
const DefaultDelay = 500 * time.Millisecond

// Status of a preview result.
type Status int

const (
	// StatusEmpty means there is nothing to preview (no title).
	StatusEmpty Status = iota
	// StatusReady means the probed image loaded and can be shown.
	StatusReady
	// StatusError means the probe failed; the preview should be cleared.
	StatusError
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one probe.
type Result struct {
	Generation  uint64
	Declaration declaration.Declaration
	Status      Status
	// ImageURL is the probed address, set when Status is StatusReady.
	ImageURL string
	Err      error
}

// Config configures a Prober.
type Config struct {
	BaseURL string
	Delay   time.Duration
	Client  *http.Client

	// OnResult receives committed results. It runs on a prober goroutine
	// and must not call Stop.
	OnResult func(Result)
}

// Prober debounces edits and probes the image endpoint for the latest one.
// Each edit supersedes the previous: its timer is reset, its in-flight probe
// is cancelled, and only the newest generation may commit a result.
type Prober struct {
	base     string
	delay    time.Duration
	client   *http.Client
	onResult func(Result)

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc

	// deliverMu serializes the generation check with the callback.
	deliverMu sync.Mutex

	wg       sync.WaitGroup
	stopping atomic.Bool // Prevents new edits during shutdown
}

// NewProber creates a prober. Delay defaults to DefaultDelay and Client to
// a client with a 10 second timeout.
func NewProber(cfg Config) *Prober {
	p := &Prober{
		base:     cfg.BaseURL,
		delay:    cfg.Delay,
		client:   cfg.Client,
		onResult: cfg.OnResult,
	}
	if p.delay <= 0 {
		p.delay = DefaultDelay
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: 10 * time.Second}
	}
	if p.onResult == nil {
		p.onResult = func(Result) {}
	}
	return p
}

// Edit records the current field values and returns their generation.
// A declaration without a title commits StatusEmpty right away; otherwise a
// probe starts once no further edit arrives within the delay.
// Returns 0 if the prober is stopping.
func (p *Prober) Edit(d declaration.Declaration) uint64 {
	if p.stopping.Load() {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring lock (prevents race with Stop)
	if p.stopping.Load() {
		return 0
	}

	p.gen++
	gen := p.gen

	p.stopTimerLocked()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	p.wg.Add(1)
	if !share.CanShare(d) {
		go func() {
			defer p.wg.Done()
			p.deliver(Result{Generation: gen, Declaration: d, Status: StatusEmpty})
		}()
		return gen
	}

	p.timer = time.AfterFunc(p.delay, func() {
		defer p.wg.Done()
		p.run(gen, d)
	})
	return gen
}

// stopTimerLocked cancels a pending timer. A timer that already fired
// releases its own wait group slot.
func (p *Prober) stopTimerLocked() {
	if p.timer != nil && p.timer.Stop() {
		p.wg.Done()
	}
	p.timer = nil
}

// Generation returns the most recent edit generation.
func (p *Prober) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Stop cancels the pending timer and the in-flight probe and waits for
// prober goroutines to exit. After Stop returns no more results are
// delivered.
func (p *Prober) Stop() {
	// Set stopping flag first to prevent new edits
	p.stopping.Store(true)

	p.mu.Lock()
	p.stopTimerLocked()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Prober) run(gen uint64, d declaration.Declaration) {
	p.mu.Lock()
	if p.stopping.Load() || gen != p.gen {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	imageURL := share.ImageURL(p.base, d, uuid.NewString())
	err := p.probe(ctx, imageURL)
	if ctx.Err() != nil {
		// superseded or stopped
		return
	}

	res := Result{Generation: gen, Declaration: d}
	if err != nil {
		log.Debug().Err(err).Str("url", imageURL).Msg("preview probe failed")
		res.Status = StatusError
		res.Err = err
	} else {
		res.Status = StatusReady
		res.ImageURL = imageURL
	}
	p.deliver(res)
}

// deliver commits res if it is still the latest generation.
func (p *Prober) deliver(res Result) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	current := res.Generation == p.gen && !p.stopping.Load()
	p.mu.Unlock()

	if current {
		p.onResult(res)
	}
}

// ErrNotPreviewable is returned when the endpoint answers with something
// other than a full-size PNG.
var ErrNotPreviewable = errors.New("response is not a preview image")

// probe loads the image and checks it is a decodable full-size PNG.
func (p *Prober) probe(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe image: %w", err)
	}
	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %s", ErrNotPreviewable, resp.Status)
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "image/png" {
		return fmt.Errorf("%w: content type %q", ErrNotPreviewable, resp.Header.Get("Content-Type"))
	}

	cfg, err := png.DecodeConfig(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotPreviewable, err)
	}
	if cfg.Width != og.Width || cfg.Height != og.Height {
		return fmt.Errorf("%w: size %dx%d", ErrNotPreviewable, cfg.Width, cfg.Height)
	}
	return nil
}
