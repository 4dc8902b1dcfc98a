// Package chromium implements the portal automation surface on a headless
// Chromium instance driven over the DevTools protocol.
package chromium

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/dparodi/hacienda/internal/portal"
)

// Page is one browser tab satisfying portal.Automation. It owns the whole
// browser process: closing the page tears the browser down.
type Page struct {
	browserCtx  context.Context
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	downloadDir string
	stepTimeout time.Duration
}

var _ portal.Automation = (*Page)(nil)

// New launches a browser and opens one tab with downloads routed to
// downloadDir.
func New(ctx context.Context, downloadDir string, headless bool, stepTimeout time.Duration) (*Page, error) {
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	p := &Page{
		browserCtx:  tabCtx,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		downloadDir: downloadDir,
		stepTimeout: stepTimeout,
	}

	// Start the browser and route downloads before any navigation happens.
	err := chromedp.Run(tabCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
	)
	if err != nil {
		cancelTab()
		cancelAlloc()

		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return p, nil
}

func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(p.tabCtx, p.timeout(ctx))
	defer cancel()

	return chromedp.Run(tctx, actions...)
}

// timeout honors the caller's deadline when it is tighter than the
// configured per-step bound.
func (p *Page) timeout(ctx context.Context) time.Duration {
	step := p.stepTimeout
	if step <= 0 {
		step = 90 * time.Second
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < step {
			return remaining
		}
	}

	return step
}

func (p *Page) Goto(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *Page) Fill(ctx context.Context, selector, value string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
}

func (p *Page) Click(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (p *Page) WaitVisible(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Download runs trigger and waits for the download it starts to complete,
// returning the saved file path. Files are saved under the download dir by
// GUID, which keeps concurrent sessions from clobbering each other.
func (p *Page) Download(ctx context.Context, trigger func(context.Context) error) (string, error) {
	done := make(chan string, 1)

	lctx, cancel := context.WithCancel(p.tabCtx)
	defer cancel()

	chromedp.ListenBrowser(lctx, func(ev any) {
		if e, ok := ev.(*browser.EventDownloadProgress); ok {
			if e.State == browser.DownloadProgressStateCompleted {
				select {
				case done <- e.GUID:
				default:
				}
			}
		}
	})

	if err := trigger(ctx); err != nil {
		return "", fmt.Errorf("triggering download: %w", err)
	}

	wait, waitCancel := context.WithTimeout(ctx, p.timeout(ctx))
	defer waitCancel()

	select {
	case guid := <-done:
		return filepath.Join(p.downloadDir, guid), nil
	case <-wait.Done():
		return "", fmt.Errorf("waiting for download: %w", wait.Err())
	}
}

// Popup runs trigger and re-targets the page at the window it opens. The
// previous tab stays alive in the background; the portal expects it to.
func (p *Page) Popup(ctx context.Context, trigger func(context.Context) error) error {
	ch := chromedp.WaitNewTarget(p.tabCtx, func(info *target.Info) bool {
		return info.Type == "page" && info.URL != ""
	})

	if err := trigger(ctx); err != nil {
		return fmt.Errorf("triggering popup: %w", err)
	}

	wait, waitCancel := context.WithTimeout(ctx, p.timeout(ctx))
	defer waitCancel()

	select {
	case targetID := <-ch:
		newCtx, newCancel := chromedp.NewContext(p.browserCtx, chromedp.WithTargetID(targetID))

		if err := chromedp.Run(newCtx); err != nil {
			newCancel()
			return fmt.Errorf("attaching to popup: %w", err)
		}

		p.tabCtx = newCtx
		p.cancelTab = newCancel

		return nil
	case <-wait.Done():
		return fmt.Errorf("waiting for popup: %w", wait.Err())
	}
}

func (p *Page) Close(_ context.Context) error {
	p.cancelTab()
	p.cancelAlloc()

	return nil
}
