package recorder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"

	"selenex/pkg/chrome"
)

// Browser is the page a recording session drives. Open navigates to the target
// and delivers every captured payload to emit until Close is called or the
// window goes away.
type Browser interface {
	Open(targetURL string, emit func(payload string)) error
	Close()
	Done() <-chan struct{}
}

// BrowserFactory builds a Browser for one session.
type BrowserFactory func(opts ChromeOptions, dev device.Info) Browser

type ChromeOptions struct {
	ExecPath string
	Headless bool
}

type chromeBrowser struct {
	opts   ChromeOptions
	device device.Info
	ctx    context.Context
	cancel context.CancelFunc
}

func newChromeBrowser(opts ChromeOptions, dev device.Info) Browser {
	return &chromeBrowser{opts: opts, device: dev}
}

func (b *chromeBrowser) Open(targetURL string, emit func(payload string)) error {
	chromePath := chrome.GetChromePath(b.opts.ExecPath)
	if chromePath == "" {
		return ErrChromeNotFound
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chromePath),
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("force-device-scale-factor", "1"),
		chromedp.UserAgent(b.device.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
	b.ctx = ctx
	b.cancel = func() {
		ctxCancel()
		allocCancel()
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if called, ok := ev.(*runtime.EventBindingCalled); ok && called.Name == bindingName {
			emit(called.Payload)
		}
	})

	err := chromedp.Run(ctx,
		chromedp.Emulate(b.device),
		runtime.AddBinding(bindingName),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(captureScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		b.cancel()
		return fmt.Errorf("failed to open %s: %w", targetURL, err)
	}
	return nil
}

// Close asks the browser to shut down gracefully before tearing the
// allocator down.
func (b *chromeBrowser) Close() {
	if b.ctx == nil {
		return
	}
	closeCtx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Cancel(closeCtx); err != nil {
		log.Printf("⚠️ Graceful browser close failed: %v", err)
	}
	b.cancel()
}

func (b *chromeBrowser) Done() <-chan struct{} {
	if b.ctx == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return b.ctx.Done()
}
