package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/conndir/internal/config"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

type chromedpSession struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	page        *chromedpPage
	logger      zerolog.Logger
}

// chromedpPage binds every action to the tab context; caller contexts only
// bound how long a single action may run.
type chromedpPage struct {
	tabCtx     context.Context
	navTimeout time.Duration
	settle     time.Duration
	slowMotion time.Duration
}

func openChromedp(ctx context.Context, cfg config.BrowserConfig, logger zerolog.Logger) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(cfg.UserDataDir),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	if cfg.HideAutomation {
		opts = append(opts, chromedp.Flag("enable-automation", false))
	}
	for _, arg := range launchArgs(cfg) {
		if arg[1] == "" {
			opts = append(opts, chromedp.Flag(arg[0], true))
		} else {
			opts = append(opts, chromedp.Flag(arg[0], arg[1]))
		}
	}

	// The browser outlives any single request context, so it hangs off Background
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Debug().Msgf(format, args...)
		}),
	)

	startCtx, stop := boundTo(ctx, tabCtx, cfg.GetNavigationTimeout())
	defer stop()
	if err := chromedp.Run(startCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &chromedpSession{
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		page: &chromedpPage{
			tabCtx:     tabCtx,
			navTimeout: cfg.GetNavigationTimeout(),
			settle:     cfg.GetSettleAfterNavigate(),
			slowMotion: cfg.GetSlowMotion(),
		},
		logger: logger,
	}, nil
}

func (s *chromedpSession) Page() Page {
	return s.page
}

func (s *chromedpSession) Close() error {
	err := chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
	s.logger.Debug().Msg("Browser closed")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// boundTo derives an action context from the tab that is also cancelled
// when the caller's context ends.
func boundTo(caller, tab context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	actionCtx, cancel := context.WithTimeout(tab, timeout)
	stop := context.AfterFunc(caller, cancel)
	return actionCtx, func() {
		stop()
		cancel()
	}
}

func (p *chromedpPage) run(ctx context.Context, timeout time.Duration, what string, actions ...chromedp.Action) error {
	actionCtx, stop := boundTo(ctx, p.tabCtx, timeout)
	defer stop()

	if err := chromedp.Run(actionCtx, actions...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
			return asTimeout(ctx, err, what)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	if p.slowMotion > 0 {
		return settle(ctx, p.slowMotion)
	}
	return nil
}

func (p *chromedpPage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, p.navTimeout, "navigate "+url, chromedp.Navigate(url)); err != nil {
		return err
	}
	return settle(ctx, p.settle)
}

func (p *chromedpPage) Back(ctx context.Context) error {
	return p.run(ctx, p.navTimeout, "navigate back", chromedp.NavigateBack())
}

func (p *chromedpPage) URL(ctx context.Context) (string, error) {
	var location string
	err := p.run(ctx, p.navTimeout, "read location", chromedp.Location(&location))
	return location, err
}

func (p *chromedpPage) Eval(ctx context.Context, js string, arg any, out any) error {
	argJSON := []byte("undefined")
	if arg != nil {
		var err error
		if argJSON, err = json.Marshal(arg); err != nil {
			return fmt.Errorf("failed to encode script argument: %w", err)
		}
	}
	expression := fmt.Sprintf("(%s)(%s)", js, argJSON)

	if out == nil {
		var discard any
		out = &discard
	}
	return p.run(ctx, p.navTimeout, "evaluate script", chromedp.Evaluate(expression, out))
}

func (p *chromedpPage) VisibleText(ctx context.Context) (string, error) {
	var text string
	err := p.Eval(ctx, bodyTextJS, nil, &text)
	return text, err
}

func (p *chromedpPage) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, p.navTimeout, "read content", chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *chromedpPage) WaitForText(ctx context.Context, text string, timeout time.Duration) error {
	var found bool
	return p.run(ctx, timeout+time.Second, fmt.Sprintf("wait for %q", text),
		chromedp.PollFunction(containsTextJS, &found,
			chromedp.WithPollingArgs(text),
			chromedp.WithPollingTimeout(timeout),
		),
	)
}

func (p *chromedpPage) ClickText(ctx context.Context, selector, text string, exact bool, timeout time.Duration) error {
	var clicked bool
	return p.run(ctx, timeout+time.Second, fmt.Sprintf("click %q", text),
		chromedp.PollFunction(clickTextJS, &clicked,
			chromedp.WithPollingArgs(clickArgs{Selector: selector, Text: text, Exact: exact}),
			chromedp.WithPollingTimeout(timeout),
		),
	)
}
