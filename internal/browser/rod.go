package browser

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aleister1102/conndir/internal/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rodPage
	logger   zerolog.Logger
}

type rodPage struct {
	page       *rod.Page
	navTimeout time.Duration
	settle     time.Duration
}

func openRod(ctx context.Context, cfg config.BrowserConfig, logger zerolog.Logger) (Session, error) {
	l := launcher.New().
		Context(ctx).
		UserDataDir(cfg.UserDataDir).
		Headless(cfg.Headless).
		Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight)).
		Set("no-first-run").
		Set("disable-default-apps")

	if cfg.ChromePath != "" {
		l = l.Bin(cfg.ChromePath)
	}
	if cfg.HideAutomation {
		l = l.Delete("enable-automation")
	}
	for _, arg := range launchArgs(cfg) {
		if arg[1] == "" {
			l = l.Set(flags.Flag(arg[0]))
		} else {
			l = l.Set(flags.Flag(arg[0]), arg[1])
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).SlowMotion(cfg.GetSlowMotion())
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	p, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to set viewport")
	}

	logger.Debug().Str("control_url", controlURL).Msg("Browser connected")

	return &rodSession{
		launcher: l,
		browser:  b,
		page: &rodPage{
			page:       p,
			navTimeout: cfg.GetNavigationTimeout(),
			settle:     cfg.GetSettleAfterNavigate(),
		},
		logger: logger,
	}, nil
}

func (s *rodSession) Page() Page {
	return s.page
}

// Close shuts the browser down. The launcher is killed, not cleaned up,
// because cleanup would delete the persisted profile.
func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	s.logger.Debug().Msg("Browser closed")
	return err
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx).Timeout(p.navTimeout)
	defer pg.CancelTimeout()

	if err := pg.Navigate(url); err != nil {
		return timeoutError(ctx, err, "navigate "+url)
	}
	if err := pg.WaitLoad(); err != nil {
		return timeoutError(ctx, err, "load "+url)
	}
	return settle(ctx, p.settle)
}

func (p *rodPage) Back(ctx context.Context) error {
	pg := p.page.Context(ctx).Timeout(p.navTimeout)
	defer pg.CancelTimeout()

	if err := pg.NavigateBack(); err != nil {
		return timeoutError(ctx, err, "navigate back")
	}
	if err := pg.WaitLoad(); err != nil {
		return timeoutError(ctx, err, "load previous page")
	}
	return nil
}

func (p *rodPage) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *rodPage) Eval(ctx context.Context, js string, arg any, out any) error {
	pg := p.page.Context(ctx).Timeout(p.navTimeout)
	defer pg.CancelTimeout()

	var (
		res *proto.RuntimeRemoteObject
		err error
	)
	if arg == nil {
		res, err = pg.Eval(js)
	} else {
		res, err = pg.Eval(js, arg)
	}
	if err != nil {
		return timeoutError(ctx, err, "evaluate script")
	}
	if out == nil {
		return nil
	}
	return res.Value.Unmarshal(out)
}

func (p *rodPage) VisibleText(ctx context.Context) (string, error) {
	var text string
	err := p.Eval(ctx, bodyTextJS, nil, &text)
	return text, err
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	pg := p.page.Context(ctx).Timeout(p.navTimeout)
	defer pg.CancelTimeout()
	return pg.HTML()
}

func (p *rodPage) WaitForText(ctx context.Context, text string, timeout time.Duration) error {
	pg := p.page.Context(ctx).Timeout(timeout)
	defer pg.CancelTimeout()

	if err := pg.Wait(rod.Eval(containsTextJS, text)); err != nil {
		return timeoutError(ctx, err, fmt.Sprintf("wait for %q", text))
	}
	return nil
}

func (p *rodPage) ClickText(ctx context.Context, selector, text string, exact bool, timeout time.Duration) error {
	pg := p.page.Context(ctx).Timeout(timeout)
	defer pg.CancelTimeout()

	// A real mouse click where the locator is unambiguous, a DOM click otherwise
	if selector != "" && !exact {
		el, err := pg.ElementR(selector, regexp.QuoteMeta(text))
		if err != nil {
			return timeoutError(ctx, err, fmt.Sprintf("find %q", text))
		}
		if err := el.ScrollIntoView(); err != nil {
			return err
		}
		return el.Click(proto.InputMouseButtonLeft, 1)
	}

	err := pg.Wait(rod.Eval(clickTextJS, clickArgs{Selector: selector, Text: text, Exact: exact}))
	return timeoutError(ctx, err, fmt.Sprintf("click %q", text))
}
