package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/aleister1102/conndir/internal/config"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

type playwrightSession struct {
	pw      *playwright.Playwright
	context playwright.BrowserContext
	page    *playwrightPage
	logger  zerolog.Logger
}

type playwrightPage struct {
	page       playwright.Page
	navTimeout time.Duration
	settle     time.Duration
}

func openPlaywright(ctx context.Context, cfg config.BrowserConfig, logger zerolog.Logger) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(cfg.Headless),
		Viewport: &playwright.Size{Width: cfg.WindowWidth, Height: cfg.WindowHeight},
		SlowMo:   playwright.Float(float64(cfg.SlowMotionMs)),
	}
	for _, arg := range launchArgs(cfg) {
		if arg[1] == "" {
			opts.Args = append(opts.Args, "--"+arg[0])
		} else {
			opts.Args = append(opts.Args, "--"+arg[0]+"="+arg[1])
		}
	}
	if cfg.HideAutomation {
		opts.IgnoreDefaultArgs = []string{"--enable-automation"}
	}
	if cfg.ChromePath != "" {
		opts.ExecutablePath = playwright.String(cfg.ChromePath)
	}

	bc, err := pw.Chromium.LaunchPersistentContext(cfg.UserDataDir, opts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch persistent context: %w", err)
	}

	var page playwright.Page
	if pages := bc.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = bc.NewPage(); err != nil {
		_ = bc.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightSession{
		pw:      pw,
		context: bc,
		page: &playwrightPage{
			page:       page,
			navTimeout: cfg.GetNavigationTimeout(),
			settle:     cfg.GetSettleAfterNavigate(),
		},
		logger: logger,
	}, nil
}

func (s *playwrightSession) Page() Page {
	return s.page
}

func (s *playwrightSession) Close() error {
	var errs []error
	if err := s.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close context: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	s.logger.Debug().Msg("Browser closed")
	return errors.Join(errs...)
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// playwrightError maps the driver's timeout into common.ErrTimeout
func playwrightError(ctx context.Context, err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return asTimeout(ctx, err, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   millis(p.navTimeout),
	})
	if err != nil {
		return playwrightError(ctx, err, "navigate "+url)
	}
	return settle(ctx, p.settle)
}

func (p *playwrightPage) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.GoBack(playwright.PageGoBackOptions{Timeout: millis(p.navTimeout)})
	return playwrightError(ctx, err, "navigate back")
}

func (p *playwrightPage) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.URL(), nil
}

func (p *playwrightPage) Eval(ctx context.Context, js string, arg any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		res any
		err error
	)
	if arg == nil {
		res, err = p.page.Evaluate(js)
	} else {
		res, err = p.page.Evaluate(js, toPlainValue(arg))
	}
	if err != nil {
		return playwrightError(ctx, err, "evaluate script")
	}
	if out == nil {
		return nil
	}

	// Results arrive as generic values; a JSON round trip decodes them into out
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (p *playwrightPage) VisibleText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := p.page.Locator("body").InnerText()
	return text, playwrightError(ctx, err, "read body text")
}

func (p *playwrightPage) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	return html, playwrightError(ctx, err, "read content")
}

func (p *playwrightPage) WaitForText(ctx context.Context, text string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.WaitForFunction(containsTextJS, text, playwright.PageWaitForFunctionOptions{
		Timeout: millis(timeout),
	})
	return playwrightError(ctx, err, fmt.Sprintf("wait for %q", text))
}

func (p *playwrightPage) ClickText(ctx context.Context, selector, text string, exact bool, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var target playwright.Locator
	switch {
	case selector == "":
		target = p.page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(exact)})
	case exact:
		pattern := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(text) + `\s*$`)
		target = p.page.Locator(selector).Filter(playwright.LocatorFilterOptions{HasText: pattern})
	default:
		target = p.page.Locator(selector).Filter(playwright.LocatorFilterOptions{HasText: text})
	}

	err := target.First().Click(playwright.LocatorClickOptions{Timeout: millis(timeout)})
	return playwrightError(ctx, err, fmt.Sprintf("click %q", text))
}

// toPlainValue converts structs into maps so the driver serializes them
// with their json field names.
func toPlainValue(arg any) any {
	switch arg.(type) {
	case string, bool, int, int64, float64, []string, map[string]any:
		return arg
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return arg
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return arg
	}
	return plain
}
