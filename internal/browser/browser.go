package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/rs/zerolog"
)

// Driver names accepted by Open
const (
	DriverRod        = "rod"
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

// Page is the single tab a scrape run drives. Every driver implements it
// so collection and extraction never touch a browser library directly.
//
// Scripts passed to Eval are JavaScript function expressions taking at most
// one argument and returning a JSON-serializable, non-null value.
type Page interface {
	// Navigate loads url and waits for the page to settle
	Navigate(ctx context.Context, url string) error
	// Back goes one step back in history
	Back(ctx context.Context) error
	// URL returns the current location
	URL(ctx context.Context) (string, error)
	// Eval runs js with arg and decodes the result into out (out may be nil)
	Eval(ctx context.Context, js string, arg any, out any) error
	// VisibleText returns the rendered text of the body
	VisibleText(ctx context.Context) (string, error)
	// HTML returns the serialized document
	HTML(ctx context.Context) (string, error)
	// WaitForText blocks until text is visible. It returns an error wrapping
	// common.ErrTimeout when the text does not show up in time.
	WaitForText(ctx context.Context, text string, timeout time.Duration) error
	// ClickText clicks the first element matching selector whose text is
	// (exact) or contains text. An empty selector matches any element.
	ClickText(ctx context.Context, selector, text string, exact bool, timeout time.Duration) error
}

// Session owns the browser process and its page
type Session interface {
	Page() Page
	Close() error
}

// Opener starts a browser session. Open is the production implementation;
// tests substitute fakes.
type Opener func(ctx context.Context, cfg config.BrowserConfig, logger zerolog.Logger) (Session, error)

// Open launches the configured driver against the persisted profile.
// The profile must already exist; a missing profile means nobody logged in.
func Open(ctx context.Context, cfg config.BrowserConfig, logger zerolog.Logger) (Session, error) {
	if err := EnsureProfile(cfg.UserDataDir); err != nil {
		return nil, err
	}

	log := logger.With().Str("component", "Browser").Str("driver", cfg.Driver).Logger()
	log.Info().
		Str("profile", cfg.UserDataDir).
		Bool("headless", cfg.Headless).
		Int("width", cfg.WindowWidth).
		Int("height", cfg.WindowHeight).
		Msg("Launching browser")

	switch strings.ToLower(cfg.Driver) {
	case DriverRod, "":
		return openRod(ctx, cfg, log)
	case DriverPlaywright:
		return openPlaywright(ctx, cfg, log)
	case DriverChromedp:
		return openChromedp(ctx, cfg, log)
	default:
		return nil, common.NewConfigurationError("browser_config", "driver", fmt.Sprintf("unsupported driver %q", cfg.Driver))
	}
}

// EnsureProfile checks that the persisted browser profile directory exists
func EnsureProfile(dir string) error {
	if dir == "" {
		return common.WrapError(common.ErrSessionMissing, "browser profile directory not configured")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return common.WrapErrorf(common.ErrSessionMissing, "profile directory %s", dir)
	}
	if err != nil {
		return common.WrapErrorf(err, "failed to stat profile directory %s", dir)
	}
	if !info.IsDir() {
		return common.NewValidationError("user_data_dir", dir, "profile path is not a directory")
	}
	return nil
}

// launchArgs returns the chromium flags shared by every driver, without
// leading dashes, as name/value pairs.
func launchArgs(cfg config.BrowserConfig) [][2]string {
	args := make([][2]string, 0, len(cfg.ExtraArgs)+1)
	if cfg.HideAutomation {
		args = append(args, [2]string{"disable-blink-features", "AutomationControlled"})
	}
	for _, raw := range cfg.ExtraArgs {
		name, value := splitFlag(raw)
		if name == "" {
			continue
		}
		args = append(args, [2]string{name, value})
	}
	return args
}

// splitFlag turns "--name=value" into its name and value
func splitFlag(raw string) (string, string) {
	trimmed := strings.TrimLeft(strings.TrimSpace(raw), "-")
	name, value, _ := strings.Cut(trimmed, "=")
	return name, value
}

// settle pauses after a navigation without outliving ctx
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return common.WaitWithCancellation(ctx, d)
}

// timeoutError maps an expired deadline into common.ErrTimeout. Any other
// driver failure keeps its own identity and caller cancellation is
// returned untouched.
func timeoutError(ctx context.Context, err error, what string) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return asTimeout(ctx, err, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// asTimeout wraps err, already known to be a driver timeout, with common.ErrTimeout
func asTimeout(ctx context.Context, err error, what string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%s: %w: %w", what, common.ErrTimeout, err)
}
