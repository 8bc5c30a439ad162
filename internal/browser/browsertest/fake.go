// Package browsertest provides an in-memory browser.Page for tests.
package browsertest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/rs/zerolog"
)

// Document is the rendered state of one fake URL
type Document struct {
	Text string
	HTML string
}

// FakePage serves documents by URL and records what the caller did.
// Scripted behavior is injected through EvalFunc and ClickFunc.
type FakePage struct {
	mu sync.Mutex

	Documents   map[string]Document
	NavigateErr map[string]error
	// WaitErr, when set, is what every WaitForText returns
	WaitErr error

	// EvalFunc answers Eval calls; its result is JSON-decoded into out
	EvalFunc func(js string, arg any) (any, error)
	// ClickFunc answers ClickText; a non-empty URL navigates there
	ClickFunc func(selector, text string, exact bool) (string, error)

	current string
	history []string

	Visits []string
	Clicks []string
	Closed bool
}

// NewFakePage creates a page serving docs
func NewFakePage(docs map[string]Document) *FakePage {
	if docs == nil {
		docs = map[string]Document{}
	}
	return &FakePage{
		Documents:   docs,
		NavigateErr: map[string]error{},
	}
}

func (f *FakePage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Visits = append(f.Visits, url)
	if err := f.NavigateErr[url]; err != nil {
		return err
	}
	f.goTo(url)
	return nil
}

func (f *FakePage) goTo(url string) {
	if f.current != "" {
		f.history = append(f.history, f.current)
	}
	f.current = url
}

func (f *FakePage) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.history) == 0 {
		return fmt.Errorf("no history")
	}
	f.current = f.history[len(f.history)-1]
	f.history = f.history[:len(f.history)-1]
	return nil
}

func (f *FakePage) URL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, ctx.Err()
}

func (f *FakePage) Eval(ctx context.Context, js string, arg any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.EvalFunc == nil {
		return fmt.Errorf("unexpected script")
	}
	res, err := f.EvalFunc(js, arg)
	if err != nil || out == nil {
		return err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *FakePage) VisibleText(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Documents[f.current].Text, ctx.Err()
}

func (f *FakePage) HTML(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Documents[f.current].HTML, ctx.Err()
}

// WaitForText succeeds immediately when the current document holds text
// and times out immediately otherwise.
func (f *FakePage) WaitForText(ctx context.Context, text string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WaitErr != nil {
		return f.WaitErr
	}
	if strings.Contains(f.Documents[f.current].Text, text) {
		return nil
	}
	return fmt.Errorf("wait for %q: %w", text, common.ErrTimeout)
}

func (f *FakePage) ClickText(ctx context.Context, selector, text string, exact bool, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.Clicks = append(f.Clicks, text)
	click := f.ClickFunc
	f.mu.Unlock()

	if click == nil {
		return nil
	}
	target, err := click(selector, text, exact)
	if err != nil {
		return err
	}
	if target != "" {
		f.mu.Lock()
		f.goTo(target)
		f.mu.Unlock()
	}
	return nil
}

// Session wraps a FakePage as a browser.Session
type Session struct {
	FakePage *FakePage
}

func (s *Session) Page() browser.Page {
	return s.FakePage
}

func (s *Session) Close() error {
	s.FakePage.mu.Lock()
	defer s.FakePage.mu.Unlock()
	s.FakePage.Closed = true
	return nil
}

// Opener returns a browser.Opener handing out page
func Opener(page *FakePage) browser.Opener {
	return func(ctx context.Context, cfg config.BrowserConfig, logger zerolog.Logger) (browser.Session, error) {
		if err := browser.EnsureProfile(cfg.UserDataDir); err != nil {
			return nil, err
		}
		return &Session{FakePage: page}, nil
	}
}
