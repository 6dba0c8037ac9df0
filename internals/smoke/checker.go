// Package smoke drives a headless browser through the theme toggle scenarios
// against a running server.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"mode_switch/internals/theme"
)

const readState = `() => {
	const link = document.getElementById("theme");
	const button = document.getElementById("switch-mode");
	return {
		cookie: document.cookie,
		links: document.querySelectorAll("link#theme").length,
		href: link ? link.href : "",
		icon: button ? button.textContent : "",
	};
}`

const waitReady = `() => document.documentElement.dataset.themeReady === "true"`

const waitMode = `(want) => document.cookie.split(";").some((c) => c.trim() === "mode=" + want)`

// Config for a Checker.
type Config struct {
	URL        string        // page to check
	ControlURL string        // devtools url of a running browser, launch one if empty
	Headless   bool          // for launched browsers
	NoSandbox  bool          // for launched browsers, needed in most containers
	Timeout    time.Duration // per step
}

// Result is the outcome of one step.
type Result struct {
	Step  Step
	State State
	Err   error
}

// Checker runs scenarios in a fresh incognito context.
type Checker struct {
	cfg Config
	log lgr.L
}

// New makes a checker. A zero timeout means 10s per step.
func New(cfg Config, l lgr.L) *Checker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if l == nil {
		l = lgr.NoOp
	}
	return &Checker{cfg: cfg, log: l}
}

// Run executes steps in order and stops at the first step that cannot be
// performed. Failed expectations are reported in the results, not as error.
func (c *Checker) Run(ctx context.Context, steps []Step) ([]Result, error) {
	if c.cfg.URL == "" {
		return nil, errors.New("page url is required")
	}

	browser, cleanup, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("open incognito context: %w", err)
	}
	defer incognito.Close()

	var page *rod.Page
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		c.log.Logf("[DEBUG] step %q (%s)", step.Name, step.Action)
		if page == nil && step.Action != Visit {
			return results, fmt.Errorf("step %q: page not opened, first step must be a visit", step.Name)
		}

		stepCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		page, err = c.perform(stepCtx, incognito, page, step)
		if err != nil {
			cancel()
			return results, fmt.Errorf("step %q: %w", step.Name, err)
		}
		state, err := c.state(page.Context(stepCtx))
		cancel()
		if err != nil {
			return results, fmt.Errorf("step %q: read page state: %w", step.Name, err)
		}

		res := Result{Step: step, State: state, Err: step.Want.Check(state)}
		if res.Err != nil {
			c.log.Logf("[WARN] step %q failed: %v", step.Name, res.Err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Checker) connect(ctx context.Context) (*rod.Browser, func(), error) {
	controlURL := c.cfg.ControlURL
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().Headless(c.cfg.Headless).NoSandbox(c.cfg.NoSandbox)
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
		c.log.Logf("[DEBUG] launched browser at %s", controlURL)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, nil, fmt.Errorf("connect to browser: %w", err)
	}

	cleanup := func() {
		if l == nil {
			return // not ours to close
		}
		if err := browser.Close(); err != nil {
			c.log.Logf("[WARN] close browser: %v", err)
		}
		l.Cleanup()
	}
	return browser, cleanup, nil
}

func (c *Checker) perform(ctx context.Context, b *rod.Browser, page *rod.Page, step Step) (*rod.Page, error) {
	switch step.Action {
	case Visit:
		if page != nil {
			_ = page.Close()
		}
		p, err := b.Context(ctx).Page(proto.TargetCreateTarget{URL: c.cfg.URL})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", c.cfg.URL, err)
		}
		return p, c.waitReady(p.Context(ctx))

	case Reload:
		p := page.Context(ctx)
		if err := p.Reload(); err != nil {
			return page, fmt.Errorf("reload: %w", err)
		}
		return page, c.waitReady(p)

	case Click:
		p := page.Context(ctx)
		before, err := c.state(p)
		if err != nil {
			return page, err
		}
		el, err := p.Element("#" + theme.ButtonID)
		if err != nil {
			return page, fmt.Errorf("find button: %w", err)
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return page, fmt.Errorf("click: %w", err)
		}
		// the click handler runs inside the wasm program, wait until the cookie flips
		want := theme.PlanClick(before.Mode()).Mode
		if err := p.Wait(rod.Eval(waitMode, string(want))); err != nil {
			return page, fmt.Errorf("wait for mode %s: %w", want, err)
		}
		return page, nil

	default:
		return page, fmt.Errorf("unknown action %q", step.Action)
	}
}

func (c *Checker) waitReady(p *rod.Page) error {
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	if err := p.Wait(rod.Eval(waitReady)); err != nil {
		return fmt.Errorf("wait for toggler: %w", err)
	}
	return nil
}

func (c *Checker) state(p *rod.Page) (State, error) {
	obj, err := p.Eval(readState)
	if err != nil {
		return State{}, err
	}
	var s State
	if err := obj.Value.Unmarshal(&s); err != nil {
		return State{}, fmt.Errorf("decode page state: %w", err)
	}
	return s, nil
}

// Failed counts results with a failed expectation.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
