// Command themecheck opens the site in a headless browser and verifies that
// the theme toggle persists, swaps and alternates as expected.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"mode_switch/internals/smoke"
)

type checkOptions struct {
	url        string
	controlURL string
	headed     bool
	noSandbox  bool
	timeout    time.Duration
	clicks     int
	debug      bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "themecheck",
		Short: "Check the light/dark theme toggle of a running site in a headless browser",
		Example: `  themecheck --url http://127.0.0.1:3000/
  themecheck --url http://127.0.0.1:3000/ --control-url ws://127.0.0.1:9222/devtools/browser/...`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.debug {
				log.Setup(log.Debug, log.Msec, log.LevelBraces)
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "http://127.0.0.1:3000/", "page to check")
	f.StringVar(&opts.controlURL, "control-url", "", "devtools url of a running browser, launches one when empty")
	f.BoolVar(&opts.headed, "headed", false, "show the launched browser window")
	f.BoolVar(&opts.noSandbox, "no-sandbox", false, "launch the browser without sandbox (containers)")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout per step")
	f.IntVar(&opts.clicks, "clicks", 6, "extra alternating clicks after the fixed scenarios")
	f.BoolVar(&opts.debug, "dbg", false, "debug logging")
	return cmd
}

func runCheck(ctx context.Context, out io.Writer, opts checkOptions) error {
	if opts.clicks < 0 {
		return fmt.Errorf("--clicks must not be negative")
	}

	checker := smoke.New(smoke.Config{
		URL:        opts.url,
		ControlURL: opts.controlURL,
		Headless:   !opts.headed,
		NoSandbox:  opts.noSandbox,
		Timeout:    opts.timeout,
	}, log.Default())

	results, err := checker.Run(ctx, smoke.Scenarios(opts.clicks))
	report(out, results)
	if err != nil {
		return err
	}
	if n := smoke.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d steps failed", n, len(results))
	}
	fmt.Fprintf(out, "all %d steps passed\n", len(results))
	return nil
}

func report(out io.Writer, results []smoke.Result) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tACTION\tCOOKIE\tSTYLESHEET\tICON\tRESULT")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "FAIL: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Step.Name, r.Step.Action, r.State.Mode(), r.State.Href, r.State.Icon, status)
	}
	_ = w.Flush()
}
