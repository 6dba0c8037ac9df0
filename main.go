package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Masterminds/sprig/v3"
	log "github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"mode_switch/internals/db"
	"mode_switch/internals/handlers"
	"mode_switch/internals/middleware"
)

//go:embed static
var staticFS embed.FS

//go:embed views
var viewsFS embed.FS

type options struct {
	Port            string `long:"port" env:"BIND_PORT" default:"3000" description:"port to listen on"`
	Interface       string `long:"interface" env:"BIND_INTERFACE" description:"bind to the IPv4 address of this interface"`
	AllowedNetworks string `long:"allowed-networks" env:"ALLOWED_NETWORKS" description:"comma-separated CIDRs allowed to connect, local subnets if empty"`
	DB              string `long:"db" env:"MODE_SWITCH_DB" default:"./data/events.db" description:"theme event database file"`
	Env             string `long:"env" env:"ENV" default:"prod" description:"environment, dev serves views and static files from disk"`
	RateLimit       int    `long:"rate-limit" env:"API_RATE_LIMIT" default:"20" description:"api requests per minute per client IP"`
	Debug           bool   `long:"dbg" env:"DEBUG" description:"debug mode"`
}

func (o options) dev() bool {
	return strings.Contains(strings.ToLower(o.Env), "dev")
}

func main() {
	// .env has to be in place before flags read the environment
	if strings.Contains(strings.ToLower(os.Getenv("ENV")), "dev") {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("error loading .env file: %v\n", err)
			os.Exit(1)
		}
	}

	var opts options
	p := flags.NewParser(&opts, flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			p.WriteHelp(os.Stderr)
			os.Exit(2)
		}
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	setupLogs(opts.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	events, err := db.Open(opts.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer events.Close()

	app, err := newApp(opts, events)
	if err != nil {
		return err
	}

	bindAddr, err := middleware.BindAddr(opts.Port, opts.Interface)
	if err != nil {
		return fmt.Errorf("failed to determine bind address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] starting server on %s", bindAddr)
		errCh <- app.Listen(bindAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("[INFO] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}

func newApp(opts options, events handlers.EventStore) (*fiber.App, error) {
	var engine *html.Engine
	var staticSub fs.FS

	if opts.dev() {
		engine = html.New("./views", ".html")
		engine.Debug(true)
		log.Printf("[INFO] development mode, serving views and static files from disk")
	} else {
		viewsSub, err := fs.Sub(viewsFS, "views")
		if err != nil {
			return nil, fmt.Errorf("failed to create views filesystem: %w", err)
		}
		if staticSub, err = fs.Sub(staticFS, "static"); err != nil {
			return nil, fmt.Errorf("failed to create static filesystem: %w", err)
		}
		engine = html.NewFileSystem(http.FS(viewsSub), ".html")
	}
	engine.AddFuncMap(sprig.FuncMap())

	app := handlers.NewApp(engine)
	app.Use(logger.New())

	ipFilter, err := middleware.NewIPFilter(opts.AllowedNetworks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize IP filter: %w", err)
	}
	app.Use(ipFilter)

	if opts.dev() {
		app.Static("/static", "./static")
	} else {
		app.Get("/static/*", handlers.Static("/static/", staticSub))
	}

	handlers.New(events).Register(app, middleware.RateLimit(opts.RateLimit, time.Minute))
	return app, nil
}

func setupLogs(debug bool) {
	log.Setup(log.Msec, log.LevelBraces)
	if debug {
		log.Setup(log.Debug, log.CallerFile, log.CallerFunc, log.Msec, log.LevelBraces)
	}
}
