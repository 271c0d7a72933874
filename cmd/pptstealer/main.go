package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/starchen4/pptstealer"
	"github.com/starchen4/pptstealer/goquery"
	pphttp "github.com/starchen4/pptstealer/http"
	"github.com/starchen4/pptstealer/pdfcpu"
	"github.com/starchen4/pptstealer/pipeline"
	"github.com/starchen4/pptstealer/rod"
	ppslog "github.com/starchen4/pptstealer/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Converter replaces the pipeline built from configuration. Set before
	// calling Run() for end-to-end testing.
	Converter pptstealer.Converter

	closer io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the article fetcher, stopping the browser if one was started.
func (m *Main) Close() error {
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pptstealer"),
		kong.Description("Turn the slide images of an article into a landscape A4 PDF."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pptstealer --help' to see available commands")
	}
	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", pptstealer.ErrorMessage(err))
		return err
	}
	if cmd == "convert" {
		cli.Convert.applyTo(cfg)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cmd, cli.Verbose),
		Config: cfg,
	}

	deps.Converter = m.Converter
	if deps.Converter == nil {
		converter, closer, err := NewConverter(cfg, deps.Logger)
		if err != nil {
			if cfg.Fetch.Browser {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or set fetch.browser_bin")
			}
			return fmt.Errorf("failed to start fetcher: %w", err)
		}
		m.closer = closer
		defer m.Close()
		deps.Converter = converter
	}

	return kongCtx.Run(deps)
}

// newLogger logs to w. The server logs requests at Info; the CLI only
// surfaces warnings unless verbose is set.
func newLogger(w io.Writer, cmd string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if cmd == "serve" {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewConverter wires the pipeline described by cfg. The returned closer
// releases the article fetcher.
func NewConverter(cfg *Config, logger *slog.Logger) (pptstealer.Converter, io.Closer, error) {
	var fetcher pptstealer.Fetcher
	if cfg.Fetch.Browser {
		opts := []rod.Option{
			rod.WithFetchTimeout(cfg.Fetch.Timeout),
			rod.WithBrowserOptions(
				rod.WithMaxPages(cfg.Fetch.MaxPages),
				rod.WithBrowserBin(cfg.Fetch.BrowserBin),
			),
		}
		if cfg.Fetch.UserAgent != "" {
			opts = append(opts, rod.WithUserAgent(cfg.Fetch.UserAgent))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			return nil, nil, err
		}
		fetcher = f
	} else {
		opts := []pphttp.Option{
			pphttp.WithTimeout(cfg.Fetch.Timeout),
			pphttp.WithMaxBodySize(cfg.Fetch.MaxPageSize),
		}
		if cfg.Fetch.UserAgent != "" {
			opts = append(opts, pphttp.WithUserAgent(cfg.Fetch.UserAgent))
		}
		fetcher = pphttp.NewFetcher(opts...)
	}

	downloadOpts := []pphttp.Option{
		pphttp.WithTimeout(cfg.Download.Timeout),
		pphttp.WithMaxBodySize(cfg.Download.MaxImageSize),
	}
	if cfg.Fetch.UserAgent != "" {
		downloadOpts = append(downloadOpts, pphttp.WithUserAgent(cfg.Fetch.UserAgent))
	}

	var assemblerOpts []pdfcpu.Option
	if cfg.PDF.Margin > 0 {
		assemblerOpts = append(assemblerOpts, pdfcpu.WithMargin(cfg.PDF.Margin))
	}

	p := &pipeline.Pipeline{
		Fetcher:   ppslog.NewLoggingFetcher(fetcher, logger),
		Extractor: goquery.NewExtractor(),
		Acquirer: &pipeline.Acquirer{
			Downloader:  ppslog.NewLoggingDownloader(pphttp.NewDownloader(downloadOpts...), logger),
			Concurrency: cfg.Download.Concurrency,
			RateLimit:   cfg.Download.RateLimit,
			RetryDelays: cfg.Download.RetryDelays,
		},
		Assembler: ppslog.NewLoggingAssembler(pdfcpu.NewAssembler(assemblerOpts...), logger),
	}

	return ppslog.NewLoggingConverter(p, logger), fetcher, nil
}
