package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/starchen4/pptstealer"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *Config
	Converter pptstealer.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" type:"path" env:"PPTSTEALER_CONFIG" help:"YAML configuration file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Convert ConvertCmd `cmd:"" help:"Convert an article's slide images into a PDF"`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	URL         string         `arg:"" help:"Article URL"`
	Output      string         `short:"o" default:"." type:"path" help:"Output directory"`
	Name        string         `help:"Output filename (defaults to the article title)"`
	Browser     bool           `help:"Render the article in headless Chrome"`
	Concurrency *int           `short:"c" help:"Concurrent image downloads"`
	Timeout     *time.Duration `help:"Article fetch timeout"`
	Quiet       bool           `short:"q" help:"Do not render progress"`

	Filters FilterFlags `embed:""`
}

// FilterFlags override individual filter rules. Unset flags keep the
// configured value.
type FilterFlags struct {
	Domains      []string `name:"domain" help:"Allowed image host (repeatable)"`
	MinArea      *int     `help:"Minimum width*height in pixels"`
	MinWidth     *int     `help:"Minimum width in pixels"`
	MinHeight    *int     `help:"Minimum height in pixels"`
	AspectMin    *float64 `help:"Minimum width/height ratio"`
	AspectMax    *float64 `help:"Maximum width/height ratio"`
	TrimLeading  *int     `help:"Images dropped from the start"`
	TrimTrailing *int     `help:"Images dropped from the end"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `help:"Listen address (defaults to server.addr)"`
	StaticDir string `type:"path" help:"Directory with a web frontend to serve at /"`
}

// Apply returns rules with every set flag applied.
func (f FilterFlags) Apply(rules pptstealer.FilterRules) pptstealer.FilterRules {
	if len(f.Domains) > 0 {
		rules.AllowedDomains = append([]string(nil), f.Domains...)
	}
	setInt(&rules.MinArea, f.MinArea)
	setInt(&rules.MinWidth, f.MinWidth)
	setInt(&rules.MinHeight, f.MinHeight)
	setInt(&rules.TrimLeading, f.TrimLeading)
	setInt(&rules.TrimTrailing, f.TrimTrailing)
	if f.AspectMin != nil {
		rules.AspectRatioMin = *f.AspectMin
	}
	if f.AspectMax != nil {
		rules.AspectRatioMax = *f.AspectMax
	}
	return rules
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// applyTo copies the flags that shape the pipeline into cfg.
func (c *ConvertCmd) applyTo(cfg *Config) {
	if c.Browser {
		cfg.Fetch.Browser = true
	}
	if c.Concurrency != nil {
		cfg.Download.Concurrency = *c.Concurrency
	}
	if c.Timeout != nil {
		cfg.Fetch.Timeout = *c.Timeout
	}
}
