package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	pphttp "github.com/starchen4/pptstealer/http"
)

// Run executes the serve command. It returns once the context is canceled
// and in-flight requests have drained, or the shutdown timeout expires.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg := deps.Config.Server
	addr := cmp.Or(c.Addr, cfg.Addr)
	staticDir := cmp.Or(c.StaticDir, cfg.StaticDir)

	opts := []pphttp.ServerOption{
		pphttp.WithDefaultRules(deps.Config.Filters),
		pphttp.WithLogger(deps.Logger),
	}
	if staticDir != "" {
		opts = append(opts, pphttp.WithStaticDir(staticDir))
	}

	srv := &http.Server{
		Handler:           pphttp.NewServer(deps.Converter, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", ln.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
