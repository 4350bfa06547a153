package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bgremover/internal/httpapi"
	"bgremover/internal/janitor"
	"bgremover/internal/preview"
	"bgremover/internal/session"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the local preview UI",
		Example: "  bgremove serve\n  bgremove serve --addr 127.0.0.1:9000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	mgr, err := a.newManager()
	if err != nil {
		return err
	}
	segCfg := a.cfg.SegmentConfig()
	proc := session.New(session.Config{Models: mgr, Segment: &segCfg, Logger: &a.log})

	idle, _ := a.cfg.IdleTimeoutDuration()
	j := janitor.New(proc, idle, idle/4, &a.log)
	if err := j.Start(); err != nil {
		return err
	}
	svc := preview.New(proc, mgr, j, &a.log)

	httpapi.SetLogger(a.log)
	httpapi.SetMaxBodyBytes(int64(a.cfg.MaxUploadMB) << 20)
	httpapi.SetBaseContext(ctx)
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.Addr).Str("model", mgr.Spec().Path).Msg("bgremove listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn().Err(err).Msg("graceful shutdown error")
	}
	j.Stop(shutdownCtx)
	svc.Wait()
	proc.Teardown()
	return nil
}
