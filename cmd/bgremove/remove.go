package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"bgremover/internal/common/fsutil"
	"bgremover/internal/session"
)

func newRemoveCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:     "remove <image>...",
		Short:   "Write a transparent-background PNG for each image",
		Example: "  bgremove remove portrait.jpg\n  bgremove remove -o out/ a.png b.webp",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.remove(ctx, args, outDir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to each input's directory)")
	return cmd
}

// remove runs the files one after another through a single processor so the
// model is initialized once. A failing file does not stop the rest.
func (a *app) remove(ctx context.Context, files []string, outDir string, stdout io.Writer) error {
	mgr, err := a.newManager()
	if err != nil {
		return err
	}
	segCfg := a.cfg.SegmentConfig()
	proc := session.New(session.Config{Models: mgr, Segment: &segCfg, Logger: &a.log})
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var errs []error
	for _, in := range files {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		out, err := a.removeOne(ctx, proc, in, outDir)
		if err != nil {
			a.log.Error().Err(err).Str("file", in).Msg("remove failed")
			errs = append(errs, fmt.Errorf("%s: %w", in, err))
			continue
		}
		fmt.Fprintln(stdout, out)
	}
	proc.Teardown()
	return errors.Join(errs...)
}

func (a *app) removeOne(ctx context.Context, proc *session.Processor, in, outDir string) (string, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return "", err
	}
	if _, err := proc.Run(ctx, session.Upload{Name: filepath.Base(in), Data: data}); err != nil {
		return "", err
	}
	name, png, ok := proc.Download()
	if !ok {
		return "", errors.New("no result produced")
	}
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	out := filepath.Join(dir, name)
	if err := fsutil.WriteFileAtomic(out, png, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return out, nil
}
