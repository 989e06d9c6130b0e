package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tagandtake/tagandtake-server/internal/di/providers"
	"github.com/tagandtake/tagandtake-server/internal/errors"
	"github.com/tagandtake/tagandtake-server/internal/lifecycle"
	"github.com/tagandtake/tagandtake-server/internal/logger"
	"github.com/tagandtake/tagandtake-server/internal/service"
	"github.com/tagandtake/tagandtake-server/internal/watch"
)

const stdinSource = "stdin"

type renderOptions struct {
	authenticated bool
	memberID      string
	storeID       string
	authFile      string
	withRecord    bool
	watch         bool
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render listing payloads as card views",
		Long: `Render reads one listing payload per file (or a single payload from stdin
when no files are given) and prints the card view for the caller described
by the auth flags. Records that cannot be rendered are reported in place
and the command exits non-zero once every input has been processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := opts.auth(cmd)
			if err != nil {
				return err
			}
			if opts.watch && len(args) == 0 {
				return errors.Validation("--watch needs at least one file")
			}

			injector, cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer injector.Shutdown()

			r := &renderer{
				svc:        do.MustInvoke[*service.ViewService](injector),
				log:        do.MustInvoke[*logger.Logger](injector),
				out:        newPrinter(cmd.OutOrStdout(), cfg.Output.Format),
				auth:       auth,
				withRecord: opts.withRecord,
			}

			ctx := cmd.Context()
			if len(args) == 0 {
				return r.renderReader(ctx, stdinSource, cmd.InOrStdin())
			}

			renderErr := r.renderFiles(ctx, args)
			if !opts.watch {
				return renderErr
			}

			do.ProvideValue(injector, providers.WatchPaths(args))
			handle, err := do.Invoke[*providers.WatcherHandle](injector)
			if err != nil {
				return errors.Wrap(err, errors.CodeNotFound, "failed to watch inputs")
			}
			if err := r.watch(ctx, handle.Watcher, watchSources(args)); err != nil {
				return err
			}
			return renderErr
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.authenticated, "authenticated", false, "Render for a signed-in caller")
	flags.StringVar(&opts.memberID, "member-id", "", "Member id of the signed-in caller")
	flags.StringVar(&opts.storeID, "store-id", "", "Store id the signed-in caller hosts")
	flags.StringVar(&opts.authFile, "auth-file", "", "Read the auth state from a JSON file")
	flags.StringVarP(&root.overrides.Output, "output", "o", "", "Output format: json or text (env TAGVIEW_OUTPUT)")
	flags.BoolVar(&opts.withRecord, "with-record", false, "Include the redacted record in JSON output")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Re-render files when they change")
	flags.StringVar(&root.overrides.Debounce, "debounce", "", "Quiet period before re-rendering (env TAGVIEW_WATCH_DEBOUNCE)")

	return cmd
}

// auth builds the caller's auth state from --auth-file or the identity flags.
// Passing an id implies --authenticated.
func (o *renderOptions) auth(cmd *cobra.Command) (lifecycle.AuthState, error) {
	identity := cmd.Flags().Changed("authenticated") || o.memberID != "" || o.storeID != ""

	if o.authFile != "" {
		if identity {
			return lifecycle.AuthState{}, errors.Validation("--auth-file cannot be combined with --authenticated, --member-id or --store-id")
		}
		data, err := os.ReadFile(o.authFile)
		if err != nil {
			return lifecycle.AuthState{}, errors.Wrapf(err, errors.CodeNotFound, "failed to read auth file %s", o.authFile)
		}
		var auth lifecycle.AuthState
		if err := json.Unmarshal(data, &auth); err != nil {
			return lifecycle.AuthState{}, errors.Wrapf(err, errors.CodeValidation, "invalid auth file %s", o.authFile)
		}
		return auth, nil
	}

	return lifecycle.AuthState{
		Authenticated: o.authenticated || o.memberID != "" || o.storeID != "",
		MemberID:      lifecycle.ID(o.memberID),
		StoreID:       lifecycle.ID(o.storeID),
	}, nil
}

// renderer evaluates inputs and prints one entry per input.
type renderer struct {
	svc        *service.ViewService
	log        *logger.Logger
	out        *printer
	auth       lifecycle.AuthState
	withRecord bool
}

// renderFiles renders every file, reporting failures in place. The returned
// error summarizes the failures and carries the first one's exit status.
func (r *renderer) renderFiles(ctx context.Context, paths []string) error {
	var (
		first  error
		failed int
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.renderFile(ctx, path); err != nil {
			if first == nil {
				first = err
			}
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d listings could not be rendered: %w", failed, len(paths), first)
}

func (r *renderer) renderFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, errors.CodeNotFound, "failed to open %s", path)
		return r.fail(path, err)
	}
	defer f.Close()

	return r.renderReader(ctx, path, f)
}

func (r *renderer) renderReader(ctx context.Context, source string, in io.Reader) error {
	payload, err := io.ReadAll(in)
	if err != nil {
		return r.fail(source, errors.Wrapf(err, errors.CodeNotFound, "failed to read %s", source))
	}

	ev, err := r.svc.Evaluate(ctx, service.EvaluateRequest{
		Source:        source,
		Payload:       payload,
		Auth:          r.auth,
		IncludeRecord: r.withRecord,
	})
	if err != nil {
		return r.fail(source, err)
	}

	if err := r.out.Evaluation(ev); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write output")
	}
	return nil
}

// fail prints a failure entry and returns err.
func (r *renderer) fail(source string, err error) error {
	if werr := r.out.Failure(source, err); werr != nil {
		r.log.WithError(werr).Error("failed to write output", "source", source)
	}
	return err
}

// watchSources maps the absolute paths the watcher reports back to the
// paths as given on the command line.
func watchSources(paths []string) map[string]string {
	sources := make(map[string]string, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		sources[abs] = path
	}
	return sources
}

// watch re-renders files as they settle until ctx is done. Entries keep the
// source names from sources when the watcher's path is listed there.
func (r *renderer) watch(ctx context.Context, w *watch.Watcher, sources map[string]string) error {
	r.log.Info("Watching for changes, press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.Events():
			source, ok := sources[ev.Path]
			if !ok {
				source = ev.Path
			}
			log := r.log.WithField("path", source)
			if ev.Type == watch.EventRemoved {
				log.Warn("listing file removed")
				continue
			}
			log.Debug("re-rendering")
			// Failures are already printed; keep watching.
			_ = r.renderFile(ctx, source)
		case err := <-w.Errors():
			r.log.WithError(err).Warn("file watcher error")
		}
	}
}
