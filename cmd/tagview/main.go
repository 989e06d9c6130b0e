// Package main provides the tagview CLI, which renders tag and listing
// payloads into the card view each viewer role should see.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tagandtake/tagandtake-server/internal/config"
	"github.com/tagandtake/tagandtake-server/internal/di"
	"github.com/tagandtake/tagandtake-server/internal/errors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tagview: %v\n", err)
		stop()
		os.Exit(errors.ExitCode(err))
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	overrides config.Overrides
	noColor   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tagview",
		Short: "Render tag-and-take listing cards",
		Long: `tagview turns tag and listing payloads into the card a given viewer sees:
the lifecycle category, the status banner and the single primary action.
Owners, store hosts and everyone else each get their own view, with
private details such as the collection pin removed before rendering.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.overrides.Env, "env", "", "Environment: development, staging or production (env ENV)")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", "", "Log level: debug, info, warn or error (env LOG_LEVEL)")
	flags.StringVar(&opts.overrides.LogFormat, "log-format", "", "Log format: json or pretty (env LOG_FORMAT)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored log output (env NO_COLOR)")
	flags.StringVar(&opts.overrides.Locale, "locale", "", "Locale for numbers, BCP 47 (env TAGVIEW_LOCALE)")
	flags.StringVar(&opts.overrides.Currency, "currency", "", "Currency for prices, ISO 4217 (env TAGVIEW_CURRENCY)")
	flags.StringVar(&opts.overrides.TimeZone, "timezone", "", "Time zone for dates, IANA name (env TAGVIEW_TIMEZONE)")
	flags.StringVar(&opts.overrides.EnvFile, "env-file", "", "Path to a .env file (default .env)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newSampleCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// load resolves the configuration and bootstraps the container. Callers
// must shut the returned injector down.
func (o *rootOptions) load(cmd *cobra.Command) (*do.RootScope, *config.Config, error) {
	if cmd.Flags().Changed("no-color") {
		o.overrides.NoColor = strconv.FormatBool(o.noColor)
	}

	cfg, err := config.Load(o.overrides)
	if err != nil {
		return nil, nil, err
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		injector.Shutdown()
		return nil, nil, errors.Wrap(err, errors.CodeInternal, "failed to bootstrap")
	}
	return injector, cfg, nil
}
