package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/config"
)

const envPrefix = "DOMAINKIT"

type rootOptions struct {
	v       *viper.Viper
	cfgFile string

	cfg    config.Config
	logger domainkit.LoggerAdapter
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.NewViper(envPrefix)}

	rootCmd := &cobra.Command{
		Use:   "domainkit-demo",
		Short: "Runs the order scenario on domainkit.",
		Long: `Runs the order scenario on domainkit.

Orders are placed, priced and confirmed, saved to SQLite and their domain events
are dispatched to the mediator handlers after the commit.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (YAML)")

	outputFlags := pflag.NewFlagSet("output", pflag.ExitOnError)
	outputFlags.String("log-backend", "std", "Logger backend: std, slog, zap or nop")
	ensure(opts.v.BindPFlag("logging.backend", outputFlags.Lookup("log-backend")))

	outputFlags.BoolP("debug", "d", false, "If true, debug output is enabled from the logger")
	ensure(opts.v.BindPFlag("logging.debug", outputFlags.Lookup("debug")))

	outputFlags.Bool("trace", false, "If true, trace output is enabled from the logger")
	ensure(opts.v.BindPFlag("logging.trace", outputFlags.Lookup("trace")))

	outputFlags.String("write-config", "", "Write the config of the current command as yaml to the specified path")

	rootCmd.PersistentFlags().AddFlagSet(outputFlags)

	rootCmd.AddCommand(newRunCmd(opts))

	return rootCmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
		if err := o.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "cannot read config file %s", o.cfgFile)
		}
	}

	cfg, err := config.FromViper(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	o.logger, err = cfg.Logging.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	writeConfig, err := cmd.Flags().GetString("write-config")
	if err != nil {
		return err
	}
	if writeConfig != "" {
		if err := o.writeConfig(writeConfig); err != nil {
			return err
		}
	}

	return nil
}

func (o *rootOptions) writeConfig(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create file for write")
	}
	defer f.Close()

	return config.WriteYAML(o.v, f)
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}
