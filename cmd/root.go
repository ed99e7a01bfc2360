// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/log/level"
	"github.com/luxfi/rsvctl/cmd/deploycmd"
	"github.com/luxfi/rsvctl/cmd/flags"
	"github.com/luxfi/rsvctl/cmd/forkcmd"
	"github.com/luxfi/rsvctl/cmd/keycmd"
	"github.com/luxfi/rsvctl/pkg/application"
	"github.com/luxfi/rsvctl/pkg/config"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/prompts"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// nonInteractiveHint is appended to every prompt refused in non-interactive mode.
const nonInteractiveHint = "pass --yes to confirm, or write the address book with 'rsvctl fork init' from a terminal"

var (
	app        *application.App
	logFactory luxlog.Factory

	logLevel       string
	Version        = "0.1.0"
	cfgFile        string
	nonInteractive bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "rsvctl",
		Long: `rsvctl deploys the Reserve (RSV) stablecoin system and migrates a live
deployment to a new Reserve, Manager and Relayer without losing balances.

COMMAND OVERVIEW:

  deploy      Deploy and wire a complete Reserve system
  fork        Migrate a live system to a new generation
  key         Show the owner, daily and temp accounts

The fork happens in two halves. The first half is performed by the temp
account and touches nothing users depend on. The second half is performed
by the owner and daily accounts; upgrading the old Reserve cannot be undone.

QUICK START:

  # Rehearse the whole fork against a simulated chain
  rsvctl fork run --simulate

  # Against a real chain
  rsvctl deploy --rpc-url http://127.0.0.1:8545 --artifacts-dir build/contracts
  rsvctl fork first-half
  rsvctl fork second-half
  rsvctl fork confirm --smoke

For detailed command help, use: rsvctl <command> --help`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rsvctl/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level for the application")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false,
		"Disable prompts; fail if required values are missing (also enabled when stdin is not a TTY or CI=1)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Show only errors (quiet mode)")
	flags.AddChainFlags(rootCmd.PersistentFlags())
	cobra.CheckErr(flags.BindChainFlags(viper.GetViper(), rootCmd.PersistentFlags()))

	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(forkcmd.NewCmd(app))
	rootCmd.AddCommand(keycmd.NewCmd(app))

	return rootCmd
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}

	// Adjust log level based on flags BEFORE any logging happens
	if cmd.Flags().Changed("debug") {
		logFactory.SetLogLevel("rsvctl", luxlog.Level(level.Debug))
		logFactory.SetDisplayLevel("rsvctl", luxlog.Level(level.Debug))
	} else if cmd.Flags().Changed("verbose") {
		logFactory.SetLogLevel("rsvctl", luxlog.Level(level.Info))
		logFactory.SetDisplayLevel("rsvctl", luxlog.Level(level.Info))
	} else if cmd.Flags().Changed("quiet") {
		logFactory.SetLogLevel("rsvctl", luxlog.Level(level.Error))
		logFactory.SetDisplayLevel("rsvctl", luxlog.Level(level.Error))
	} else if logLevel != "" {
		level, err := luxlog.ToLevel(logLevel)
		if err == nil {
			logFactory.SetLogLevel("rsvctl", level)
			logFactory.SetDisplayLevel("rsvctl", level)
		}
	}

	// If --non-interactive flag is set, propagate to env so IsInteractive() sees it
	if nonInteractive {
		_ = os.Setenv(prompts.EnvNonInteractive, "1")
	}
	prompter := prompts.NewPrompterForMode(nonInteractive, nonInteractiveHint)
	app.Setup(baseDir, log, config.New(), prompter)

	return initConfig()
}

func setupEnv() (string, error) {
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)

	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (luxlog.Logger, error) {
	config := luxlog.Config{}
	config.LogLevel = luxlog.Level(-6) // Info level for file logging

	// Set default display level to WARN (quiet by default)
	config.DisplayLevel, _ = luxlog.ToLevel("WARN")

	config.Directory = filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(config.Directory, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	config.LogFormat = luxlog.Colors
	config.MaxSize = constants.MaxLogFileSize
	config.MaxFiles = constants.MaxNumOfLogFiles
	config.MaxAge = constants.RetainOldFiles

	// Register ux package as internal so caller tracking shows actual source, not the wrapper
	luxlog.RegisterInternalPackages("github.com/luxfi/rsvctl/pkg/ux")

	factory := luxlog.NewFactoryWithConfig(config)
	log, err := factory.Make("rsvctl")
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	// Store factory globally so we can adjust levels later
	logFactory = factory
	// User output goes to stdout, logs go to the log file
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig() error {
	config.SetDefaults(viper.GetViper())
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(app.GetBaseDir())
		viper.SetConfigType(constants.DefaultConfigFileType)
		viper.SetConfigName(constants.DefaultConfigFileName)
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed reading config file %s: %w", cfgFile, err)
		}
		// No config file is normal, most users don't have one
		return nil
	}
	app.Log.Debug("using config file", "config-file", viper.ConfigFileUsed())
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		stop()
		os.Exit(1)
	}
}
