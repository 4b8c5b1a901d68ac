// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pakewrapper/internal/config"
	"pakewrapper/internal/logger"
	"pakewrapper/internal/runner"
	"pakewrapper/internal/session"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	pakePath    string
	width       int
	height      int
	noMultiArch bool
	noColor     bool
	verbose     bool
}

func (o *globalOptions) bind(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&o.configPath, "config", "", "config file (default: <user config dir>/pakewrapper/config.yaml)")
	fs.StringVar(&o.pakePath, "pake-path", "", "path to the pake binary (default "+config.DefaultPakePath+")")
	fs.IntVar(&o.width, "width", 0, fmt.Sprintf("window width (default %d)", config.DefaultWidth))
	fs.IntVar(&o.height, "height", 0, fmt.Sprintf("window height (default %d)", config.DefaultHeight))
	fs.BoolVar(&o.noMultiArch, "no-multi-arch", false, "do not pass --multi-arch to pake")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&o.verbose, "verbose", false, "write debug records to the log file")
}

// resolveConfigPath returns the --config value or the default location.
func (o *globalOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return config.ResolvePath(o.configPath)
	}
	return config.DefaultConfigPath()
}

// load reads the config file and applies flags the user set explicitly.
func (o *globalOptions) load(cmd *cobra.Command) (config.Config, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("pake-path") {
		cfg.PakePath, err = config.ResolvePath(o.pakePath)
		if err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("width") {
		cfg.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Height = o.height
	}
	if o.noMultiArch {
		cfg.MultiArch = false
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

var (
	globals globalOptions

	urlFlag   string
	iconFlag  string
	assumeYes bool
)

var rootCmd = &cobra.Command{
	Use:   "pakewrapper",
	Short: "Turn a website into a desktop app with Pake",
	Long: `Interactively builds a desktop application bundle from a website using Pake.

Prompts for the site URL and an optional .icns/.png icon, shows the pake command
it is about to run and asks for confirmation. The build succeeds only when pake
exits cleanly and <name>.app appears in the current directory.

Defaults can be changed in the config file (see 'pakewrapper config path').`,
	Example: `  pakewrapper
  pakewrapper --url example.com --icon ~/icons/app.icns
  pakewrapper --url example.com --yes --width 1440 --height 900`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if globals.noColor {
			color.NoColor = true
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := presetInputs(cmd, urlFlag, iconFlag)
		if err != nil {
			return err
		}
		os.Exit(runBuild(cmd, inputs, assumeYes))
		return nil
	},
}

// presetInputs returns the inputs given by --url and --icon, or nil when the
// session should prompt for them. --icon on its own is rejected.
func presetInputs(cmd *cobra.Command, url, icon string) (*session.Inputs, error) {
	flags := cmd.Flags()
	if !flags.Changed("url") {
		if flags.Changed("icon") {
			return nil, errors.New("--icon requires --url")
		}
		return nil, nil
	}
	return &session.Inputs{URL: url, Icon: icon}, nil
}

func RunCLI() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	globals.bind(rootCmd)
	rootCmd.Flags().StringVar(&urlFlag, "url", "", "site URL; skips the URL and icon prompts")
	rootCmd.Flags().StringVar(&iconFlag, "icon", "", "icon path (.icns or .png), used with --url")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "build without asking for confirmation")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration and opens the log file. The returned logger
// must be closed by the caller.
func setup(cmd *cobra.Command) (config.Config, *logger.Logger, bool) {
	cfg, err := globals.load(cmd)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return config.Config{}, nil, false
	}

	logPath, err := config.ResolvePath(cfg.LogFile)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Warning: %v. File logging disabled.\n", err)
		logPath = ""
	}
	log, err := logger.New(logger.Options{FilePath: logPath, Console: os.Stderr, Verbose: globals.verbose})
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Warning: %v. File logging disabled.\n", err)
	}
	log.Debug("configuration loaded", "pake_path", cfg.PakePath, "width", cfg.Width, "height", cfg.Height, "multi_arch", cfg.MultiArch)
	return cfg, log, true
}

// newIndicator returns a spinner when stdout is a terminal, nil otherwise.
func newIndicator() runner.Indicator {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stdout))
	s.Color("cyan")
	s.Suffix = " Building..."
	return s
}

// runBuild runs one session and returns the process exit code.
func runBuild(cmd *cobra.Command, inputs *session.Inputs, yes bool) int {
	cfg, log, ok := setup(cmd)
	if !ok {
		return 1
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(cfg, log, session.Options{
		Inputs:    inputs,
		AssumeYes: yes,
		Indicator: newIndicator(),
	})
	return session.ExitCode(sess.Run(ctx))
}
