// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pakewrapper/internal/logger"
	"pakewrapper/internal/preflight"
	"pakewrapper/internal/session"
	"pakewrapper/internal/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Collect the URL and icon in a full-screen form",
	Long: `Opens a terminal form for the site URL and icon, validates each field as it is
submitted and previews the pake command before asking for confirmation.
Press ctrl+c at any time to abort.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runTUI(cmd))
	},
}

func runTUI(cmd *cobra.Command) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		errorColor.Fprintln(os.Stderr, "Error: the form needs an interactive terminal. Run 'pakewrapper' without 'tui' to use plain prompts.")
		return 1
	}

	cfg, log, ok := setup(cmd)
	if !ok {
		return 1
	}
	defer log.Close()

	if err := preflight.Check(cfg.PakePath, os.Geteuid()); err != nil {
		log.Errorf("Error: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := &session.Inputs{}
	sess := session.New(cfg, log, session.Options{
		Inputs:    inputs,
		AssumeYes: true,
		Indicator: newIndicator(),
	})

	res, err := ui.Run(cfg.PakeOptions(), os.Stdin, os.Stdout)
	return finishForm(ctx, log, sess, inputs, res, err)
}

// finishForm acts on the outcome of the form and returns the exit code. inputs
// must be the Inputs sess was created with.
func finishForm(ctx context.Context, log *logger.Logger, sess *session.Session, inputs *session.Inputs, res ui.Result, formErr error) int {
	if formErr != nil {
		log.Errorf("Error: %v", formErr)
		return 1
	}
	switch {
	case res.Aborted:
		return session.ExitCode(sess.Interrupted())
	case !res.Confirmed:
		return session.ExitCode(sess.Cancelled())
	}

	inputs.URL = res.URL
	inputs.Icon = res.Icon
	return session.ExitCode(sess.Run(ctx))
}
