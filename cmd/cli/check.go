// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"os"

	"pakewrapper/internal/preflight"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that pake is installed and that pakewrapper is not running as root",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log, ok := setup(cmd)
		if !ok {
			os.Exit(1)
		}
		defer log.Close()

		statusColor.Printf("Checking pake at %s...\n", identifierColor.Sprint(cfg.PakePath))
		if err := preflight.Check(cfg.PakePath, os.Geteuid()); err != nil {
			log.Errorf("Error: %v", err)
			log.Close()
			os.Exit(1)
		}
		successColor.Println("Environment OK.")
	},
}
