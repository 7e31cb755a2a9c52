package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"menu-audit/internal/audit"
	"menu-audit/internal/logger"
	"menu-audit/internal/scanner"
)

func watchCmd() *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Audit workbooks as they are dropped into the inbox",
		Long: `Watch the inbox (or dir) and audit every workbook that is created or
saved there, one at a time. Highlighted copies are never audited again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			cfg, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			dir := cfg.Input.Dir
			if len(args) == 1 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("failed to resolve %s: %w", args[0], err)
				}
			}
			if profileName == "" {
				profileName = cfg.Profiles.Default
			}

			auditor, err := newAuditor(cfg, profileName)
			if err != nil {
				return err
			}

			accept := func(rel string) bool {
				return scanner.Matches(rel, cfg.Input.Patterns) &&
					!cfg.ShouldExclude(rel) &&
					!cfg.IsRejectCopy(rel)
			}
			w, err := scanner.NewWatcher(dir, accept, scanner.DefaultDebounce)
			if err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("Press Ctrl+C to stop.")
			err = w.Run(ctx, func(path string) {
				printResult(auditFile(cfg, auditor, audit.Input{Path: path, Profile: profileName}))
			})
			logger.Info("Watcher stopped")
			return err
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Audit every file with this profile instead of resolving it from the file name")
	return cmd
}
