package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"menu-audit/internal/config"
	"menu-audit/internal/logger"
)

const (
	appName    = "Menu Audit"
	appVersion = "1.0.0"
	appDesc    = "Rule-driven auditor for canteen menu spreadsheets"
)

// Flags shared by every subcommand.
var (
	configPath string
	verbose    bool
	outputDir  string
)

func main() {
	// Double-clicked from Explorer: keep the console open on exit.
	interactive := len(os.Args) == 1
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
			if interactive {
				waitForEnter()
			}
			os.Exit(2)
		}
	}()

	code := run(os.Args[1:])
	if interactive {
		waitForEnter()
	}
	os.Exit(code)
}

func run(args []string) int {
	root := rootCmd()
	if len(args) == 0 {
		args = []string{"audit"}
	}
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFailures) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "menu-audit",
		Short:         appDesc,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `menu-audit checks weekly and daily canteen menu workbooks against the
rule profile picked from the file name, and writes a highlighted copy of every
workbook that breaks a rule.`,
	}
	cmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n%s\n", appName, appVersion, appDesc))

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	cmd.PersistentFlags().StringVar(&outputDir, "output", "", "Override output directory from config")

	cmd.AddCommand(auditCmd(), watchCmd(), profilesCmd())
	return cmd
}

// setup loads the configuration and starts the logger. The caller must
// call logger.Close.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if outputDir != "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve --output: %w", err)
		}
		cfg.Output.Dir = abs
		if err := cfg.EnsureOutputDir(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logPath := filepath.Join(cfg.Output.Dir, "menu_audit.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		cfg.Print()
	}
	return cfg, nil
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                     MENU AUDIT v1.0.0                     ║
║          Canteen Menu Spreadsheet Compliance Check        ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
