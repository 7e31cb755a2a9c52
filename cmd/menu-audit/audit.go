package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"menu-audit/internal/audit"
	"menu-audit/internal/config"
	"menu-audit/internal/exporter"
	"menu-audit/internal/exporter/common"
	"menu-audit/internal/logger"
	"menu-audit/internal/model"
	"menu-audit/internal/profile"
	"menu-audit/internal/scanner"
	"menu-audit/internal/ui"
)

// blockedMessage is shown for files whose name matches no profile.
const blockedMessage = "檔名未包含指定關鍵字，系統拒絕審核"

// errFailures makes the process exit non-zero without printing anything
// beyond the per-file messages already shown.
var errFailures = errors.New("one or more files were blocked or could not be read")

func auditCmd() *cobra.Command {
	var (
		profileName string
		formats     string
	)

	cmd := &cobra.Command{
		Use:   "audit [files...]",
		Short: "Audit menu workbooks and write highlighted copies",
		Long: `Audit the given workbooks, or every workbook in the configured inbox
when no files are given. Files whose name matches no profile are refused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			cfg, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			if cmd.Flags().Changed("format") {
				cfg.Output.Formats = splitList(formats)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if profileName == "" {
				profileName = cfg.Profiles.Default
			}

			report, err := runAudit(cfg, args, profileName)
			if err != nil {
				logger.Error("Audit failed: %v", err)
				return err
			}

			logger.Info("✅ Audit Complete. Check [%s] directory.", cfg.Output.Dir)
			if report.HasFailures() {
				return errFailures
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Audit every file with this profile instead of resolving it from the file name")
	cmd.Flags().StringVar(&formats, "format", "", "Comma-separated report formats (excel,html,word,json); default from config")
	return cmd
}

func runAudit(cfg *config.Config, args []string, profileName string) (*model.Report, error) {
	pipeline := ui.NewPipeline(ui.AuditPhases())
	if verbose {
		pipeline.Disable()
	}

	// --- Phase 1: Loading ---
	logger.Info("Phase 1: Loading profiles and inputs...")
	loadBar := pipeline.NextPhase(2)

	auditor, err := newAuditor(cfg, profileName)
	if err != nil {
		return nil, err
	}
	loadBar.Increment()

	files, err := inputs(cfg, args)
	if err != nil {
		return nil, err
	}
	loadBar.Increment()
	loadBar.Finish()

	if len(files) == 0 {
		logger.Warn("No workbooks found in %s", cfg.Input.Dir)
	} else {
		logger.Info("Found %d workbook(s)", len(files))
	}

	// --- Phase 2: Auditing ---
	logger.Info("Phase 2: Auditing...")
	report := model.NewReport()
	auditBar := pipeline.NextPhase(len(files))
	for _, path := range files {
		auditBar.Describe(filepath.Base(path))
		report.Add(auditFile(cfg, auditor, audit.Input{Path: path, Profile: profileName}))
		auditBar.Increment()
	}
	auditBar.Finish()

	for _, fa := range report.Files {
		printResult(fa)
	}

	// --- Phase 3: Reporting ---
	logger.Info("Phase 3: Generating Reports...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	genBar := pipeline.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(report, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		genBar.Increment()
	}
	genBar.Finish()
	pipeline.Finish()

	sum := common.Summarize(report)
	pipeline.PrintSummary(fmt.Sprintf("\n審核 %d 個檔案：通過 %d · 退件 %d · 拒絕審核 %d · 檔案錯誤 %d · 問題 %d",
		sum.Files, sum.Passed, sum.Rejected, sum.Blocked, sum.Failed, sum.Findings))

	if len(exportErrors) > 0 {
		return report, fmt.Errorf("one or more exports failed: %w", errors.Join(exportErrors...))
	}
	return report, nil
}

// newAuditor loads the profile registry and highlight styles. A forced
// profile must exist in the registry.
func newAuditor(cfg *config.Config, profileName string) (*audit.Auditor, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	logger.Info("Profiles %s: %s", reg.Version(), strings.Join(reg.Names(), ", "))

	if profileName != "" {
		if _, err := reg.Get(profileName); err != nil {
			return nil, err
		}
		logger.Info("Every file is audited with profile %s", profileName)
	}

	styles, err := cfg.Styles()
	if err != nil {
		return nil, err
	}
	return audit.NewAuditor(reg, styles), nil
}

// inputs returns the explicit file arguments, or the inbox scan when none
// are given.
func inputs(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		return scanner.Scan(cfg.Input.Dir, cfg.Input.Patterns, cfg.Input.Exclude)
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		files = append(files, abs)
	}
	return files, nil
}

// auditFile audits one workbook and writes its annotated copy. Blocked and
// unreadable files are logged and reported, never fatal.
func auditFile(cfg *config.Config, a *audit.Auditor, in audit.Input) *model.FileAudit {
	res, err := a.Run(in)
	switch {
	case errors.Is(err, profile.ErrUnrecognizedIdentity):
		logger.Warn("%s: %s", res.File, blockedMessage)
		return res
	case err != nil:
		logger.Error("Failed to audit %s: %v", res.File, err)
		return res
	}

	logger.Debug("%s: profile %s, %d finding(s), %d sheet(s) skipped",
		res.File, res.Profile, len(res.Findings), len(res.Skipped))
	for _, f := range res.Findings {
		logger.LogFinding(res.File, f)
	}

	if res.Annotated != nil {
		out := cfg.RejectPath(res.File)
		if err := os.WriteFile(out, res.Annotated, 0644); err != nil {
			logger.Error("Failed to write annotated copy %s: %v", out, err)
		} else {
			res.Output = out
		}
	}
	return res
}

// printResult prints the outcome of one file and, when it was rejected, its
// findings table.
func printResult(fa *model.FileAudit) {
	mode := ""
	if fa.Mode != "" {
		mode = fmt.Sprintf("（%s）", fa.Mode)
	}

	switch fa.Status {
	case model.StatusPassed:
		logger.InfoClean("✅ %s%s %s", fa.File, mode, common.StatusLabel(fa.Status))
	case model.StatusBlocked:
		logger.InfoClean("⛔ %s：%s", fa.File, blockedMessage)
	case model.StatusFailed:
		logger.InfoClean("❌ %s：%s（%s）", fa.File, common.StatusLabel(fa.Status), fa.Error)
	case model.StatusRejected:
		logger.InfoClean("⚠ %s%s %s，%d 個問題", fa.File, mode, common.StatusLabel(fa.Status), len(fa.Findings))
		table := ui.NewTable("工作表", "日期", "儲存格", "類別", "說明")
		for _, f := range fa.Findings {
			table.Append(f.Sheet, f.Day, f.Cell(), f.Category.Label(), f.Reason)
		}
		table.Print(os.Stdout)
		if fa.Output != "" {
			logger.InfoClean("  → %s", fa.Output)
		}
	}
	fmt.Println()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
