package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"menu-audit/internal/config"
	"menu-audit/internal/profile"
	"menu-audit/internal/ui"
)

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List rule profiles in resolution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			reg, err := cfg.Registry()
			if err != nil {
				return fmt.Errorf("failed to load profiles: %w", err)
			}

			fmt.Printf("Profiles %s (first keyword match wins)\n\n", reg.Version())
			profilesTable(reg).Print(os.Stdout)
			return nil
		},
	}
}

func profilesTable(reg *profile.Registry) *ui.Table {
	table := ui.NewTable("名稱", "模式", "關鍵字", "版面")
	for _, p := range reg.Profiles() {
		var layouts []string
		if p.Weekly != nil {
			layouts = append(layouts, "週菜單")
		}
		if p.Daily != nil {
			layouts = append(layouts, "每日營養")
		}
		table.Append(p.Name, p.Title, strings.Join(p.Keywords, "、"), strings.Join(layouts, "、"))
	}
	return table
}
