package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var planBlueprint string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate a blueprint and show its build order",
	Long: `Build the dependency graph of a blueprint without generating anything and
print the nodes in the order run would visit them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sess, err := newSession(cmd.Context(), cfg, cfg.Generation.Seed, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		_, bp, err := sess.blueprint(planBlueprint)
		if err != nil {
			return err
		}
		order, err := bp.Order()
		if err != nil {
			return err
		}

		color.Cyan("📋 Build order (%d nodes)", len(order))
		for i, n := range order {
			deps, err := bp.DependenciesOf(n.ID)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%3d. %-32s %s", i+1, n.ID, n.Strategy())
			if len(deps) > 0 {
				names := make([]string, len(deps))
				for j, d := range deps {
					names[j] = d.String()
				}
				line += color.HiBlackString("  ← %s", strings.Join(names, ", "))
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVarP(&planBlueprint, "blueprint", "b", "", "Blueprint file (default from config)")
}
