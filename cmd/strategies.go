package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/knockoff/internal/assembly"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies [namespace]",
	Short: "List the built-in strategies, sinks, readers and functions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := assembly.DefaultRegistry(assembly.Deps{})

		namespaces := assembly.Namespaces()
		if len(args) == 1 {
			namespaces = []string{args[0]}
		}

		for _, ns := range namespaces {
			names, err := registry.Names(ns)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", color.CyanString("%-12s", ns), strings.Join(names, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
