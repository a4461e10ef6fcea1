package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/majorwise/majorwise/internal/menu"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule base",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		adv, err := newAdvisor()
		if err != nil {
			return err
		}
		defer adv.Close()

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(adv.Rules())
		}
		menu.PrintRules(cmd.OutOrStdout(), adv.Rules())
		return nil
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

func init() {
	rulesCmd.Flags().BoolVar(&jsonOutput, "json", false, "print rules as JSON")
}

func runMenu(cmd *cobra.Command, args []string) error {
	adv, err := newAdvisor()
	if err != nil {
		return err
	}
	defer adv.Close()

	return menu.New(adv, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}
