package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var togglesCmd = &cobra.Command{
	Use:   "toggles",
	Short: "Manage consent demo toggles",
}

var togglesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List consent demo toggles",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		toggles, err := db.ListToggles()
		if err != nil {
			return err
		}

		if len(toggles) == 0 {
			fmt.Println("No toggles set. Set one with: mediq toggles set <name> on")
			return nil
		}

		for _, t := range toggles {
			state := "off"
			if t.Enabled {
				state = "on "
			}
			fmt.Printf("  [%s] %s\n", state, t.Name)
		}
		return nil
	},
}

var togglesSetCmd = &cobra.Command{
	Use:   "set [name] [on|off]",
	Short: "Set a consent demo toggle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		switch args[1] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("state must be 'on' or 'off', got %q", args[1])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SetToggle(args[0], enabled); err != nil {
			return err
		}
		fmt.Printf("Toggle %s: %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	togglesCmd.AddCommand(togglesListCmd)
	togglesCmd.AddCommand(togglesSetCmd)
	rootCmd.AddCommand(togglesCmd)
}
