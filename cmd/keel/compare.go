package main

import (
	"github.com/spf13/cobra"

	"github.com/keelpm/keel/resolver"
)

var compareCmd = &cobra.Command{
	Use:   "compare <version> <version>",
	Short: "Show how two version strings order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := resolver.ParseVersion(args[0])
		if err != nil {
			return err
		}
		b, err := resolver.ParseVersion(args[1])
		if err != nil {
			return err
		}

		op := "=="
		switch a.Compare(b) {
		case -1:
			op = "<"
		case 1:
			op = ">"
		}
		cmd.Printf("%s %s %s\n", a, op, b)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
