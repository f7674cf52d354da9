package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/keelpm/keel"
	"github.com/keelpm/keel/resolver"
)

var showCmd = &cobra.Command{
	Use:   "show <name-prefix>",
	Short: "List candidates whose name starts with a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(manifestPaths) == 0 {
			return errors.New("at least one --manifest is required")
		}

		manifests, err := keel.LoadManifests(manifestPaths...)
		if err != nil {
			return err
		}

		merged := resolver.Merge(manifests...)
		found := false
		merged.WalkPrefix(args[0], func(name string, pkgs []*resolver.Package) {
			found = true
			for _, p := range pkgs {
				cmd.Printf("%s (manifest %d)\n", p, p.Rank())
			}
		})
		if !found {
			return errors.Errorf("no package matches prefix %q", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
