package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/keelpm/keel"
	"github.com/keelpm/keel/resolver"
)

var strictBinaries bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <request>",
	Short: "Compute an ordered install plan for a request like \"a\" or \"a ~> 5.2\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(manifestPaths) == 0 {
			return errors.New("at least one --manifest is required")
		}

		manifests, err := keel.LoadManifests(manifestPaths...)
		if err != nil {
			return err
		}

		var installed map[string]*resolver.Package
		if installedPath != "" {
			installed, err = keel.LoadInstalled(installedPath)
			if err != nil {
				return err
			}
		}

		opts := []resolver.Option{resolver.WithLogger(log)}
		if len(platformTags) > 0 {
			opts = append(opts, resolver.WithPlatformTags(resolver.NewTagSet(platformTags...)))
		}
		if strictBinaries {
			opts = append(opts, resolver.WithBinaryVerifier(resolver.FingerprintVerifier))
		}

		plan, err := keel.Resolve(args[0], manifests, installed, opts...)
		if err != nil {
			return err
		}

		cmd.Println(plan.String())
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&strictBinaries, "strict-binaries", false, "reject binaries whose hash does not match their resolved deps")
	rootCmd.AddCommand(resolveCmd)
}
