package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	manifestPaths []string
	installedPath string
	platformTags  []string

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "keel",
	Short:         "Dependency resolver for source and binary package manifests",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace resolution steps")
	rootCmd.PersistentFlags().StringSliceVarP(&manifestPaths, "manifest", "m", nil, "manifest file, repeatable; order is priority order")
	rootCmd.PersistentFlags().StringVarP(&installedPath, "installed", "i", "", "installed-set snapshot file")
	rootCmd.PersistentFlags().StringSliceVarP(&platformTags, "platform", "p", nil, "platform tag, repeatable (default unix,linux)")
}
