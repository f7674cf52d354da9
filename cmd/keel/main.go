// keel resolves install plans for a source/binary package manager from
// manifest and installed-set files.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
