package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if ee, ok := err.(errWithExit); ok {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIO)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "memkeep",
		Short: "memkeep manages a local, content-addressed memory store for coding sessions",
	}

	root.AddCommand(
		newWriteCmd(),
		newReadCmd(),
		newListCmd(),
		newDeleteCmd(),
		newSearchCmd(),
		newSemanticCmd(),
		newLinkCmd(),
		newUnlinkCmd(),
		newEdgesCmd(),
		newGraphCmd(),
		newSuggestLinksCmd(),
		newQualityCmd(),
		newRepairCmd(),
	)
	return root
}
