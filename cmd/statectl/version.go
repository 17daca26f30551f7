package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

func init() {
	Command.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})
}
