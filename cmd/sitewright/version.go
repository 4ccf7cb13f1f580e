package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitewright/sitewright/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildinfo.Get().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
