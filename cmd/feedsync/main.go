package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCommand = &cobra.Command{
	Use:   "feedsync",
	Short: "feedsync",
	Long:  "",
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
