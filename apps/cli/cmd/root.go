package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nanofish",
	Short: "Raw HTTP/1.1 requests with caller-owned buffers.",
	Long: `nanofish is a small HTTP/1.1 client that speaks the protocol over raw
sockets: one request, one response, one connection. Response bytes land in
a fixed-size buffer and the parsed response borrows from it without
copying.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
