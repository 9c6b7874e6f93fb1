package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬─┐┌┐ ┌─┐┬─┐
  ├─┤├┬┘├┴┐│ │├┬┘
  ┴ ┴┴└─└─┘└─┘┴└─
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Server-driven reactive UI runtime",
		Long: `Arbor renders component trees on the server and streams the
differences to connected clients.

  • Fine-grained reactive state with dependency tracking
  • Declarative trees diffed into minimal patch streams
  • WebSocket sessions with one event loop per client
  • Static snapshot deploys to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		benchCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
