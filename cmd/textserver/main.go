// Textserver serves the text an lcdfeed display polls for.
//
// Usage:
//
//	textserver serve [flags]
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harveysanders/lcdfeed/internal/logging"
	"github.com/harveysanders/lcdfeed/internal/textserver"
	"github.com/harveysanders/lcdfeed/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "textserver",
	Short:   "Serve text for lcdfeed displays",
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var (
	host         string
	port         int
	message      string
	messagesPath string
	advertise    bool
	instanceName string
	logLevel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serve a message on GET / as text/plain. PUT / replaces it.

With --messages the server reads a YAML list of messages and, if the file
sets "rotate", cycles through them on that interval.`,
	Example: `  # Serve a fixed two line message
  textserver serve --message $'Hello\nWorld'

  # Rotate through a list and advertise over mDNS
  textserver serve --messages messages.yaml --mdns`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&message, "message", "Hello\nWorld", "Message to serve")
	serveCmd.Flags().StringVar(&messagesPath, "messages", "", "YAML file with messages to rotate through")
	serveCmd.Flags().BoolVar(&advertise, "mdns", false, "Advertise the server as "+textserver.ServiceType)
	serveCmd.Flags().StringVar(&instanceName, "name", "lcdfeed", "mDNS instance name")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	srv, err := textserver.New(&textserver.Config{
		Host:         host,
		Port:         port,
		Message:      message,
		MessagesPath: messagesPath,
		Advertise:    advertise,
		InstanceName: instanceName,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("textserver %s\n", version.Full())
	},
}
