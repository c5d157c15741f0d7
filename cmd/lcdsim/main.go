// Lcdsim runs the lcdfeed firmware logic against an emulated 16x2 LCD in the
// terminal.
//
// Usage:
//
//	lcdsim --url http://localhost:8080/ --cred home:secret --network home:secret
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harveysanders/lcdfeed/internal/lcdsim"
	"github.com/harveysanders/lcdfeed/internal/logging"
	"github.com/harveysanders/lcdfeed/internal/version"
	"github.com/harveysanders/lcdfeed/lcdfeed/display"
	"github.com/harveysanders/lcdfeed/lcdfeed/wifi"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	url          string
	period       time.Duration
	creds        []string
	networks     []string
	joinPolls    int
	maxPolls     int
	pollInterval time.Duration
	color        string
	logFile      string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "lcdsim",
	Short: "Simulate an lcdfeed display in the terminal",
	Long: `Run the display controller, WiFi connection manager and fetch loop of the
lcdfeed firmware against an emulated LCD and a simulated WiFi radio.

Credentials (--cred) are tried in order like on the device. Only networks
listed with --network are in range, and only with the matching passphrase.`,
	Example: `  # Wrong network first, then the right one
  lcdsim --cred cafe:guest --cred home:secret --network home:secret

  # No network in range: the screen shows the WiFi error
  lcdsim --cred home:secret`,
	Version: version.Version,
	RunE:    runSim,
}

func init() {
	rootCmd.Flags().StringVar(&url, "url", "http://localhost:8080/", "Text server URL")
	rootCmd.Flags().DurationVar(&period, "period", 30*time.Second, "Time between fetches")
	rootCmd.Flags().StringArrayVar(&creds, "cred", nil, "Credential to try, as ssid:passphrase (repeatable)")
	rootCmd.Flags().StringArrayVar(&networks, "network", nil, "Network in range, as ssid:passphrase (repeatable)")
	rootCmd.Flags().IntVar(&joinPolls, "join-polls", 3, "Status polls a correct join takes")
	rootCmd.Flags().IntVar(&maxPolls, "max-polls", wifi.DefaultMaxPolls, "Status polls per credential")
	rootCmd.Flags().DurationVar(&pollInterval, "poll-interval", wifi.DefaultPollInterval, "Wait before each status poll")
	rootCmd.Flags().StringVar(&color, "color", "#0000FF", "Backlight colour")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "debug", "Log level when --log-file is set")
}

func runSim(cmd *cobra.Command, args []string) error {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		if err := logging.InitializeWriter(logLevel, f); err != nil {
			return err
		}
		defer logging.Sync()
	}

	cfg := lcdsim.Config{
		URL:          url,
		Period:       period,
		Networks:     map[string]string{},
		JoinPolls:    joinPolls,
		MaxPolls:     maxPolls,
		PollInterval: pollInterval,
	}
	for _, c := range creds {
		ssid, pass, err := splitPair(c)
		if err != nil {
			return fmt.Errorf("invalid --cred: %w", err)
		}
		cfg.Credentials = append(cfg.Credentials, wifi.Credential{SSID: ssid, Passphrase: pass})
	}
	for _, n := range networks {
		ssid, pass, err := splitPair(n)
		if err != nil {
			return fmt.Errorf("invalid --network: %w", err)
		}
		cfg.Networks[ssid] = pass
	}
	bl, err := parseColor(color)
	if err != nil {
		return err
	}
	cfg.Backlight = bl

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return lcdsim.Run(ctx, cfg)
}

func splitPair(s string) (ssid, pass string, err error) {
	ssid, pass, _ = strings.Cut(s, ":")
	if ssid == "" {
		return "", "", fmt.Errorf("empty ssid in %q", s)
	}
	return ssid, pass, nil
}

// parseColor reads "#RRGGBB".
func parseColor(s string) (display.RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return display.RGB{}, fmt.Errorf("colour %q is not #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return display.RGB{}, fmt.Errorf("colour %q is not #RRGGBB: %w", s, err)
	}
	return display.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
