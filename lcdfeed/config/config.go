// Package config builds the firmware configuration from build time inputs.
//
// Credentials come from credentials.txt, embedded at build time, one network
// per line as "ssid<TAB>passphrase". Blank lines and lines starting with '#'
// are ignored, and a line without a tab is an open network.
//
// A single credential and the server URL can also be set with linker flags:
//
//	tinygo flash -target=pico-w -ldflags="\
//	  -X github.com/harveysanders/lcdfeed/lcdfeed/config.ssid=homenet \
//	  -X github.com/harveysanders/lcdfeed/lcdfeed/config.pass=secret \
//	  -X github.com/harveysanders/lcdfeed/lcdfeed/config.serverURL=http://10.0.0.9:8080/" ./lcdfeed
//
// The linker flag credential is tried before the embedded ones.
package config

import (
	_ "embed"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
	"github.com/harveysanders/lcdfeed/lcdfeed/wifi"
)

var (
	//go:embed credentials.txt
	credentialsFile string

	// Set via linker flags.
	ssid      string
	pass      string
	serverURL string
)

// Defaults.
const (
	DefaultServerURL     = "http://10.0.0.9:8080/"
	DefaultRefreshPeriod = 30 * time.Second
	DefaultHostname      = "lcdfeed"
)

// DefaultBacklight is solid blue.
var DefaultBacklight = display.RGB{R: 0, G: 0, B: 255}

// Config is the immutable configuration handed to the connection manager and
// the fetch loop at startup.
type Config struct {
	Credentials   []wifi.Credential
	ServerURL     string
	RefreshPeriod time.Duration
	Backlight     display.RGB
	// Hostname is sent in DHCP requests.
	Hostname     string
	MaxPolls     int
	PollInterval time.Duration
}

// Load builds the configuration from the embedded credentials file and the
// linker flag variables.
func Load() (Config, error) {
	return build(credentialsFile, ssid, pass, serverURL)
}

// build always returns a usable Config. A malformed credentials file drops
// the file's credentials and is reported as the error.
func build(file, flagSSID, flagPass, flagURL string) (Config, error) {
	creds, parseErr := ParseCredentials(file)
	if flagSSID != "" {
		creds = append([]wifi.Credential{{SSID: flagSSID, Passphrase: flagPass}}, creds...)
	}

	cfg := Config{
		Credentials:   creds,
		ServerURL:     DefaultServerURL,
		RefreshPeriod: DefaultRefreshPeriod,
		Backlight:     DefaultBacklight,
		Hostname:      DefaultHostname,
		MaxPolls:      wifi.DefaultMaxPolls,
		PollInterval:  wifi.DefaultPollInterval,
	}
	if flagURL != "" {
		cfg.ServerURL = flagURL
	}
	if parseErr != nil {
		return cfg, parseErr
	}
	return cfg, cfg.Validate()
}

// ParseCredentials parses the credentials file format.
func ParseCredentials(text string) ([]wifi.Credential, error) {
	var creds []wifi.Credential
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		name, passphrase, _ := strings.Cut(line, "\t")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("credentials line " + strconv.Itoa(n+1) + ": empty ssid")
		}
		if len(name) > 32 {
			return nil, errors.New("credentials line " + strconv.Itoa(n+1) + ": ssid longer than 32 bytes")
		}
		creds = append(creds, wifi.Credential{SSID: name, Passphrase: passphrase})
	}
	return creds, nil
}

// Validate reports the first problem that would keep the firmware from
// working as configured.
func (c Config) Validate() error {
	if len(c.Credentials) == 0 {
		return errors.New("config: no wifi credentials")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") {
		return errors.New("config: server url must start with http://, got " + c.ServerURL)
	}
	if c.RefreshPeriod <= 0 {
		return errors.New("config: refresh period must be positive")
	}
	if c.MaxPolls < 1 {
		return errors.New("config: max polls must be at least 1")
	}
	return nil
}
