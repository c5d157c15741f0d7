package textserver

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MessageFile is the YAML layout of a messages file.
type MessageFile struct {
	Messages []string `yaml:"messages"`
	// Rotate is a time.ParseDuration string. Empty means the first message
	// is served until replaced.
	Rotate string `yaml:"rotate,omitempty"`
}

// LoadMessages reads and validates a messages file.
func LoadMessages(path string) (*MessageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	return ParseMessages(data)
}

// ParseMessages decodes a messages file.
func ParseMessages(data []byte) (*MessageFile, error) {
	var mf MessageFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	if len(mf.Messages) == 0 {
		return nil, fmt.Errorf("messages file has no messages")
	}
	if _, err := mf.Interval(); err != nil {
		return nil, err
	}
	return &mf, nil
}

// Interval returns the parsed rotate duration, zero when unset.
func (mf *MessageFile) Interval() (time.Duration, error) {
	if mf.Rotate == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(mf.Rotate)
	if err != nil {
		return 0, fmt.Errorf("invalid rotate interval %q: %w", mf.Rotate, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("rotate interval must be positive, got %s", d)
	}
	return d, nil
}
