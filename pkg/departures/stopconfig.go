package departures

import (
	"fmt"
	"strings"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"golang.org/x/exp/slices"
)

const (
	DefaultName = "london_tfl"
	DefaultMax  = 3
)

// StopConfig is what a user configures for one monitored stop
type StopConfig struct {
	Name                string `yaml:"name" json:"name"`
	Method              string `yaml:"method" json:"method"`
	Line                string `yaml:"line" json:"line"`
	Station             string `yaml:"station" json:"station"`
	Platform            string `yaml:"platform" json:"platform"`
	Max                 int    `yaml:"max" json:"max"`
	ShortenStationNames bool   `yaml:"shortenStationNames" json:"shortenStationNames"`
	NationalRailAPIKey  string `yaml:"nr_api_key" json:"-"`
}

// WithDefaults fills in the optional fields the same way the configuration flow would
func (c StopConfig) WithDefaults() StopConfig {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Max <= 0 {
		c.Max = DefaultMax
	}
	c.Platform = strings.TrimSpace(c.Platform)

	return c
}

// Validate only rejects stops that can never be fetched. An empty method is
// allowed so the stop surfaces the recreate message instead of disappearing.
func (c StopConfig) Validate() error {
	if c.Line == "" {
		return fmt.Errorf("stop %s has no line", c.Name)
	}
	if c.Station == "" {
		return fmt.Errorf("stop %s on line %s has no station", c.Name, c.Line)
	}
	if c.Method != "" && !slices.Contains(ctdf.SupportedMethods, c.Method) {
		return fmt.Errorf("stop %s has unsupported method %s", c.Name, c.Method)
	}

	return nil
}
