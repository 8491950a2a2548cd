package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/departures"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

const DefaultScanInterval = "PT1M"

// Stop is a single stop entry, the shared scan interval can be overridden per stop
type Stop struct {
	departures.StopConfig `yaml:",inline"`

	ScanInterval string `yaml:"scan_interval"`
}

// Platform mirrors one london_tfl platform block: a name shared by its stops
type Platform struct {
	Name         string `yaml:"name"`
	ScanInterval string `yaml:"scan_interval"`
	Stops        []Stop `yaml:"stops"`
}

// Interval converts the stop's ISO-8601 scan interval into a duration
func (s Stop) Interval() (time.Duration, error) {
	interval, err := iso8601.ParseISO8601(s.ScanInterval)
	if err != nil {
		return 0, fmt.Errorf("stop %s has invalid scan_interval %q: %w", s.Name, s.ScanInterval, err)
	}

	reference := time.Now()
	duration := interval.Shift(reference).Sub(reference)
	if duration <= 0 {
		return 0, fmt.Errorf("stop %s has a non positive scan_interval %q", s.Name, s.ScanInterval)
	}

	return duration, nil
}

// Decode reads every YAML document in reader and returns their stops with defaults applied
func Decode(reader io.Reader) ([]Stop, error) {
	var stops []Stop

	decoder := yaml.NewDecoder(reader)

	for {
		var platform Platform
		err := decoder.Decode(&platform)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		for _, stop := range platform.Stops {
			if stop.Name == "" {
				stop.Name = platform.Name
			}
			if stop.ScanInterval == "" {
				stop.ScanInterval = platform.ScanInterval
			}
			if stop.ScanInterval == "" {
				stop.ScanInterval = DefaultScanInterval
			}

			stop.StopConfig = stop.StopConfig.WithDefaults()

			if err := stop.Validate(); err != nil {
				return nil, err
			}
			if _, err := stop.Interval(); err != nil {
				return nil, err
			}

			stops = append(stops, stop)
		}
	}

	return stops, nil
}

// Load reads a single YAML file, or every .yaml file under a directory
func Load(path string) ([]Stop, error) {
	var stops []Stop

	err := filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if fileInfo.IsDir() {
			return nil
		}

		extension := filepath.Ext(filePath)
		if filePath != path && extension != ".yaml" && extension != ".yml" {
			return nil
		}

		log.Debug().Str("path", filePath).Msg("Loading stops file")

		contents, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		fileStops, err := Decode(bytes.NewReader(contents))
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}

		stops = append(stops, fileStops...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stops, nil
}
