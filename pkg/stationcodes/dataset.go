package stationcodes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// Dataset maps TIPLOC codes to every CRS code recorded against them
type Dataset struct {
	crsByTiploc map[string][]string
}

func NewDataset() *Dataset {
	return &Dataset{
		crsByTiploc: map[string][]string{},
	}
}

func (d *Dataset) Add(tiploc string, crs string) {
	tiploc = strings.TrimSpace(tiploc)
	crs = strings.TrimSpace(crs)

	if tiploc == "" || crs == "" {
		return
	}

	d.crsByTiploc[tiploc] = append(d.crsByTiploc[tiploc], crs)
}

func (d *Dataset) Lookup(tiploc string) []string {
	return d.crsByTiploc[tiploc]
}

func (d *Dataset) Len() int {
	return len(d.crsByTiploc)
}

// Network Rail CORPUS extract
type corpus struct {
	TiplocData []corpusTiplocData `json:"TIPLOCDATA"`
}

type corpusTiplocData struct {
	NLC        int
	STANOX     string
	TIPLOC     string
	ThreeAlpha string `json:"3ALPHA"`
	UIC        string
	NLCDESC    string
	NLCDESC16  string
}

func ParseCorpus(reader io.Reader) (*Dataset, error) {
	var corpusData corpus
	if err := json.NewDecoder(reader).Decode(&corpusData); err != nil {
		return nil, fmt.Errorf("decode CORPUS: %w", err)
	}

	dataset := NewDataset()
	for _, tiplocData := range corpusData.TiplocData {
		dataset.Add(tiplocData.TIPLOC, tiplocData.ThreeAlpha)
	}

	return dataset, nil
}

// railway codes location identifiers export
type railwayCodesRecord struct {
	Location string `csv:"Location"`
	CRS      string `csv:"CRS"`
	TIPLOC   string `csv:"TIPLOC"`
}

func ParseRailwayCodesCSV(reader io.Reader) (*Dataset, error) {
	var records []*railwayCodesRecord
	if err := gocsv.Unmarshal(reader, &records); err != nil {
		return nil, fmt.Errorf("decode location identifiers: %w", err)
	}

	dataset := NewDataset()
	for _, record := range records {
		dataset.Add(record.TIPLOC, record.CRS)
	}

	return dataset, nil
}

func parseDataset(source string, contents []byte) (*Dataset, error) {
	if strings.EqualFold(filepath.Ext(strings.SplitN(source, "?", 2)[0]), ".csv") {
		return ParseRailwayCodesCSV(bytes.NewReader(contents))
	}

	return ParseCorpus(bytes.NewReader(contents))
}

// LoadDataset reads a dataset from a local path or an http(s) URL.
// CSV sources are read as railway codes exports, anything else as CORPUS JSON.
func LoadDataset(ctx context.Context, source string) (*Dataset, error) {
	if source == "" {
		return nil, fmt.Errorf("no station codes dataset configured")
	}

	var contents []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		contents, err = download(ctx, source)
	} else {
		contents, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	dataset, err := parseDataset(source, contents)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", source).
		Int("tiplocs", dataset.Len()).
		Str("length", time.Since(startTime).String()).
		Msg("Loaded station codes dataset")

	return dataset, nil
}

func download(ctx context.Context, source string) ([]byte, error) {
	retryBackoff := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	return backoff.RetryWithData[[]byte](func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Warn().Err(err).Str("source", source).Msg("Failed to download station codes dataset")
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(fmt.Errorf("download %s: %s", source, resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download %s: %s", source, resp.Status)
		}

		return io.ReadAll(resp.Body)
	}, retryBackoff)
}
