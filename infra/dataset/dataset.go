// Package dataset loads historical consumption rows from CSV files or an
// HTTP endpoint.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/powerplan/auth"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/infra/logger"
)

// ErrMissingColumn is returned when the header lacks a configured column.
var ErrMissingColumn = errors.New("missing column")

// Config names the CSV source and its columns. URL takes precedence over
// Path.
type Config struct {
	Path            string      `json:"path"`
	URL             string      `json:"url"`
	Auth            auth.Config `json:"auth"`
	ApplianceColumn string      `json:"appliance_column"`
	DayColumn       string      `json:"day_column"`
	TimeColumn      string      `json:"time_column"`
	EnergyColumn    string      `json:"energy_column"`
}

// SetDefaults applies the column names of the reference dataset.
func (c *Config) SetDefaults() {
	if c.ApplianceColumn == "" {
		c.ApplianceColumn = "appliance"
	}
	if c.DayColumn == "" {
		c.DayColumn = "day_of_week"
	}
	if c.TimeColumn == "" {
		c.TimeColumn = "time"
	}
	if c.EnergyColumn == "" {
		c.EnergyColumn = "energy_consumption_kWh"
	}
}

// Validate ensures a dataset source is set.
func (c Config) Validate() error {
	if c.Path == "" && c.URL == "" {
		return fmt.Errorf("dataset.path or dataset.url is required")
	}
	return c.Auth.Validate()
}

// Load reads the dataset from cfg.URL when set, from cfg.Path otherwise.
func Load(ctx context.Context, cfg Config) ([]model.ConsumptionRecord, error) {
	if cfg.URL != "" {
		var cred *auth.ClientCred
		if cfg.Auth.Enabled() {
			cred = auth.NewClientCred(cfg.Auth)
		}
		return Fetch(ctx, &http.Client{Timeout: 30 * time.Second}, cred, cfg)
	}
	return LoadCSV(cfg)
}

// Fetch downloads the CSV at cfg.URL with client. A non-nil cred adds a
// bearer token to the request.
func Fetch(ctx context.Context, client *http.Client, cred *auth.ClientCred, cfg Config) ([]model.ConsumptionRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	if cred != nil {
		if err := cred.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("dataset auth: %w", err)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}
	records, err := ReadCSV(resp.Body, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.URL, err)
	}
	logger.New("dataset").Infof("fetched %d consumption rows from %s", len(records), cfg.URL)
	return records, nil
}

// LoadCSV reads the file named by cfg.Path.
func LoadCSV(cfg Config) ([]model.ConsumptionRecord, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	records, err := ReadCSV(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	logger.New("dataset").Infof("loaded %d consumption rows from %s", len(records), cfg.Path)
	return records, nil
}

// ReadCSV parses rows in file order. Extra columns are ignored. The time
// column is kept verbatim; no completeness checks are made on the data.
func ReadCSV(r io.Reader, cfg Config) ([]model.ConsumptionRecord, error) {
	cfg.SetDefaults()
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	idx := make([]int, 4)
	for i, name := range []string{cfg.ApplianceColumn, cfg.DayColumn, cfg.TimeColumn, cfg.EnergyColumn} {
		pos, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrMissingColumn)
		}
		idx[i] = pos
	}

	var out []model.ConsumptionRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		kwh, err := strconv.ParseFloat(strings.TrimSpace(row[idx[3]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: energy %q: %w", line, row[idx[3]], err)
		}
		out = append(out, model.ConsumptionRecord{
			Appliance: row[idx[0]],
			Day:       row[idx[1]],
			Time:      row[idx[2]],
			EnergyKWh: kwh,
		})
	}
	return out, nil
}
