package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/powerplan/core/model"
)

// LoadRequest reads an optimization request from a JSON or YAML file.
func LoadRequest(path string) (model.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Request{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeRequest(f, ext)
}

// DecodeRequest decodes a request from r. Unknown fields are rejected.
func DecodeRequest(r io.Reader, format string) (model.Request, error) {
	var req model.Request
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			return req, fmt.Errorf("decode yaml request: %w", err)
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, fmt.Errorf("decode json request: %w", err)
		}
	default:
		return req, fmt.Errorf("unsupported request format: %s", format)
	}
	return req, nil
}
