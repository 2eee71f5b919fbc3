// Package fileconf decodes YAML or JSON configuration files chosen by extension.
package fileconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyPath is returned when no file path is given.
var ErrEmptyPath = errors.New("file path is empty")

type decoder struct {
	name string
	fn   func([]byte, any) error
}

var (
	yamlDecoder = decoder{name: "yaml", fn: yaml.Unmarshal}
	jsonDecoder = decoder{name: "json", fn: json.Unmarshal}
)

// DecodeFile reads path and decodes it into v.
func DecodeFile(path string, v any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Decode(raw, filepath.Ext(path), v)
}

// Decode decodes data into v. ".yaml"/".yml" use YAML, ".json" uses JSON; any other
// extension tries YAML, which also accepts JSON documents.
func Decode(data []byte, ext string, v any) error {
	d := yamlDecoder
	if strings.EqualFold(strings.TrimSpace(ext), ".json") {
		d = jsonDecoder
	}
	if err := d.fn(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", d.name, err)
	}
	return nil
}
