package script

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samvad-hq/samvad-rest-client/internal/fileconf"
)

// Package script loads call scripts: ordered lists of API calls declared in YAML or JSON.

// Script is a named, ordered list of calls.
type Script struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Calls []Call `json:"calls" yaml:"calls" validate:"required,min=1,dive"`
}

// Call is one request: path segments, a verb and optional query, body and headers.
type Call struct {
	Name    string            `json:"name" yaml:"name" validate:"required"`
	Path    []any             `json:"path" yaml:"path" validate:"min=1"`
	Method  string            `json:"method" yaml:"method" validate:"required,oneof=get post put patch delete"`
	Query   map[string]any    `json:"query" yaml:"query"`
	Body    any               `json:"body" yaml:"body"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	// Version overrides the client's API version for this call only.
	Version *int `json:"version" yaml:"version" validate:"omitempty,min=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a script from a YAML/JSON file.
func Load(path string) (*Script, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("script file: %w", fileconf.ErrEmptyPath)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes, sanitizes and validates script content. ext selects the decoder
// (".json" for JSON, anything else for YAML).
func Parse(data []byte, ext string) (*Script, error) {
	var s Script
	if err := fileconf.Decode(data, ext, &s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	s = sanitizeScript(s)
	if err := validateScript(s); err != nil {
		return nil, err
	}
	return &s, nil
}

// sanitizeScript trims names, lowercases methods and drops empty headers.
func sanitizeScript(s Script) Script {
	s.Name = strings.TrimSpace(s.Name)
	calls := make([]Call, len(s.Calls))
	for i, c := range s.Calls {
		c.Name = strings.TrimSpace(c.Name)
		c.Method = strings.ToLower(strings.TrimSpace(c.Method))
		c.Headers = sanitizeHeaders(c.Headers)
		calls[i] = c
	}
	s.Calls = calls
	return s
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func validateScript(s Script) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid script: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid script: %w", err)
	}

	seen := make(map[string]struct{}, len(s.Calls))
	for i, c := range s.Calls {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("calls[%d]: duplicate call name %q", i, c.Name)
		}
		seen[c.Name] = struct{}{}
		for j, seg := range c.Path {
			if _, err := normalizeSegment(seg); err != nil {
				return fmt.Errorf("calls[%d].path[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

// Segments returns the call's path as strings and ints, ready for the client.
func (c Call) Segments() []any {
	out := make([]any, 0, len(c.Path))
	for _, seg := range c.Path {
		v, err := normalizeSegment(seg)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// normalizeSegment accepts strings and integral numbers. JSON numbers arrive as float64.
func normalizeSegment(seg any) (any, error) {
	switch v := seg.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, errors.New("empty path segment")
		}
		return v, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("path segment %v is not an integer", v)
		}
		return int(v), nil
	default:
		return nil, fmt.Errorf("unsupported path segment type %T", seg)
	}
}
