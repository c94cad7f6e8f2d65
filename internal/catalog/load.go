package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/pickgraph/internal/logger"
)

// ErrNoCatalog is returned when the catalog file does not exist.
var ErrNoCatalog = errors.New("catalog not found")

// ErrUnsupportedFormat is returned for file extensions or format names
// other than toml, yaml/yml and json.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is a catalog/selection serialization format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(v)
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Load reads and normalizes a catalog file. The format follows the file
// extension; .db and .sqlite files are read as SQLite stores. A nil log
// discards warnings.
func Load(path string, log *logger.Logger) (*Catalog, error) {
	if IsStorePath(path) {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrNoCatalog, path)
			}
			return nil, fmt.Errorf("stat catalog: %w", err)
		}
		return LoadStore(context.Background(), path, log)
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCatalog, path)
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Decode(format, data, log)
}

// Decode parses catalog bytes and normalizes the result.
func Decode(format Format, data []byte, log *logger.Logger) (*Catalog, error) {
	var c Catalog
	if err := Unmarshal(format, data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s catalog: %w", format, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	Normalize(&c, log)
	return &c, nil
}

// Normalize drops entities with an empty id, keeps the first of any
// duplicate ids per kind, and lower-cases indicator base_on values.
// Dangling references are left alone: they resolve to empty relations.
func Normalize(c *Catalog, log *logger.Logger) {
	c.Topics = dedupe(c.Topics, func(t Topic) string { return t.ID }, KindTopic, log)
	c.Pipelines = dedupe(c.Pipelines, func(p Pipeline) string { return p.ID }, KindPipeline, log)
	c.Spaces = dedupe(c.Spaces, func(s Space) string { return s.ID }, KindSpace, log)
	c.ConnectedSpaces = dedupe(c.ConnectedSpaces, func(cs ConnectedSpace) string { return cs.ID }, KindConnectedSpace, log)
	for i := range c.ConnectedSpaces {
		c.ConnectedSpaces[i].Subjects = dedupe(c.ConnectedSpaces[i].Subjects,
			func(s Subject) string { return s.ID }, KindSubject, log)
	}
	c.Indicators = dedupe(c.Indicators, func(ind Indicator) string { return ind.ID }, KindIndicator, log)
	for i := range c.Indicators {
		ind := &c.Indicators[i]
		ind.BaseOn = ind.BaseOn.Normalize()
		if ind.BaseOn != BaseOnTopic && ind.BaseOn != BaseOnSubject {
			log.Warn("indicator has unknown base_on; it will have no relations",
				"indicator", ind.ID, "base_on", string(ind.BaseOn))
		}
	}
}

func dedupe[T any](items []T, id func(T) string, kind Kind, log *logger.Logger) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		key := id(it)
		if key == "" {
			log.Warn("dropping entity without id", "kind", kind.String())
			continue
		}
		if seen[key] {
			log.Warn("dropping duplicate entity", "kind", kind.String(), "id", key)
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// Save writes c to path. The format follows the file extension, as in Load.
func Save(path string, c *Catalog) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating catalog directory: %w", err)
		}
	}
	if IsStorePath(path) {
		return SaveStore(context.Background(), path, c)
	}
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(format, c)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
