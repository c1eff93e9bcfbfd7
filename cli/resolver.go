package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/langgen/cli/cmd"
)

// resolveYAML is a [kong.ConfigurationLoader] for YAML config files.
//
// Nested mappings are joined with hyphens to form flag names, so
//
//	log:
//	  level: debug
//	  pretty: false
//	strategy: longest
//
// sets --log-level=debug, --no-log-pretty and --strategy=longest. Keys may use
// underscores in place of hyphens. Command-line flags override config values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return config{}, nil
	}

	if err != nil {
		return nil, cmd.ErrLoadConfig.Wrap(err)
	}

	c := make(config)
	c.flatten("", doc)

	return c, nil
}

// config maps flag names to values.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// scalar converts YAML values to forms kong decodes. Numbers become strings
// so kong parses them into the flag's own type.
func scalar(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v

	case int, int64, uint64:
		return fmt.Sprint(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	return c[flag.Name], nil
}
