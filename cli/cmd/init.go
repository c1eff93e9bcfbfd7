package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/langgen/log"
	"github.com/ardnew/langgen/profile"
)

// defaultConfigIndent is the YAML indent width of the generated config.
const defaultConfigIndent = 2

// Init writes the current global flag values to the configuration file.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.With(slog.String("reason", "no command context"))
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || path == "" {
		return ErrWriteConfig.With(slog.String("reason", "config path undefined"))
	}

	werr := ErrWriteConfig.With(slog.String("file", path))

	if _, err := os.Stat(path); err == nil && !i.Force {
		return werr.Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(configValues(ktx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return werr.Wrap(ErrYAMLMarshal.Wrap(err))
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return werr.Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path))

	return nil
}

// configValues returns the set global flags in declaration order. Flags in a
// group nest under the group key with the group prefix removed, so that
// "--log-level" is written as log.level.
func configValues(ktx *kong.Context) yaml.MapSlice {
	var (
		root   yaml.MapSlice
		groups = map[string]int{}
	)

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := configValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		if flag.Group == nil {
			root = append(root, yaml.MapItem{Key: flag.Name, Value: val})

			continue
		}

		key := flag.Group.Key
		name := strings.TrimPrefix(flag.Name, key+"-")

		idx, ok := groups[key]
		if !ok {
			idx = len(root)
			groups[key] = idx
			root = append(root, yaml.MapItem{Key: key, Value: yaml.MapSlice{}})
		}

		sub, _ := root[idx].Value.(yaml.MapSlice)
		root[idx].Value = append(sub, yaml.MapItem{Key: name, Value: val})
	}

	return root
}

// configValue converts a flag value to a plain YAML value. It reports false
// for values not worth persisting.
func configValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String:
		return rv.String(), rv.Len() > 0

	case reflect.Slice, reflect.Map:
		return v, rv.Len() > 0

	default:
		return v, true
	}
}
