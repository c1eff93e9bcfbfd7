package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Result pairs a statement's textual form with its value's textual form.
type Result struct {
	Statement string `json:"statement" yaml:"statement"`
	Value     string `json:"value"     yaml:"value"`
}

// Report lists the result of each top-level statement in evaluation order.
type Report []Result

// Map returns the report as a mapping from statement text to result text.
// When the same statement text occurs more than once, the last result wins.
func (r Report) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, res := range r {
		m[res.Statement] = res.Value
	}

	return m
}

// Last returns the final result of r.
func (r Report) Last() (Result, bool) {
	if len(r) == 0 {
		return Result{}, false
	}

	return r[len(r)-1], true
}

// ordered returns [Report.Map] as a slice ordered by first occurrence.
func (r Report) ordered() yaml.MapSlice {
	var (
		out   yaml.MapSlice
		index = make(map[string]int, len(r))
	)

	for _, res := range r {
		if i, ok := index[res.Statement]; ok {
			out[i].Value = res.Value

			continue
		}

		index[res.Statement] = len(out)
		out = append(out, yaml.MapItem{Key: res.Statement, Value: res.Value})
	}

	return out
}

// ReportFormat selects how a [Report] is rendered.
type ReportFormat int

const (
	FormatText ReportFormat = iota // text
	FormatJSON                     // json
	FormatYAML                     // yaml
)

var reportFormatName = []string{"text", "json", "yaml"}

// ReportFormats returns the names accepted by [ParseReportFormat].
func ReportFormats() []string { return slices.Clone(reportFormatName) }

// String returns the name of f.
func (f ReportFormat) String() string {
	if int(f) >= 0 && int(f) < len(reportFormatName) {
		return reportFormatName[f]
	}

	return fmt.Sprintf("ReportFormat(%d)", int(f))
}

// ParseReportFormat returns the format with the given name.
func ParseReportFormat(s string) (ReportFormat, error) {
	i := slices.Index(reportFormatName, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return FormatText, fmt.Errorf("unknown report format %q", s)
	}

	return ReportFormat(i), nil
}

// Format writes r to w.
//
// Text renders one "<statement> -> <result>" line per statement. JSON and
// YAML render [Report.Map], indented by indent spaces when indent > 0.
func (r Report) Format(
	ctx context.Context,
	w io.Writer,
	format ReportFormat,
	indent int,
) error {
	switch format {
	case FormatText:
		return r.formatText(w)

	case FormatJSON:
		return r.formatJSON(w, indent)

	case FormatYAML:
		return r.formatYAML(ctx, w, indent)

	default:
		return NewError("unsupported report format").
			With(slog.String("format", format.String()))
	}
}

func (r Report) formatText(w io.Writer) error {
	for _, res := range r {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", res.Statement, res.Value); err != nil {
			return err
		}
	}

	return nil
}

func (r Report) formatJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(r.Map(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(r.Map())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func (r Report) formatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, r.ordered(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
