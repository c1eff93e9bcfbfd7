package lang

import (
	"bytes"
	"encoding/json"
	"maps"
	"testing"

	"github.com/goccy/go-yaml"
)

var sampleReport = Report{
	{Statement: "a", Value: "1.000000"},
	{Statement: "b", Value: "true"},
	{Statement: "a", Value: "2.000000"},
}

func TestReport_Map(t *testing.T) {
	want := map[string]string{"a": "2.000000", "b": "true"}

	if got := sampleReport.Map(); !maps.Equal(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}

	if last, ok := sampleReport.Last(); !ok || last.Value != "2.000000" {
		t.Errorf("Last() = %v, %v", last, ok)
	}

	if _, ok := (Report{}).Last(); ok {
		t.Error("Last() of empty report reported ok")
	}
}

func TestReport_FormatText(t *testing.T) {
	var buf bytes.Buffer

	if err := sampleReport.Format(t.Context(), &buf, FormatText, 0); err != nil {
		t.Fatal(err)
	}

	want := "a -> 1.000000\nb -> true\na -> 2.000000\n"
	if buf.String() != want {
		t.Errorf("text = %q, want %q", buf.String(), want)
	}
}

func TestReport_FormatJSON(t *testing.T) {
	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		if err := sampleReport.Format(t.Context(), &buf, FormatJSON, indent); err != nil {
			t.Fatal(err)
		}

		var got map[string]string
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("indent %d: invalid JSON %q: %v", indent, buf.String(), err)
		}

		if !maps.Equal(got, sampleReport.Map()) {
			t.Errorf("indent %d: decoded %v, want %v", indent, got, sampleReport.Map())
		}

		if multiline := bytes.Count(buf.Bytes(), []byte("\n")) > 1; multiline != (indent > 0) {
			t.Errorf("indent %d: output %q", indent, buf.String())
		}
	}
}

func TestReport_FormatYAML(t *testing.T) {
	for _, indent := range []int{0, 4} {
		var buf bytes.Buffer

		if err := sampleReport.Format(t.Context(), &buf, FormatYAML, indent); err != nil {
			t.Fatal(err)
		}

		var got map[string]string
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("indent %d: invalid YAML %q: %v", indent, buf.String(), err)
		}

		if !maps.Equal(got, sampleReport.Map()) {
			t.Errorf("indent %d: decoded %v, want %v", indent, got, sampleReport.Map())
		}
	}
}

func TestReport_FormatYAMLKeepsOrder(t *testing.T) {
	r := Report{
		{Statement: "z", Value: "1"},
		{Statement: "m", Value: "2"},
		{Statement: "a", Value: "3"},
	}

	var buf bytes.Buffer
	if err := r.Format(t.Context(), &buf, FormatYAML, 2); err != nil {
		t.Fatal(err)
	}

	out := buf.Bytes()
	if !(bytes.Index(out, []byte("z")) < bytes.Index(out, []byte("m")) &&
		bytes.Index(out, []byte("m")) < bytes.Index(out, []byte("a"))) {
		t.Errorf("statements out of order:\n%s", out)
	}
}

func TestParseReportFormat(t *testing.T) {
	for _, name := range ReportFormats() {
		f, err := ParseReportFormat(name)
		if err != nil {
			t.Errorf("ParseReportFormat(%q): %v", name, err)
		}

		if f.String() != name {
			t.Errorf("round trip %q -> %q", name, f.String())
		}
	}

	if _, err := ParseReportFormat("xml"); err == nil {
		t.Error("ParseReportFormat accepted xml")
	}
}

func TestReport_FormatUnknown(t *testing.T) {
	if err := sampleReport.Format(t.Context(), new(bytes.Buffer), ReportFormat(9), 0); err == nil {
		t.Error("Format accepted an unknown format")
	}
}
