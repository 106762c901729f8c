package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/translate"
)

func writeSample(t *testing.T, mutate func(*document.Composition)) string {
	t.Helper()
	comp := document.NewSampleComposition()
	if mutate != nil {
		mutate(comp)
	}
	data, err := document.Encode(comp)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("addCodegenDescriptions: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		path         string
		strict       bool
		descriptions bool
		want         translate.Options
	}{
		{"defaults", "", false, false, translate.Options{}},
		{"file", path, false, false, translate.Options{AddCodegenDescriptions: true}},
		{"flags over file", path, true, false, translate.Options{StrictTranslation: true, AddCodegenDescriptions: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadOptions(tt.path, tt.strict, tt.descriptions)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReportFormats(t *testing.T) {
	result, err := translateFile(writeSample(t, nil), translate.Options{})
	if err != nil {
		t.Fatal(err)
	}
	rep := newReport(result)

	out, err := encodeReport(rep, "yaml")
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Width  float64        `yaml:"width"`
		Issues []issues.Issue `yaml:"issues"`
		Scene  map[string]any `yaml:"scene"`
	}
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Width != result.Width || decoded.Scene["kind"] == nil {
		t.Errorf("yaml report lost data: %s", out)
	}

	if _, err := encodeReport(rep, "xml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestWriteDiff(t *testing.T) {
	cfg := &MainConfig{NoColor: true}

	var buf bytes.Buffer
	if writeDiff(&buf, cfg, "a\nb\n", "a\nb\n") {
		t.Errorf("equal texts reported as different:\n%s", buf.String())
	}

	buf.Reset()
	if !writeDiff(&buf, cfg, "a\nb\nc\n", "a\nx\nc\n") {
		t.Fatal("changed texts reported as equal")
	}
	want := "  a\n- b\n+ x\n  c\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("diff output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFrame(t *testing.T) {
	result, err := translateFile(writeSample(t, nil), translate.Options{})
	if err != nil {
		t.Fatal(err)
	}
	commands, err := renderFrame(result, -1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(commands) == 0 {
		t.Error("rendered nothing")
	}
}

func TestWriteCodes(t *testing.T) {
	var buf bytes.Buffer
	writeCodes(&buf, &MainConfig{NoColor: true})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(issues.Codes()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(issues.Codes()))
	}
	if !strings.HasPrefix(lines[0], "LT0001  ") {
		t.Errorf("got first line %q", lines[0])
	}
}

func TestStrictTranslationFails(t *testing.T) {
	path := writeSample(t, func(c *document.Composition) {
		text, err := document.NewLayer(document.LayerTypeText)
		if err != nil {
			t.Fatal(err)
		}
		text.Base().Index = 4
		text.Base().OutPoint = c.OutPoint
		c.Layers = append(c.Layers, text)
	})

	result, err := translateFile(path, translate.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Issues) == 0 {
		t.Error("text layer reported no issue")
	}

	if _, err := translateFile(path, translate.Options{StrictTranslation: true}); err == nil {
		t.Error("strict translation of a text layer succeeded")
	}
}
