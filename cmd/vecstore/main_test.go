package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/liliang-cn/vecstore/pkg/core"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	entry := core.VectorEntry{ID: "a", Vector: core.Embedding{1, 2}}

	if err := writeJSON(&buf, entry); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"id": "a"`) {
		t.Errorf("writeJSON() output = %q, want indented id field", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("writeJSON() output should end with a newline")
	}
}

func TestParseVector(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    core.Embedding
		wantErr bool
	}{
		{name: "basic", in: "1,2,3", want: core.Embedding{1, 2, 3}},
		{name: "spaces", in: " 0.5 , -1 ", want: core.Embedding{0.5, -1}},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "1,x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVector(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseVector(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVector(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseVector(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	got, err := parseMetadata(`{"k": "v", "n": 7}`)
	if err != nil {
		t.Fatalf("parseMetadata() error = %v", err)
	}
	if got["k"] != "v" || got["n"] != float64(7) {
		t.Errorf("parseMetadata() = %v", got)
	}

	empty, err := parseMetadata("")
	if err != nil {
		t.Fatalf("parseMetadata(\"\") error = %v", err)
	}
	if empty != nil {
		t.Errorf("parseMetadata(\"\") = %v, want nil", empty)
	}

	if _, err := parseMetadata("not json"); err == nil {
		t.Error("parseMetadata() of invalid JSON should fail")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dbPath = t.TempDir()

	limit := 5
	threshold := 0.25
	if err := saveSettings(cliSettings{DefaultLimit: &limit, SimilarityThreshold: &threshold}); err != nil {
		t.Fatalf("saveSettings() error = %v", err)
	}

	got, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	if got.DefaultLimit == nil || *got.DefaultLimit != 5 {
		t.Errorf("loadSettings().DefaultLimit = %v, want 5", got.DefaultLimit)
	}
	if got.SimilarityThreshold == nil || *got.SimilarityThreshold != 0.25 {
		t.Errorf("loadSettings().SimilarityThreshold = %v, want 0.25", got.SimilarityThreshold)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	dbPath = t.TempDir()

	got, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	if got.DefaultLimit != nil || got.SimilarityThreshold != nil {
		t.Errorf("loadSettings() on missing file = %+v, want zero settings", got)
	}
}

func TestSettingsApplyAcrossInvocations(t *testing.T) {
	dbPath = t.TempDir()
	dimensions = 3

	limit := 4
	if err := saveSettings(cliSettings{DefaultLimit: &limit}); err != nil {
		t.Fatalf("saveSettings() error = %v", err)
	}

	store, err := openStore()
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer store.Close()

	if got := store.DefaultLimit(); got != 4 {
		t.Errorf("DefaultLimit() = %d, want persisted 4", got)
	}
	if got := store.SimilarityThreshold(); got != core.DefaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold() = %v, want untouched default", got)
	}
}
