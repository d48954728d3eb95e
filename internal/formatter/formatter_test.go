package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/runlist/internal/models"
	mocks "github.com/desertthunder/runlist/internal/testing"
)

var (
	testCriteria = models.FilterCriteria{Genre: "post-rock", Floor: 88, Ceiling: 92}
	testTracks   = []models.Track{
		{ID: "t1", Name: "First Light", Tempo: 90.2, Duration: 245},
		{ID: "t2", Name: "Second Wind", Tempo: 88.0, Duration: 301},
	}
)

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testTracks)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Name,Tempo,Duration" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "First Light") || !strings.Contains(lines[1], "90.2") {
		t.Errorf("unexpected first record: %q", lines[1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("summarizes the criteria", func(t *testing.T) {
		data, err := ExportToMarkdown(testCriteria, testTracks)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		text := string(data)
		if !strings.HasPrefix(text, "# post-rock\n") {
			t.Errorf("expected the genre heading, got %q", text[:30])
		}
		if !strings.Contains(text, "88-92 BPM") {
			t.Error("expected the tempo range in the header")
		}
		if !strings.Contains(text, "1. First Light [4:05]") {
			t.Errorf("expected a numbered track line, got:\n%s", text)
		}
	})

	t.Run("mentions the doubled range when enabled", func(t *testing.T) {
		doubled := testCriteria
		doubled.Doubled = true

		data, err := ExportToMarkdown(doubled, testTracks)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(string(data), "(or 176-184)") {
			t.Error("expected the doubled range in the header")
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(testCriteria, testTracks)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Genre: post-rock") {
		t.Error("expected the genre line")
	}
	if !strings.Contains(text, "2. Second Wind (88.0 BPM)") {
		t.Errorf("expected a numbered track line, got:\n%s", text)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{".md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"txt", FormatText, false},
		{"", FormatText, false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("infers the format from the extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "selection.csv")

		if err := WriteExport(path, "", testCriteria, testTracks); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		mocks.AssertFileExists(t, path)

		content := mocks.MustReadFile(t, path)
		if !strings.HasPrefix(content, "ID,Name,Tempo,Duration") {
			t.Errorf("expected CSV output, got %q", content[:30])
		}
	})

	t.Run("explicit format wins over the extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "selection.csv")

		if err := WriteExport(path, FormatMarkdown, testCriteria, testTracks); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		content := mocks.MustReadFile(t, path)
		if !strings.HasPrefix(content, "# post-rock") {
			t.Errorf("expected Markdown output, got %q", content[:30])
		}
	})

	t.Run("writes relative to the working directory", func(t *testing.T) {
		wd := mocks.MustGetwd(t)
		mocks.MustChdir(t, t.TempDir())
		defer mocks.MustChdir(t, wd)

		if err := WriteExport("selection.txt", "", testCriteria, testTracks); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		mocks.AssertFileExists(t, "selection.txt")
	})

	t.Run("unknown extension fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "selection.xlsx")

		if err := WriteExport(path, "", testCriteria, testTracks); err == nil {
			t.Error("expected an error for an unknown extension")
		}
	})
}
