// package formatter exports a filtered track selection to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
)

// Format identifies an export format by its conventional file extension.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat maps a flag value to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
	}
}

// ExportToCSV converts a track selection to CSV with columns: ID, Name, Tempo, Duration
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Tempo", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			strconv.FormatFloat(track.Tempo, 'f', 1, 64),
			strconv.Itoa(track.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a track selection to Markdown with the criteria
// summarized in the header.
func ExportToMarkdown(criteria models.FilterCriteria, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", criteria.Genre))
	buf.WriteString(fmt.Sprintf("**Tempo**: %.0f-%.0f BPM", criteria.Floor, criteria.Ceiling))
	if criteria.Doubled {
		buf.WriteString(fmt.Sprintf(" (or %.0f-%.0f)", criteria.Floor*2, criteria.Ceiling*2))
	}
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] - %.1f BPM\n",
			i+1, track.Name, shared.FormatDuration(track.Duration), track.Tempo))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a track selection to plain text.
func ExportToText(criteria models.FilterCriteria, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Genre: %s\n", criteria.Genre))
	buf.WriteString(fmt.Sprintf("Tempo: %.0f-%.0f BPM\n", criteria.Floor, criteria.Ceiling))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s (%.1f BPM)\n", i+1, track.Name, track.Tempo))
	}

	return buf.Bytes(), nil
}

// Export renders the selection in the given format.
func Export(format Format, criteria models.FilterCriteria, tracks []models.Track) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown:
		return ExportToMarkdown(criteria, tracks)
	case FormatText:
		return ExportToText(criteria, tracks)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders the selection and writes it to path, inferring the
// format from the file extension when format is empty.
func WriteExport(path string, format Format, criteria models.FilterCriteria, tracks []models.Track) error {
	if format == "" {
		if i := strings.LastIndex(path, "."); i >= 0 {
			parsed, err := ParseFormat(path[i+1:])
			if err != nil {
				return err
			}
			format = parsed
		} else {
			format = FormatText
		}
	}

	data, err := Export(format, criteria, tracks)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}
