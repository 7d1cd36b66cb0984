// package formatter renders synchronizer results as reports (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/playersync/internal/shared"
	"github.com/desertthunder/playersync/internal/tasks"
)

// Format is a report file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// FormatFromPath picks a [Format] from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".txt", ".log":
		return FormatText, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported report extension %q (use .csv, .md, .txt or .json)", shared.ErrInvalidArgument, filepath.Ext(path))
	}
}

// ReportToCSV converts a SyncResult to CSV format with columns: Path, Action, Bytes, Error
func ReportToCSV(res *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Path", "Action", "Bytes", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, fr := range res.Files {
		record := []string{
			fr.Path,
			string(fr.Action),
			strconv.FormatInt(fr.Bytes, 10),
			fr.Error,
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

// ReportToMarkdown converts a SyncResult to Markdown with a summary table and one section per action
func ReportToMarkdown(res *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	title := "Sync report"
	if res.DryRun {
		title += " (dry run)"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Source**: `%s`\n", res.Source))
	buf.WriteString(fmt.Sprintf("**Destination**: `%s`\n", res.Dest))
	if res.Playlist != "" {
		buf.WriteString(fmt.Sprintf("**Playlist**: `%s`\n", res.Playlist))
	}
	buf.WriteString(fmt.Sprintf("**Duration**: %s\n\n", duration(res)))

	buf.WriteString("| Copied | Skipped | Deleted | Removed dirs | Failed | Not regular | Bytes |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	buf.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d | %d | %s |\n\n",
		res.Copied, res.Skipped, res.Deleted, res.RemovedDirs, res.Failed, res.NotRegular, shared.FormatBytes(res.BytesCopied)))

	sections := []struct {
		title  string
		action tasks.Action
	}{
		{"Failed", tasks.ActionFailed},
		{"Copied", tasks.ActionCopied},
		{"Deleted", tasks.ActionDeleted},
		{"Not regular files", tasks.ActionNotRegular},
	}
	for _, section := range sections {
		var lines []string
		for _, fr := range res.Files {
			if fr.Action != section.action {
				continue
			}
			line := fmt.Sprintf("- `%s`", fr.Path)
			if fr.Error != "" {
				line += fmt.Sprintf(" (%s)", fr.Error)
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", section.title))
		buf.WriteString(strings.Join(lines, "\n"))
		buf.WriteString("\n\n")
	}

	return buf.Bytes(), nil
}

// ReportToText converts a SyncResult to plain text format
func ReportToText(res *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Source: %s\n", res.Source))
	buf.WriteString(fmt.Sprintf("Destination: %s\n", res.Dest))
	if res.DryRun {
		buf.WriteString("Dry run: yes\n")
	}
	buf.WriteString(fmt.Sprintf("Copied: %d (%s)\n", res.Copied, shared.FormatBytes(res.BytesCopied)))
	buf.WriteString(fmt.Sprintf("Skipped: %d\n", res.Skipped))
	buf.WriteString(fmt.Sprintf("Deleted: %d\n", res.Deleted))
	buf.WriteString(fmt.Sprintf("Failed: %d\n\n", res.Failed))

	for _, fr := range res.Files {
		if fr.Action == tasks.ActionSkipped {
			continue
		}
		line := fmt.Sprintf("%-11s %s", fr.Action, fr.Path)
		if fr.Error != "" {
			line += ": " + fr.Error
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ReportToJSON encodes the full SyncResult
func ReportToJSON(res *tasks.SyncResult) ([]byte, error) {
	return shared.MarshalJSON(res, true)
}

// Render encodes res in the given format.
func Render(res *tasks.SyncResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ReportToCSV(res)
	case FormatMarkdown:
		return ReportToMarkdown(res)
	case FormatText:
		return ReportToText(res)
	case FormatJSON:
		return ReportToJSON(res)
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteReport writes res to path in the format implied by its extension, creating parent directories.
func WriteReport(res *tasks.SyncResult, path string) (Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}

	data, err := Render(res, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return format, nil
}

func duration(res *tasks.SyncResult) string {
	if res.StartedAt.IsZero() || res.CompletedAt.IsZero() {
		return "n/a"
	}
	return res.CompletedAt.Sub(res.StartedAt).Round(time.Millisecond).String()
}
