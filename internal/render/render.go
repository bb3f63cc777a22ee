// Package render writes questions, quizzes and version information in the
// output formats supported by the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/David256/quizzed-backend/internal/question"
	"github.com/David256/quizzed-backend/internal/versions"
)

// Format is an output format
type Format string

const (
	// FormatJSON writes indented JSON
	FormatJSON Format = "json"
	// FormatYAML writes YAML
	FormatYAML Format = "yaml"
	// FormatTable writes a human readable table
	FormatTable Format = "table"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatYAML, FormatTable}

// ParseFormat parses a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, expected one of %v", name, Formats)
	}
}

// Questions writes questions in format
func Questions(w io.Writer, format Format, questions []question.Question) error {
	if questions == nil {
		questions = []question.Question{}
	}
	if format == FormatTable {
		return questionTable(w, questions)
	}
	return encode(w, format, questions)
}

// Quiz writes quiz in format
func Quiz(w io.Writer, format Format, quiz *question.Quiz) error {
	if format == FormatTable {
		if _, err := fmt.Fprintf(w, "Quiz %q (%s)\n", quiz.Name, quiz.ID); err != nil {
			return err
		}
		return questionTable(w, quiz.Questions)
	}
	return encode(w, format, quiz)
}

// Version writes version information in format
func Version(w io.Writer, format Format, info versions.VersionInfo) error {
	if format != FormatTable {
		return encode(w, format, info)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	rows := [][]string{
		{"Version", info.Version},
		{"Prerelease", strconv.FormatBool(info.Prerelease)},
		{"Commit", info.Commit},
		{"Build date", info.BuildDate},
		{"Go version", info.GoVersion},
		{"Platform", info.Platform},
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build version table: %w", err)
	}
	return table.Render()
}

func questionTable(w io.Writer, questions []question.Question) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Question", "Answer")
	for i, q := range questions {
		if err := table.Append([]string{strconv.Itoa(i + 1), q.Question, strconv.FormatBool(q.Answer)}); err != nil {
			return fmt.Errorf("failed to build question table: %w", err)
		}
	}
	return table.Render()
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
