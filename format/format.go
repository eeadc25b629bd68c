// Package format renders an aggregated result as json, yml, csv or text tables.
package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/researchaccelerator-hub/ytstats/model"
	"gopkg.in/yaml.v3"
)

// Format names
const (
	JSON  = "json"
	YML   = "yml"
	YAML  = "yaml"
	CSV   = "csv"
	TXT   = "txt"
	Basic = "basic"
)

// ErrUnknownFormat is returned for a format name that has no renderer
var ErrUnknownFormat = errors.New("unknown format")

var (
	EngagementColumns = []string{"ID", "Url", "Title", "Views", "Likes", "Dislikes", "Favorites", "Comments"}
	ChannelColumns    = []string{"ID", "Url", "Title", "Views", "Subscribers", "Videos"}
	TotalColumns      = []string{"Views", "Likes", "Dislikes", "Favorites", "Comments"}
)

// Names lists the accepted format names, basic first.
func Names() []string {
	return []string{Basic, TXT, CSV, JSON, YML}
}

// Supported reports whether name has a renderer. The empty name means basic.
func Supported(name string) bool {
	switch name {
	case "", Basic, TXT, CSV, JSON, YML, YAML:
		return true
	}
	return false
}

// Format renders result in the named format
func Format(result model.AggregatedResult, name string) (string, error) {
	switch name {
	case JSON:
		return formatJSON(result)
	case YML, YAML:
		return formatYML(result)
	case CSV:
		return formatCSV(result)
	case TXT:
		return formatTables(result, false), nil
	case Basic, "":
		return formatTables(result, true), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Separator is the banner written before each appended run.
func Separator(name string, now time.Time) string {
	char := "-"
	if name == YML || name == YAML {
		char = "#"
	}

	line := fmt.Sprintf("%s %s ", strings.Repeat(char, 4), now.Format("1/2/2006, 3:04:05 PM"))
	if pad := 79 - len(line); pad > 0 {
		line += strings.Repeat(char, pad)
	}
	return line + "\n\n"
}

type section struct {
	title    string
	columns  []string
	entities []model.Entity
}

func sections(result model.AggregatedResult) []section {
	all := []section{
		{title: "Videos", columns: EngagementColumns, entities: result.Videos},
		{title: "Playlists", columns: EngagementColumns, entities: result.Playlists},
		{title: "Channels", columns: ChannelColumns, entities: result.Channels},
	}
	out := all[:0]
	for _, s := range all {
		if len(s.entities) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// rows returns the header and one row per entity, following the section's columns.
func (s section) rows() [][]string {
	rows := make([][]string, 0, len(s.entities)+1)
	rows = append(rows, append([]string(nil), s.columns...))
	for _, e := range s.entities {
		row := make([]string, len(s.columns))
		for i, col := range s.columns {
			row[i] = cell(e, col)
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(e model.Entity, column string) string {
	switch column {
	case "ID":
		return e.ID
	case "Url":
		return e.URL
	case "Title":
		return e.Title
	}
	return strconv.FormatInt(e.Stats.Get(model.Field(strings.ToLower(column))), 10)
}

func totalRows(total model.StatRecord) [][]string {
	values := make([]string, len(TotalColumns))
	for i, col := range TotalColumns {
		values[i] = strconv.FormatInt(total.Get(model.Field(strings.ToLower(col))), 10)
	}
	return [][]string{append([]string(nil), TotalColumns...), values}
}

func formatJSON(result model.AggregatedResult) (string, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return string(out), nil
}

func formatYML(result model.AggregatedResult) (string, error) {
	var b strings.Builder
	encode := func(doc interface{}) error {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yml: %w", err)
		}
		b.Write(buf.Bytes())
		return nil
	}

	// one mapping per key keeps the sections in a fixed order
	for _, s := range sections(result) {
		if err := encode(map[string][]model.Entity{strings.ToLower(s.title): s.entities}); err != nil {
			return "", err
		}
	}
	if result.Total != nil {
		if err := encode(map[string]*model.StatRecord{"total": result.Total}); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func formatCSV(result model.AggregatedResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	writeBlock := func(title string, rows [][]string) error {
		buf.WriteString(title + "\n")
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to encode csv: %w", err)
		}
		buf.WriteString("\n")
		return nil
	}

	for _, s := range sections(result) {
		if err := writeBlock(s.title, s.rows()); err != nil {
			return "", err
		}
	}
	if result.Total != nil {
		if err := writeBlock("Total", totalRows(*result.Total)); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// formatTables renders txt tables; basic drops the ID and Url columns.
func formatTables(result model.AggregatedResult, basic bool) string {
	var b strings.Builder
	for _, s := range sections(result) {
		rows := s.rows()
		if basic {
			for i := range rows {
				rows[i] = rows[i][2:]
			}
		}
		for _, row := range rows {
			for i := range row {
				row[i] = strings.Join(strings.Fields(row[i]), " ")
			}
		}
		b.WriteString(s.title + ":\n")
		b.WriteString(renderTable(rows))
		b.WriteString("\n")
	}
	if result.Total != nil {
		b.WriteString("Total\n")
		b.WriteString(renderTable(totalRows(*result.Total)))
		b.WriteString("\n")
	}
	return b.String()
}
