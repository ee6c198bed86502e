// Package csvimport parses engagement exports from platforms without API
// access (Fibbler, LinkedIn Ads) and merges them into account records.
package csvimport

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// FibblerRecord is per-account LinkedIn engagement from a Fibbler export,
// summed across the export's rows.
type FibblerRecord struct {
	AccountName string `json:"account_name"`
	Domain      string `json:"domain,omitempty"`
	Impressions int    `json:"impressions"`
	Engagements int    `json:"engagements"`
	Clicks      int    `json:"clicks"`
}

// fibblerColumns maps export header fragments to canonical field names.
// Matching is a case-insensitive substring test so minor header variations
// ("Company Name", "company") still resolve.
var fibblerColumns = map[string]string{
	"company":              "account_name",
	"domain":               "domain",
	"linkedin_impressions": "impressions",
	"linkedin_engagements": "engagements",
	"linkedin_clicks":      "clicks",
}

// ParseFibbler parses a Fibbler CSV export and groups rows by account name,
// falling back to domain when no name column is present.
func ParseFibbler(r io.Reader) ([]FibblerRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "csvimport: read fibbler header")
	}

	cols := map[string]int{}
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for fragment, field := range fibblerColumns {
			if _, taken := cols[field]; !taken && strings.Contains(normalized, fragment) {
				cols[field] = i
			}
		}
	}

	groupCol, ok := cols["account_name"]
	if !ok {
		groupCol, ok = cols["domain"]
		if !ok {
			return nil, eris.New("csvimport: fibbler export has no company or domain column")
		}
	}

	// Accumulate per group, preserving first-seen order.
	var order []string
	grouped := map[string]*FibblerRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csvimport: read fibbler row")
		}

		key := cell(row, groupCol)
		if key == "" {
			continue
		}

		rec := grouped[key]
		if rec == nil {
			rec = &FibblerRecord{AccountName: key}
			if i, ok := cols["domain"]; ok {
				rec.Domain = cell(row, i)
			}
			grouped[key] = rec
			order = append(order, key)
		}
		if i, ok := cols["impressions"]; ok {
			rec.Impressions += parseIntLoose(cell(row, i))
		}
		if i, ok := cols["engagements"]; ok {
			rec.Engagements += parseIntLoose(cell(row, i))
		}
		if i, ok := cols["clicks"]; ok {
			rec.Clicks += parseIntLoose(cell(row, i))
		}
	}

	records := make([]FibblerRecord, 0, len(order))
	for _, key := range order {
		records = append(records, *grouped[key])
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseIntLoose parses an export numeric cell, tolerating thousands
// separators and decimal tails. Malformed cells count as zero.
func parseIntLoose(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
