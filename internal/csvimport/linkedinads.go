package csvimport

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// AdsRecord is one row of a LinkedIn Ads export.
type AdsRecord struct {
	AccountName    string  `json:"account_name"`
	Domain         string  `json:"domain,omitempty"`
	Impressions    int     `json:"impressions"`
	Clicks         int     `json:"clicks"`
	EngagementRate float64 `json:"engagement_rate"`
	Spend          float64 `json:"spend"`
}

// linkedinAdsColumns maps the export's exact headers to canonical fields.
var linkedinAdsColumns = map[string]string{
	"Company name":    "account_name",
	"Website":         "domain",
	"Impressions":     "impressions",
	"Clicks":          "clicks",
	"Engagement rate": "engagement_rate",
	"Spend":           "spend",
}

// ParseLinkedInAds parses a LinkedIn Ads CSV export. Numeric cells may carry
// thousands separators; engagement rate may carry a percent suffix.
func ParseLinkedInAds(r io.Reader) ([]AdsRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "csvimport: read linkedin ads header")
	}

	cols := map[string]int{}
	for i, h := range header {
		if field, ok := linkedinAdsColumns[strings.TrimSpace(h)]; ok {
			cols[field] = i
		}
	}
	if _, ok := cols["account_name"]; !ok {
		return nil, eris.New("csvimport: linkedin ads export has no Company name column")
	}

	var records []AdsRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csvimport: read linkedin ads row")
		}

		rec := AdsRecord{AccountName: cell(row, cols["account_name"])}
		if rec.AccountName == "" {
			continue
		}
		if i, ok := cols["domain"]; ok {
			rec.Domain = cell(row, i)
		}
		if i, ok := cols["impressions"]; ok {
			rec.Impressions = parseIntLoose(cell(row, i))
		}
		if i, ok := cols["clicks"]; ok {
			rec.Clicks = parseIntLoose(cell(row, i))
		}
		if i, ok := cols["engagement_rate"]; ok {
			rec.EngagementRate = parsePercentLoose(cell(row, i))
		}
		if i, ok := cols["spend"]; ok {
			rec.Spend = parseFloatLoose(cell(row, i))
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseFloatLoose(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parsePercentLoose(s string) float64 {
	return parseFloatLoose(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}
