package model

// Sort keys accepted by the query engine. An unrecognized key falls back to
// SortByPipelineValue.
const (
	SortByPipelineValue       = "pipeline_value"
	SortByTotalContacts       = "total_contacts"
	SortByWebsiteSessions     = "website_sessions"
	SortByFormSubmissions     = "form_submissions"
	SortByAccountName         = "account_name"
	SortByLinkedInImpressions = "linkedin_total_impressions"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageSize is applied when the caller omits page_size.
const DefaultPageSize = 50

// AccountFilter describes a filter/sort/page specification for querying the
// merged account list. Nil pointer fields mean "not filtered". Multiple
// predicates are AND-combined.
type AccountFilter struct {
	MinPipeline          *float64 `json:"min_pipeline,omitempty"`
	MaxPipeline          *float64 `json:"max_pipeline,omitempty"`
	MinContacts          *int     `json:"min_contacts,omitempty"`
	HasOpenOpportunities *bool    `json:"has_open_opportunities,omitempty"`
	Industries           []string `json:"industries,omitempty"`
	MinIntentScore       *int     `json:"min_intent_score,omitempty"`
	SearchQuery          string   `json:"search_query,omitempty"`

	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
}

// Normalized returns a copy with paging defaults applied.
func (f AccountFilter) Normalized() AccountFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
	return f
}
