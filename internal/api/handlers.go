package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/abm-reporter/internal/aggregate"
	"github.com/sells-group/abm-reporter/internal/csvimport"
	"github.com/sells-group/abm-reporter/internal/model"
)

// maxUploadBytes caps CSV upload size.
const maxUploadBytes = 10 << 20

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	list, err := s.source.Aggregate(r.Context(), aggregate.Options{ForceRefresh: forceRefresh})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	filtered := aggregate.Query(list.Accounts, filter)
	writeJSON(w, http.StatusOK, model.AccountList{
		Accounts:      filtered,
		TotalCount:    len(list.Accounts), // total before filtering
		OrgEngagement: list.OrgEngagement,
		LastSynced:    list.LastSynced,
	})
}

func (s *Server) handleAccountDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	account, err := s.source.AccountByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, aggregate.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account '"+name+"' not found")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.source.InvalidateCache()

	list, err := s.source.Aggregate(r.Context(), aggregate.Options{ForceRefresh: true})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "data refreshed",
		"total_accounts": list.TotalCount,
		"last_synced":    list.LastSynced,
	})
}

func (s *Server) handleSummaryStats(w http.ResponseWriter, r *http.Request) {
	list, err := s.source.Aggregate(r.Context(), aggregate.Options{})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	stats := aggregate.Summarize(list.Accounts)
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":       stats,
		"last_synced": list.LastSynced,
	})
}

func (s *Server) handleUploadFibbler(w http.ResponseWriter, r *http.Request) {
	file, ok := openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	records, err := csvimport.ParseFibbler(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	zap.L().Info("fibbler upload parsed", zap.Int("accounts", len(records)))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "parsed " + strconv.Itoa(len(records)) + " accounts from Fibbler export",
		"accounts": preview(records),
	})
}

func (s *Server) handleUploadLinkedInAds(w http.ResponseWriter, r *http.Request) {
	file, ok := openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	records, err := csvimport.ParseLinkedInAds(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	zap.L().Info("linkedin ads upload parsed", zap.Int("records", len(records)))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "parsed " + strconv.Itoa(len(records)) + " records from LinkedIn Ads export",
		"records": preview(records),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"integrations": s.integrationsConfigured(),
	})
}

func (s *Server) handleIntegrationStatus(w http.ResponseWriter, r *http.Request) {
	configured := s.integrationsConfigured()
	writeJSON(w, http.StatusOK, map[string]any{
		"salesforce": map[string]any{
			"configured": configured["salesforce"],
			"login_url":  s.cfg.Salesforce.LoginURL,
		},
		"hubspot": map[string]any{
			"configured": configured["hubspot"],
		},
		"linkedin": map[string]any{
			"configured":      configured["linkedin"],
			"organization_id": s.cfg.LinkedIn.OrganizationID,
			"ad_account_id":   s.cfg.LinkedIn.AdAccountID,
		},
		"factors": map[string]any{
			"configured": configured["factors"],
			"project_id": s.cfg.Factors.ProjectID,
		},
	})
}

func (s *Server) integrationsConfigured() map[string]bool {
	return map[string]bool{
		"salesforce": s.cfg.Salesforce.Username != "" && s.cfg.Salesforce.ClientID != "",
		"hubspot":    s.cfg.HubSpot.Token != "",
		"linkedin":   s.cfg.LinkedIn.Token != "",
		"factors":    s.cfg.Factors.Key != "",
	}
}

// openUpload extracts the "file" part of a multipart upload, enforcing the
// .csv extension and size cap. On failure it writes the error response and
// returns ok=false.
func openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return nil, false
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		f.Close()
		writeError(w, http.StatusBadRequest, "file must be a CSV")
		return nil, false
	}
	return f, true
}

// preview returns at most the first ten records for the upload response.
func preview[T any](records []T) []T {
	if len(records) > 10 {
		return records[:10]
	}
	return records
}

// parseFilter builds an AccountFilter from list query parameters.
func parseFilter(r *http.Request) (model.AccountFilter, error) {
	q := r.URL.Query()
	var f model.AccountFilter

	var err error
	if f.MinPipeline, err = floatParam(q.Get("min_pipeline")); err != nil {
		return f, err
	}
	if f.MaxPipeline, err = floatParam(q.Get("max_pipeline")); err != nil {
		return f, err
	}
	if f.MinContacts, err = intParam(q.Get("min_contacts")); err != nil {
		return f, err
	}
	if f.MinIntentScore, err = intParam(q.Get("min_intent_score")); err != nil {
		return f, err
	}
	if f.HasOpenOpportunities, err = boolParam(q.Get("has_open_opportunities")); err != nil {
		return f, err
	}

	if raw := q.Get("industries"); raw != "" {
		for _, industry := range strings.Split(raw, ",") {
			if industry = strings.TrimSpace(industry); industry != "" {
				f.Industries = append(f.Industries, industry)
			}
		}
	}

	f.SearchQuery = q.Get("search")
	f.SortBy = q.Get("sort_by")
	f.SortOrder = q.Get("sort_order")

	if page, err := intParam(q.Get("page")); err != nil {
		return f, err
	} else if page != nil {
		f.Page = *page
	}
	if pageSize, err := intParam(q.Get("page_size")); err != nil {
		return f, err
	} else if pageSize != nil {
		if *pageSize > 100 {
			*pageSize = 100
		}
		f.PageSize = *pageSize
	}

	return f, nil
}

func floatParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("invalid numeric parameter: " + raw)
	}
	return &v, nil
}

func intParam(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("invalid integer parameter: " + raw)
	}
	return &v, nil
}

func boolParam(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New("invalid boolean parameter: " + raw)
	}
	return &v, nil
}
