package models

// OrphanFilters defines parameters for filtering orphan archive queries.
type OrphanFilters struct {
	File            string `json:"file,omitempty"` // Limit to one document (store-relative path).
	Page            int    `json:"page"`
	Limit           int    `json:"limit"`
	IncludeRestored bool   `json:"include_restored,omitempty"`
}

// PaginatedResponse is a generic structure for paginated API responses.
type PaginatedResponse struct {
	Page         int         `json:"page"`
	Limit        int         `json:"limit"`
	TotalRecords int64       `json:"total_records"`
	TotalPages   int         `json:"total_pages"`
	Records      interface{} `json:"records"` // Can hold any type of record slice
}
