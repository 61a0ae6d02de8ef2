package models

// Request/response shapes for the stateless engine endpoints. The engine
// itself never does I/O; these carry document text in and out of it.

// ExtractRequest asks for the comment records found in a piece of text.
type ExtractRequest struct {
	Text     string `json:"text"`                  // Document text to scan.
	FileType string `json:"fileType" example:"py"` // Extension or language name selecting the marker set.
}

// ExtractResponse returns the anchored records in ascending line order.
type ExtractResponse struct {
	Records []CommentRecord `json:"records"`
}

// InjectRequest asks for records to be re-attached to clean text.
type InjectRequest struct {
	Text           string          `json:"text"`           // Clean document text.
	Records        []CommentRecord `json:"records"`        // Persisted records to re-attach.
	IncludePrivate bool            `json:"includePrivate"` // Render the private partition too.
}

// InjectResponse returns the rebuilt text plus what happened to each record.
type InjectResponse struct {
	Text     string          `json:"text"`
	Injected int             `json:"injected"`
	Skipped  int             `json:"skipped"`
	Orphans  []CommentRecord `json:"orphans,omitempty"` // Records whose anchor no longer exists.
}

// StripRequest asks for comments to be removed from text.
type StripRequest struct {
	Text        string          `json:"text"`
	FileType    string          `json:"fileType" example:"py"`
	Records     []CommentRecord `json:"records"`     // Persisted records carrying visibility flags.
	KeepPrivate bool            `json:"keepPrivate"` // Leave private comments in place.
}

// StripResponse returns the stripped text and removal counts.
type StripResponse struct {
	Text           string `json:"text"`
	RemovedBlocks  int    `json:"removedBlocks"`
	RemovedInlines int    `json:"removedInlines"`
	KeptVisible    int    `json:"keptVisible"`
}

// ReconcileRequest folds current text into a persisted set.
type ReconcileRequest struct {
	Text           string      `json:"text"`
	FileType       string      `json:"fileType" example:"py"`
	Set            *CommentSet `json:"set,omitempty"`            // Previous persisted set; omit for a first pass.
	Mode           Mode        `json:"mode" example:"commented"` // How the text was rendered when edited.
	IncludePrivate bool        `json:"includePrivate"`           // Private records were visible in the text.
}

// ReconcileResponse returns the next persisted set and merge counts.
type ReconcileResponse struct {
	Set     *CommentSet     `json:"set"`
	Matched int             `json:"matched"`
	Added   int             `json:"added"`
	Routed  int             `json:"routed"`  // Clean-mode comments routed into cleanModePayload.
	Cleared int             `json:"cleared"` // cleanModePayload layers cleared.
	Dropped []CommentRecord `json:"dropped,omitempty"`
}

// DetectRequest asks which mode a piece of text is currently in.
type DetectRequest struct {
	Text     string      `json:"text"`
	FileType string      `json:"fileType" example:"py"`
	Set      *CommentSet `json:"set,omitempty"`
}

// DetectResponse names the detected mode.
type DetectResponse struct {
	Mode Mode `json:"mode" example:"commented"`
}

// FileOpRequest addresses a workspace document for toggle/sync/hide/show.
type FileOpRequest struct {
	Path           string `json:"path" example:"src/app.py"` // Workspace-relative or absolute path.
	FileType       string `json:"fileType,omitempty"`        // Optional override; derived from the path when empty.
	IncludePrivate *bool  `json:"includePrivate,omitempty"`  // Flip private-partition rendering before the operation; omit to keep the session's setting.
}

// MarkRequest flags the comment at a document line. Nil flag fields are
// left as stored, so a request can set one flag without clobbering the
// other.
type MarkRequest struct {
	Path          string `json:"path" example:"src/app.py"`
	FileType      string `json:"fileType,omitempty"`
	Line          int    `json:"line" example:"12"` // 1-based line number.
	AlwaysVisible *bool  `json:"alwaysVisible,omitempty"`
	IsPrivate     *bool  `json:"isPrivate,omitempty"`
}
