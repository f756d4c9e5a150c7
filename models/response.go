package models

// ParseResponse is the response for POST /api/v1/parse.
type ParseResponse struct {
	// Success indicates whether the page was parsed.
	Success bool `json:"success"`

	// Identifier is the relative URL of the page.
	Identifier string `json:"identifier,omitempty"`

	// Kind is the page kind, e.g. "rider" or "stage".
	Kind string `json:"kind,omitempty"`

	// Data maps field names to values in catalog order.
	Data any `json:"data,omitempty"`

	// EngineUsed names the engine that produced the markup. Empty when the
	// client sent the markup itself.
	EngineUsed string `json:"engine_used,omitempty"`

	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// FieldsResponse is the response for GET /api/v1/fields.
type FieldsResponse struct {
	Success    bool         `json:"success"`
	Identifier string       `json:"identifier,omitempty"`
	Kind       string       `json:"kind,omitempty"`
	Fields     []string     `json:"fields,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// FetchMs is the time spent downloading the page.
	FetchMs int64 `json:"fetch_ms"`

	// ParseMs is the time spent extracting fields.
	ParseMs int64 `json:"parse_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy"
	Uptime  string `json:"uptime"`
	Engine  string `json:"engine"`
	Version string `json:"version"`
}
