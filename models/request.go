package models

// ParseRequest is the payload for POST /api/v1/parse.
type ParseRequest struct {
	// URL identifies the page, absolute or relative to the site root.
	// Required.
	URL string `json:"url" binding:"required"`

	// HTML is the page markup. When empty the page is fetched.
	HTML string `json:"html,omitempty"`

	// Fields restricts the result to these fields, in catalog order.
	// Default: every field of the page kind.
	Fields []string `json:"fields,omitempty"`

	// Timeout is the fetch deadline in seconds. Ignored when HTML is set.
	// Default: the server's fetch timeout. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
}
