package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status         string    `json:"status" example:"healthy" doc:"Service health status"`
		Version        string    `json:"version" example:"1.0.0" doc:"API version"`
		Time           time.Time `json:"time" doc:"Current server time"`
		ActiveSessions int       `json:"active_sessions" doc:"Open attention demo sessions"`
	}
}

// PageContent holds the display strings of one page, decoded from its JSON
// document. Nested objects decode to map[string]any.
type PageContent map[string]any

// String returns the string at a dotted path such as "form.heading", or ""
// when the path is missing or not a string.
func (p PageContent) String(path string) string {
	v, ok := p.Lookup(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Lookup walks a dotted path through nested objects.
func (p PageContent) Lookup(path string) (any, bool) {
	var cur any = map[string]any(p)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[path[start:i]]
		if !ok {
			return nil, false
		}
		start = i + 1
	}
	return cur, true
}

// Images returns the "images" object as a name to path map.
func (p PageContent) Images() map[string]string {
	out := make(map[string]string)
	v, ok := p.Lookup("images")
	if !ok {
		return out
	}
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for name, raw := range m {
		if s, ok := raw.(string); ok {
			out[name] = s
		}
	}
	return out
}

// GetContentRequest represents a request for a page's labels
type GetContentRequest struct {
	Page string `path:"page" enum:"main_page,lvef,attention,openmirai,limayutthaya" doc:"Page key"`
}

// GetContentResponse represents a page's labels
type GetContentResponse struct {
	Body PageContent
}
