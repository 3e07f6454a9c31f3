package models

import "encoding/json"

// RecommendRequest is the body posted to the recommendation endpoint. The
// backend model names the asset figure "money".
type RecommendRequest struct {
	Age     int64  `json:"age"`
	Salary  int64  `json:"salary"`
	Money   int64  `json:"money"`
	Purpose string `json:"purpose"`
}

// Recommendation is the latest backend answer, kept as sent.
type Recommendation struct {
	Raw json.RawMessage
}

// recommendationTextPaths are tried in order by Text.
var recommendationTextPaths = []string{"$.recommendation", "$.message", "$.result", "$.answer"}

// Text returns the human-readable part of the answer, or "" when the
// backend sent none of the known text fields.
func (r Recommendation) Text() string {
	if len(r.Raw) == 0 {
		return ""
	}
	for _, p := range recommendationTextPaths {
		if s, ok := QueryString(r.Raw, p); ok {
			return s
		}
	}
	return ""
}
