package models

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression such as "$.joined_products[0].fin_prdt_nm"
// against a raw server document.
func Query(raw json.RawMessage, path string) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return v, nil
}

// QueryString returns the first string path yields. jsonpath returns a
// list for wildcard and filter paths, so the first element is used then.
func QueryString(raw json.RawMessage, path string) (string, bool) {
	v, err := Query(raw, path)
	if err != nil {
		return "", false
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return "", false
		}
		v = list[0]
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
