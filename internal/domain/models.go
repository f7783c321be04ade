// Package domain contains the wire types exchanged with the search service's analyze endpoint.
package domain

// AnalyzeRequest is the body posted to /indexes/{index}/analyze.
// Either Analyzer or Tokenizer names the analysis chain; the filters only
// apply together with a tokenizer.
type AnalyzeRequest struct {
	Text         string   `json:"text"`
	Analyzer     string   `json:"analyzer,omitempty"`
	Tokenizer    string   `json:"tokenizer,omitempty"`
	TokenFilters []string `json:"tokenFilters,omitempty"`
	CharFilters  []string `json:"charFilters,omitempty"`
}

// Token is a single token produced by the remote analyzer.
type Token struct {
	Token       string `json:"token"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Position    int    `json:"position"`
}

// AnalyzeResult is the usual success shape of an analyze response.
type AnalyzeResult struct {
	Tokens []Token `json:"tokens"`
}

// ErrorDetail is the error object the service returns on failures.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail the way the service sends it.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error,omitempty"`
}
