package tools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Column describes one column of a query result table.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Ordinal int    `json:"ordinal"`
}

// Result is the uniform reply shape every tool produces. Consumers rely on
// the field names, so they are part of the stable contract.
//
// Invariants: Valid false implies Errors is non-empty; Valid true implies
// Errors is empty.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Error    string   `json:"error,omitempty"`
	Query    string   `json:"query,omitempty"`
	Timespan string   `json:"timespan,omitempty"`

	ResultCount int              `json:"result_count"`
	Columns     []Column         `json:"columns"`
	Rows        []map[string]any `json:"rows"`

	// Details carries operation-specific payload fields that do not fit the
	// tabular shape (rewritten queries, incident records, ...).
	Details map[string]any `json:"details,omitempty"`

	ExecutionTimeMS int64    `json:"execution_time_ms"`
	Warnings        []string `json:"warnings"`
	Message         string   `json:"message,omitempty"`
}

// NewResult returns an empty valid result. Slices are allocated so the JSON
// encoding always shows [] rather than null.
func NewResult() *Result {
	return &Result{
		Valid:    true,
		Errors:   []string{},
		Columns:  []Column{},
		Rows:     []map[string]any{},
		Warnings: []string{},
	}
}

// Fail builds an invalid result carrying the formatted message in every
// consumer-visible slot (errors, error, warnings, message), so callers that
// read only one of them still see it.
func Fail(format string, args ...any) *Result {
	msg := fmt.Sprintf(format, args...)
	r := NewResult()
	r.Valid = false
	r.Errors = []string{msg}
	r.Error = msg
	r.Warnings = []string{msg}
	r.Message = msg
	return r
}

// Elapsed returns the milliseconds since start, for ExecutionTimeMS.
func Elapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// MCP converts the result into an MCP call-tool reply: the full result object
// as indented JSON text content, with the protocol-level error flag mirroring
// Valid.
func (r *Result) MCP() *mcp.CallToolResult {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode tool result: %v", err))
	}

	out := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(data)),
		},
	}
	out.IsError = !r.Valid
	return out
}
