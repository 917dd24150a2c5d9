package operations

import (
	"context"
	"testing"

	"sentinelmcp/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDummyDataToolForTest(querier *fakeLogsQuerier) *logsDummyDataTool {
	return newLogsDummyDataTool(newLogsSearchTool(testConfig(), worker.New(2)))
}

func TestDummyDataRunRewritesQuery(t *testing.T) {
	querier := &fakeLogsQuerier{resp: heartbeatResponse()}
	tool := newDummyDataToolForTest(querier)

	result := tool.Run(context.Background(), testAzureContext(querier), map[string]any{
		"query":          "SecurityEvent | where EventID == 4624 | project Computer",
		"table_name":     "SecurityEvent",
		"mock_data_json": `[{"TimeGenerated":"2023-01-01T12:00:00Z","EventID":4624,"Computer":"web-01"}]`,
	})

	require.True(t, result.Valid, "errors: %v", result.Errors)

	sent := querier.lastQuery
	assert.Contains(t, sent, "let SecurityEventDummy = datatable(")
	assert.Contains(t, sent, "let SecurityEvent = SecurityEventDummy;")
	assert.Contains(t, sent, "SecurityEventDummy | where EventID == 4624")
	assert.NotContains(t, sent, "SecurityEvent |", "table references must be rewritten to the mock variable")

	require.NotNil(t, result.Details)
	assert.Equal(t, "SecurityEvent | where EventID == 4624 | project Computer", result.Details["original_query"])
	assert.Equal(t, "SecurityEvent", result.Details["table_name"])
	assert.Equal(t, "SecurityEventDummy", result.Details["datatable_var"])
	assert.Equal(t, sent, result.Details["test_query"])
}

func TestDummyDataRunLeavesSubstringsAlone(t *testing.T) {
	querier := &fakeLogsQuerier{resp: heartbeatResponse()}
	tool := newDummyDataToolForTest(querier)

	// "SecurityEvents" contains "SecurityEvent" but is a different word.
	result := tool.Run(context.Background(), testAzureContext(querier), map[string]any{
		"query":          "SecurityEvent | extend Src = 'SecurityEvents'",
		"table_name":     "SecurityEvent",
		"mock_data_json": `[{"EventID":1}]`,
	})

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Contains(t, querier.lastQuery, "'SecurityEvents'")
}

func TestDummyDataRunCSVInput(t *testing.T) {
	querier := &fakeLogsQuerier{resp: heartbeatResponse()}
	tool := newDummyDataToolForTest(querier)

	result := tool.Run(context.Background(), testAzureContext(querier), map[string]any{
		"query":         "TestTable | count",
		"mock_data_csv": "TimeGenerated,EventID,Computer\n2023-01-01T12:00:00Z,4624,web-01",
	})

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Contains(t, querier.lastQuery, "let TestTableDummy = datatable(")
	assert.Contains(t, querier.lastQuery, "TimeGenerated:datetime")
	assert.Contains(t, querier.lastQuery, "EventID:long")
}

func TestDummyDataRunWithoutMockData(t *testing.T) {
	querier := &fakeLogsQuerier{resp: heartbeatResponse()}
	tool := newDummyDataToolForTest(querier)

	result := tool.Run(context.Background(), testAzureContext(querier), map[string]any{
		"query": "TestTable | count",
	})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "mock_data_json or mock_data_csv")

	require.NotNil(t, result.Details)
	samples, ok := result.Details["sample_formats"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, samples, "mock_data_json")
	assert.Contains(t, samples, "mock_data_csv")
	assert.Zero(t, querier.calls.Load())
}

func TestDummyDataRunMissingQuery(t *testing.T) {
	querier := &fakeLogsQuerier{resp: heartbeatResponse()}
	tool := newDummyDataToolForTest(querier)

	result := tool.Run(context.Background(), testAzureContext(querier), map[string]any{
		"mock_data_json": `[{"EventID":1}]`,
	})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "Missing required parameter: query")
}

func TestDummyDataRunMalformedJSON(t *testing.T) {
	querier := &fakeLogsQuerier{resp: heartbeatResponse()}
	tool := newDummyDataToolForTest(querier)

	result := tool.Run(context.Background(), testAzureContext(querier), map[string]any{
		"query":          "TestTable | count",
		"mock_data_json": `{"not":"an array"}`,
	})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "mock_data_json")
}

func TestParseMockJSONTyping(t *testing.T) {
	rows, err := parseMockJSON(`[{"count":42,"ratio":0.5,"ok":true,"name":"x","meta":{"k":"v"}}]`)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(42), rows[0]["count"])
	assert.Equal(t, 0.5, rows[0]["ratio"])
	assert.Equal(t, true, rows[0]["ok"])
	assert.Equal(t, "x", rows[0]["name"])
}

func TestParseMockCSVTyping(t *testing.T) {
	rows, err := parseMockCSV("n,f,b,s\n42,0.5,true,hello")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(42), rows[0]["n"])
	assert.Equal(t, 0.5, rows[0]["f"])
	assert.Equal(t, true, rows[0]["b"])
	assert.Equal(t, "hello", rows[0]["s"])
}

func TestParseMockCSVNeedsDataRows(t *testing.T) {
	_, err := parseMockCSV("only,a,header")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row")
}

func TestKQLType(t *testing.T) {
	assert.Equal(t, "long", kqlType(int64(5)))
	assert.Equal(t, "real", kqlType(1.5))
	assert.Equal(t, "bool", kqlType(true))
	assert.Equal(t, "string", kqlType("hello"))
	assert.Equal(t, "datetime", kqlType("2023-01-01T12:00:00Z"))
	assert.Equal(t, "dynamic", kqlType(map[string]any{"k": "v"}))
	assert.Equal(t, "dynamic", kqlType([]any{1, 2}))
}

func TestKQLRepr(t *testing.T) {
	assert.Equal(t, `"hello"`, kqlRepr("hello", "string"))
	assert.Equal(t, `"say \"hi\""`, kqlRepr(`say "hi"`, "string"))
	assert.Equal(t, "datetime(2023-01-01T12:00:00Z)", kqlRepr("2023-01-01T12:00:00Z", "datetime"))
	assert.Equal(t, "true", kqlRepr(true, "bool"))
	assert.Equal(t, "false", kqlRepr(false, "bool"))
	assert.Equal(t, "42", kqlRepr(int64(42), "long"))
	assert.Equal(t, "1.5", kqlRepr(1.5, "real"))
	assert.Equal(t, `dynamic({"k":"v"})`, kqlRepr(map[string]any{"k": "v"}, "dynamic"))
}

func TestBuildDatatable(t *testing.T) {
	rows := []map[string]any{
		{"TimeGenerated": "2023-01-01T12:00:00Z", "EventID": int64(4624), "Computer": "web-01"},
		{"TimeGenerated": "2023-01-02T12:00:00Z", "EventID": int64(4625), "Computer": "web-02"},
	}

	def, varName, err := buildDatatable(rows, "SecurityEvent")
	require.NoError(t, err)

	assert.Equal(t, "SecurityEventDummy", varName)
	// Columns are sorted by name for deterministic output.
	assert.Contains(t, def, "Computer:string")
	assert.Contains(t, def, "EventID:long")
	assert.Contains(t, def, "TimeGenerated:datetime")
	assert.Contains(t, def, "datetime(2023-01-01T12:00:00Z)")
	assert.Contains(t, def, `"web-02"`)
	assert.Contains(t, def, "let SecurityEvent = SecurityEventDummy;")
}

func TestBuildDatatableDatetimeWhenAnyRowMatches(t *testing.T) {
	// First row's value is not timestamp-shaped, a later row's is; the
	// column must still be datetime.
	rows := []map[string]any{
		{"When": "unknown"},
		{"When": "2023-05-01T00:00:00Z"},
	}

	def, _, err := buildDatatable(rows, "T")
	require.NoError(t, err)
	assert.Contains(t, def, "When:datetime")
}

func TestBuildDatatableEmpty(t *testing.T) {
	_, _, err := buildDatatable(nil, "T")
	require.Error(t, err)
}
