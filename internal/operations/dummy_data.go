package operations

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/tools"
	"sentinelmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// isoDatetimeRe recognizes ISO 8601 timestamps in mock values so they map to
// the KQL datetime type instead of string.
var isoDatetimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

const (
	sampleMockJSON = `[{"TimeGenerated":"2023-01-01T12:00:00Z","EventID":4624,"Computer":"TestComputer","Account":"TestUser"}]`
	sampleMockCSV  = "TimeGenerated,EventID,Computer,Account\n2023-01-01T12:00:00Z,4624,TestComputer,TestUser"
)

// logsDummyDataTool tests a KQL query against caller-supplied mock rows by
// prepending a datatable definition and rewriting table references, then
// executing through the regular logs search path. Production tables are
// never touched, but the query still runs in the real backend so operator
// behavior is faithful.
type logsDummyDataTool struct {
	search *logsSearchTool
}

func newLogsDummyDataTool(search *logsSearchTool) *logsDummyDataTool {
	return &logsDummyDataTool{search: search}
}

func (t *logsDummyDataTool) Name() string { return "sentinel_logs_search_with_dummy_data" }

func (t *logsDummyDataTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription("Test a KQL query with mock data using a datatable construct instead of the real table"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("KQL query to test"),
		),
		mcp.WithString("table_name",
			mcp.Description("Name of the table the query reads from (default: TestTable)"),
		),
		mcp.WithString("mock_data_json",
			mcp.Description("Mock rows as a JSON array of objects"),
		),
		mcp.WithString("mock_data_csv",
			mcp.Description("Mock rows as CSV with a header row"),
		),
	)
}

func (t *logsDummyDataTool) Run(ctx context.Context, azctx *azure.Context, args map[string]any) *tools.Result {
	query := tools.StringParam(args, "query", "")
	tableName := tools.StringParam(args, "table_name", "TestTable")

	if query == "" {
		logging.Warn("LogsDummyData", "Missing required parameter: query")
		return tools.Fail("Missing required parameter: query")
	}

	mockData, err := parseMockData(
		tools.StringParam(args, "mock_data_json", ""),
		tools.StringParam(args, "mock_data_csv", ""),
	)
	if err != nil {
		logging.Warn("LogsDummyData", "Failed to parse mock data: %v", err)
		return tools.Fail("%v", err)
	}
	if len(mockData) == 0 {
		result := tools.Fail("Please provide mock data in one of the supported formats: mock_data_json or mock_data_csv")
		result.Details = map[string]any{
			"sample_formats": map[string]string{
				"mock_data_json": sampleMockJSON,
				"mock_data_csv":  sampleMockCSV,
			},
		}
		return result
	}

	datatableDef, datatableVar, err := buildDatatable(mockData, tableName)
	if err != nil {
		logging.Error("LogsDummyData", err, "Failed to generate datatable")
		return tools.Fail("Failed to generate datatable: %v", err)
	}

	// Replace whole-word references to the original table with the mock
	// datatable variable.
	tableRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(tableName) + `\b`)
	if err != nil {
		return tools.Fail("Failed to rewrite query: %v", err)
	}
	rewritten := tableRe.ReplaceAllString(query, datatableVar)
	testQuery := fmt.Sprintf("%s\n\n// Original query against the mock data table\n%s", datatableDef, rewritten)

	result := t.search.Run(ctx, azctx, map[string]any{"query": testQuery})
	result.Details = map[string]any{
		"original_query": query,
		"table_name":     tableName,
		"datatable_var":  datatableVar,
		"test_query":     testQuery,
	}
	return result
}

// parseMockData decodes mock rows from whichever format the caller supplied.
// JSON takes precedence when both are present.
func parseMockData(mockJSON, mockCSV string) ([]map[string]any, error) {
	if mockJSON != "" {
		rows, err := parseMockJSON(mockJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mock_data_json: %w", err)
		}
		return rows, nil
	}
	if mockCSV != "" {
		rows, err := parseMockCSV(mockCSV)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mock_data_csv: %w", err)
		}
		return rows, nil
	}
	return nil, nil
}

func parseMockJSON(input string) ([]map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}

	// Normalize json.Number into int64/real so KQL typing is unambiguous.
	for _, row := range rows {
		for k, v := range row {
			if n, ok := v.(json.Number); ok {
				row[k] = normalizeNumber(n)
			}
		}
	}
	return rows, nil
}

func normalizeNumber(n json.Number) any {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func parseMockCSV(input string) ([]map[string]any, error) {
	reader := csv.NewReader(strings.NewReader(input))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV mock data needs a header row and at least one data row")
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, key := range header {
			if i >= len(record) {
				break
			}
			row[key] = convertCSVValue(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// convertCSVValue promotes CSV cells to typed values where they obviously
// are: integers, reals, booleans; everything else stays a string.
func convertCSVValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// kqlType infers the KQL column type for a mock value.
func kqlType(v any) string {
	switch val := v.(type) {
	case bool:
		return "bool"
	case int64:
		return "long"
	case float64:
		return "real"
	case map[string]any, []any:
		return "dynamic"
	case string:
		if isoDatetimeRe.MatchString(val) {
			return "datetime"
		}
		return "string"
	default:
		return "string"
	}
}

// kqlRepr renders a mock value as a KQL literal of the given type.
func kqlRepr(v any, typ string) string {
	switch typ {
	case "datetime":
		s := fmt.Sprintf("%v", v)
		if strings.HasPrefix(s, "datetime(") {
			return s
		}
		return fmt.Sprintf("datetime(%s)", s)
	case "bool":
		if b, ok := v.(bool); ok && b {
			return "true"
		}
		return "false"
	case "long", "real":
		return fmt.Sprintf("%v", v)
	case "dynamic":
		data, err := json.Marshal(v)
		if err != nil {
			return "dynamic(null)"
		}
		return fmt.Sprintf("dynamic(%s)", data)
	default:
		s := fmt.Sprintf("%v", v)
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		return `"` + s + `"`
	}
}

// buildDatatable generates a KQL datatable definition plus a let binding that
// shadows the original table name with the mock data.
func buildDatatable(mockData []map[string]any, tableName string) (string, string, error) {
	if len(mockData) == 0 {
		return "", "", fmt.Errorf("mock data must be a non-empty list of records")
	}

	first := mockData[0]
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// A column is datetime when any row holds a timestamp-shaped string;
	// otherwise the first row's value decides.
	colTypes := make(map[string]string, len(keys))
	for _, k := range keys {
		isDatetime := false
		for _, row := range mockData {
			if s, ok := row[k].(string); ok && isoDatetimeRe.MatchString(s) {
				isDatetime = true
				break
			}
		}
		if isDatetime {
			colTypes[k] = "datetime"
		} else {
			colTypes[k] = kqlType(first[k])
		}
	}

	colDefs := make([]string, 0, len(keys))
	for _, k := range keys {
		colDefs = append(colDefs, fmt.Sprintf("%s:%s", k, colTypes[k]))
	}

	rowStrs := make([]string, 0, len(mockData))
	for _, row := range mockData {
		vals := make([]string, 0, len(keys))
		for _, k := range keys {
			vals = append(vals, kqlRepr(row[k], colTypes[k]))
		}
		rowStrs = append(rowStrs, strings.Join(vals, ", "))
	}

	datatableVar := tableName + "Dummy"
	datatableDef := fmt.Sprintf(
		"let %s = datatable(\n    %s\n) [\n    %s\n];\nlet %s = %s;",
		datatableVar,
		strings.Join(colDefs, ",\n    "),
		strings.Join(rowStrs, ",\n    "),
		tableName,
		datatableVar,
	)
	return datatableDef, datatableVar, nil
}
