package operations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/config"
	"sentinelmcp/internal/timespan"
	"sentinelmcp/internal/tools"
	"sentinelmcp/internal/worker"
	"sentinelmcp/pkg/logging"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	"github.com/mark3labs/mcp-go/mcp"
)

// takeLimitRe finds row-limit operators so oversized requests can be warned
// about before they hit the backend.
var takeLimitRe = regexp.MustCompile(`(?i)\b(take|limit)\s+(\d+)`)

// logsSearchTool runs a KQL query against the Azure Monitor Logs workspace.
type logsSearchTool struct {
	pool                 *worker.Pool
	timeout              time.Duration
	resolver             timespan.Options
	largeResultThreshold int
}

func newLogsSearchTool(cfg config.Config, pool *worker.Pool) *logsSearchTool {
	return &logsSearchTool{
		pool:                 pool,
		timeout:              queryTimeout(cfg.Query),
		resolver:             resolverOptions(cfg.Query),
		largeResultThreshold: cfg.Query.LargeResultThreshold,
	}
}

func (t *logsSearchTool) Name() string { return "sentinel_logs_search" }

func (t *logsSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription("Run a KQL query against Azure Monitor Logs"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("KQL query to execute"),
		),
		mcp.WithString("timespan",
			mcp.Description("Time window to query, e.g. '90d', '12h', '30m' or ISO 8601 like 'P90D', 'PT4H'. When omitted it is auto-detected from ago() filters in the query, falling back to 7 days"),
		),
	)
}

func (t *logsSearchTool) Run(ctx context.Context, azctx *azure.Context, args map[string]any) *tools.Result {
	query := tools.StringParam(args, "query", "")
	explicitTimespan := tools.StringParam(args, "timespan", "")

	if query == "" {
		logging.Warn("LogsSearch", "Missing required parameter: query")
		return tools.Fail("Missing required parameter: query")
	}

	client, workspaceID, err := azctx.LogsClient()
	if err != nil {
		logging.Error("LogsSearch", err, "Capability lookup failed")
		return tools.Fail("%v", err)
	}

	start := time.Now()

	spec, err := timespan.Resolve(explicitTimespan, query, t.resolver)
	if err != nil {
		logging.Warn("LogsSearch", "Timespan resolution failed: %v", err)
		return tools.Fail("%v", err)
	}
	logging.Debug("LogsSearch", "Resolved timespan %s (source=%s)", spec.TimeInterval(), spec.Source)

	result := tools.NewResult()
	result.Query = query
	result.Timespan = spec.TimeInterval()
	result.Warnings = append(result.Warnings, spec.Warnings...)

	if m := takeLimitRe.FindStringSubmatch(query); m != nil {
		if n, convErr := strconv.Atoi(m[2]); convErr == nil && n > t.largeResultThreshold {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Large result set requested (%d rows). Consider using a smaller limit for better performance.", n))
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	raw, err := t.pool.Submit(callCtx, t.Name(), func() (any, error) {
		body := azquery.Body{
			Query:    to.Ptr(query),
			Timespan: to.Ptr(azquery.TimeInterval(spec.TimeInterval())),
		}
		return client.QueryWorkspace(callCtx, workspaceID, body, nil)
	})
	if err != nil {
		if errors.Is(err, worker.ErrTimeout) {
			logging.Error("LogsSearch", err, "Query timed out after %s", t.timeout)
			return tools.Fail("Query timed out after %s", t.timeout)
		}
		logging.Error("LogsSearch", err, "Error executing logs query")
		return tools.Fail("Error executing query: %v", err)
	}

	resp := raw.(azquery.LogsClientQueryWorkspaceResponse)
	result.ExecutionTimeMS = tools.Elapsed(start)

	if resp.Error != nil {
		logging.Error("LogsSearch", nil, "Backend reported query error: %v", resp.Error)
		return tools.Fail("Error executing query: %v", resp.Error)
	}

	if len(resp.Tables) == 0 || resp.Tables[0] == nil {
		result.Message = "Query returned no tables or results"
		return result
	}

	table := resp.Tables[0]
	for i, col := range table.Columns {
		c := tools.Column{Name: fmt.Sprintf("Column%d", i), Type: "string", Ordinal: i}
		if col != nil {
			if col.Name != nil {
				c.Name = *col.Name
			}
			if col.Type != nil {
				c.Type = string(*col.Type)
			}
		}
		result.Columns = append(result.Columns, c)
	}

	for _, row := range table.Rows {
		dictRow := make(map[string]any, len(result.Columns))
		for i, cell := range row {
			if i >= len(result.Columns) {
				break
			}
			dictRow[result.Columns[i].Name] = jsonSafe(cell)
		}
		result.Rows = append(result.Rows, dictRow)
	}

	result.ResultCount = len(result.Rows)
	result.Message = "Query executed successfully"
	return result
}

// jsonSafe converts backend cell values into JSON-encodable ones.
func jsonSafe(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(time.RFC3339Nano)
	default:
		return v
	}
}
