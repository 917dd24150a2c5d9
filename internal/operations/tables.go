package operations

import (
	"context"
	"errors"
	"strings"
	"time"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/config"
	"sentinelmcp/internal/tools"
	"sentinelmcp/internal/worker"
	"sentinelmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/patrickmn/go-cache"
)

// tablesListTool lists the Log Analytics tables of the workspace. The table
// inventory changes rarely, so results are cached for a few minutes the same
// way tool listings are cached elsewhere.
type tablesListTool struct {
	pool    *worker.Pool
	timeout time.Duration
	cache   *cache.Cache
}

func newTablesListTool(cfg config.Config, pool *worker.Pool) *tablesListTool {
	return &tablesListTool{
		pool:    pool,
		timeout: queryTimeout(cfg.Query),
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (t *tablesListTool) Name() string { return "sentinel_logs_tables_list" }

func (t *tablesListTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription("List the tables of the Log Analytics workspace with their retention settings"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("filter",
			mcp.Description("Case-insensitive substring to filter table names by"),
		),
	)
}

func (t *tablesListTool) Run(ctx context.Context, azctx *azure.Context, args map[string]any) *tools.Result {
	filter := tools.StringParam(args, "filter", "")

	lister, err := azctx.TablesClient()
	if err != nil {
		logging.Error("TablesList", err, "Capability lookup failed")
		return tools.Fail("%v", err)
	}

	start := time.Now()
	cacheKey := "tables:" + azctx.WorkspaceName

	var infos []azure.TableInfo
	if cached, found := t.cache.Get(cacheKey); found {
		logging.Debug("TablesList", "Returning cached tables for workspace %s", azctx.WorkspaceName)
		infos = cached.([]azure.TableInfo)
	} else {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		raw, err := t.pool.Submit(callCtx, t.Name(), func() (any, error) {
			return lister.ListTables(callCtx)
		})
		if err != nil {
			if errors.Is(err, worker.ErrTimeout) {
				logging.Error("TablesList", err, "Table listing timed out after %s", t.timeout)
				return tools.Fail("Table listing timed out after %s", t.timeout)
			}
			logging.Error("TablesList", err, "Error listing workspace tables")
			return tools.Fail("Error listing tables: %v", err)
		}

		infos = raw.([]azure.TableInfo)
		t.cache.Set(cacheKey, infos, cache.DefaultExpiration)
		logging.Info("TablesList", "Fetched and cached %d tables for workspace %s", len(infos), azctx.WorkspaceName)
	}

	result := tools.NewResult()
	result.Columns = []tools.Column{
		{Name: "name", Type: "string", Ordinal: 0},
		{Name: "retention_in_days", Type: "long", Ordinal: 1},
		{Name: "total_retention_in_days", Type: "long", Ordinal: 2},
		{Name: "plan", Type: "string", Ordinal: 3},
	}

	for _, info := range infos {
		if filter != "" && !strings.Contains(strings.ToLower(info.Name), strings.ToLower(filter)) {
			continue
		}
		result.Rows = append(result.Rows, map[string]any{
			"name":                    info.Name,
			"retention_in_days":       info.RetentionInDays,
			"total_retention_in_days": info.TotalRetentionInDays,
			"plan":                    info.Plan,
		})
	}

	result.ResultCount = len(result.Rows)
	result.ExecutionTimeMS = tools.Elapsed(start)
	result.Message = "Tables listed successfully"
	return result
}
