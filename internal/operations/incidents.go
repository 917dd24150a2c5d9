package operations

import (
	"context"
	"errors"
	"time"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/config"
	"sentinelmcp/internal/tools"
	"sentinelmcp/internal/worker"
	"sentinelmcp/pkg/logging"

	armsecurityinsights "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/securityinsights/armsecurityinsights/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// incidentGetTool fetches one Sentinel incident by ID.
type incidentGetTool struct {
	pool    *worker.Pool
	timeout time.Duration
}

func newIncidentGetTool(cfg config.Config, pool *worker.Pool) *incidentGetTool {
	return &incidentGetTool{
		pool:    pool,
		timeout: queryTimeout(cfg.Query),
	}
}

func (t *incidentGetTool) Name() string { return "sentinel_incident_get" }

func (t *incidentGetTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription("Get a Microsoft Sentinel incident by its incident ID"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("incident_id",
			mcp.Required(),
			mcp.Description("Incident ID (the GUID segment of the incident resource)"),
		),
	)
}

func (t *incidentGetTool) Run(ctx context.Context, azctx *azure.Context, args map[string]any) *tools.Result {
	incidentID := tools.StringParam(args, "incident_id", "")
	if incidentID == "" {
		logging.Warn("IncidentGet", "Missing required parameter: incident_id")
		return tools.Fail("Missing required parameter: incident_id")
	}

	reader, err := azctx.IncidentsClient()
	if err != nil {
		logging.Error("IncidentGet", err, "Capability lookup failed")
		return tools.Fail("%v", err)
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	raw, err := t.pool.Submit(callCtx, t.Name(), func() (any, error) {
		return reader.GetIncident(callCtx, incidentID)
	})
	if err != nil {
		if errors.Is(err, worker.ErrTimeout) {
			logging.Error("IncidentGet", err, "Incident fetch timed out after %s", t.timeout)
			return tools.Fail("Incident fetch timed out after %s", t.timeout)
		}
		logging.Error("IncidentGet", err, "Error fetching incident %s", incidentID)
		return tools.Fail("Error fetching incident %s: %v", incidentID, err)
	}

	incident := raw.(*armsecurityinsights.Incident)

	result := tools.NewResult()
	result.Details = map[string]any{"incident": flattenIncident(incident)}
	result.ResultCount = 1
	result.ExecutionTimeMS = tools.Elapsed(start)
	result.Message = "Incident retrieved successfully"
	return result
}

// flattenIncident reduces the ARM incident resource to the fields consumers
// actually read, with JSON-friendly values.
func flattenIncident(incident *armsecurityinsights.Incident) map[string]any {
	out := map[string]any{}
	if incident == nil {
		return out
	}

	if incident.Name != nil {
		out["id"] = *incident.Name
	}
	if incident.ID != nil {
		out["resource_id"] = *incident.ID
	}

	props := incident.Properties
	if props == nil {
		return out
	}

	if props.Title != nil {
		out["title"] = *props.Title
	}
	if props.Description != nil {
		out["description"] = *props.Description
	}
	if props.Severity != nil {
		out["severity"] = string(*props.Severity)
	}
	if props.Status != nil {
		out["status"] = string(*props.Status)
	}
	if props.Classification != nil {
		out["classification"] = string(*props.Classification)
	}
	if props.IncidentNumber != nil {
		out["incident_number"] = *props.IncidentNumber
	}
	if props.CreatedTimeUTC != nil {
		out["created_time_utc"] = props.CreatedTimeUTC.Format(time.RFC3339)
	}
	if props.LastModifiedTimeUTC != nil {
		out["last_modified_time_utc"] = props.LastModifiedTimeUTC.Format(time.RFC3339)
	}
	if props.Owner != nil && props.Owner.AssignedTo != nil {
		out["owner"] = *props.Owner.AssignedTo
	}

	labels := make([]string, 0, len(props.Labels))
	for _, label := range props.Labels {
		if label != nil && label.LabelName != nil {
			labels = append(labels, *label.LabelName)
		}
	}
	if len(labels) > 0 {
		out["labels"] = labels
	}

	return out
}
