package azure

import (
	"context"

	"sentinelmcp/internal/config"

	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	armsecurityinsights "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/securityinsights/armsecurityinsights/v2"
)

// LogsQuerier is the query-execution capability: a client able to run a KQL
// query against an Azure Monitor Logs workspace. Satisfied by
// *azquery.LogsClient.
type LogsQuerier interface {
	QueryWorkspace(ctx context.Context, workspaceID string, body azquery.Body, options *azquery.LogsClientQueryWorkspaceOptions) (azquery.LogsClientQueryWorkspaceResponse, error)
}

// TableInfo describes one Log Analytics workspace table.
type TableInfo struct {
	Name                 string `json:"name"`
	RetentionInDays      int32  `json:"retention_in_days"`
	TotalRetentionInDays int32  `json:"total_retention_in_days"`
	Plan                 string `json:"plan,omitempty"`
}

// TableLister is the workspace-table management capability, already bound to
// a subscription, resource group, and workspace.
type TableLister interface {
	ListTables(ctx context.Context) ([]TableInfo, error)
}

// IncidentReader is the Sentinel incident management capability, already
// bound to a subscription, resource group, and workspace.
type IncidentReader interface {
	GetIncident(ctx context.Context, incidentID string) (*armsecurityinsights.Incident, error)
}

// Context is the process-scoped bundle of authenticated backend capability
// handles plus the identity scope they are bound to. It is constructed exactly
// once at startup and passed read-only into every tool invocation; tools must
// never mutate it, which makes unsynchronized concurrent reads safe.
//
// A nil handle means the capability was not initialized (missing credentials
// or identity configuration). The accessors turn that into an
// ErrNotInitialized that names what is missing, so tools never dereference a
// missing handle.
type Context struct {
	Logs      LogsQuerier
	Tables    TableLister
	Incidents IncidentReader

	TenantID       string
	SubscriptionID string
	ResourceGroup  string
	WorkspaceName  string
	WorkspaceID    string

	Config config.Config
}

// LogsClient returns the logs query handle together with the workspace ID it
// must be used against.
func (c *Context) LogsClient() (LogsQuerier, string, error) {
	if c == nil || c.Logs == nil || c.WorkspaceID == "" {
		return nil, "", notInitialized("Azure Monitor Logs client or workspace ID")
	}
	return c.Logs, c.WorkspaceID, nil
}

// TablesClient returns the workspace table listing handle.
func (c *Context) TablesClient() (TableLister, error) {
	if c == nil || c.Tables == nil {
		return nil, notInitialized("Log Analytics tables client")
	}
	return c.Tables, nil
}

// IncidentsClient returns the Sentinel incident handle.
func (c *Context) IncidentsClient() (IncidentReader, error) {
	if c == nil || c.Incidents == nil {
		return nil, notInitialized("Sentinel incidents client")
	}
	return c.Incidents, nil
}
