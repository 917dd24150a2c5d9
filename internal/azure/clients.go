package azure

import (
	"context"

	"sentinelmcp/internal/config"
	"sentinelmcp/pkg/logging"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	armoperationalinsights "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/operationalinsights/armoperationalinsights/v2"
	armsecurityinsights "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/securityinsights/armsecurityinsights/v2"
)

// NewContext builds the process-wide capability context from the loaded
// configuration. Authentication happens here, once; no handle ever re-auths
// lazily afterwards.
//
// Missing credentials or identity fields do not fail startup: the affected
// handle is simply left nil and every tool that needs it reports a structured
// "not initialized" result instead. That keeps the tool catalogue inspectable
// (and the server usable for the remaining capabilities) in partially
// configured environments.
func NewContext(cfg config.Config) *Context {
	azctx := &Context{
		TenantID:       cfg.Azure.TenantID,
		SubscriptionID: cfg.Azure.SubscriptionID,
		ResourceGroup:  cfg.Azure.ResourceGroup,
		WorkspaceName:  cfg.Azure.WorkspaceName,
		WorkspaceID:    cfg.Azure.WorkspaceID,
		Config:         cfg,
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		logging.Warn("Azure", "No Azure credential available, all capabilities disabled: %v", err)
		return azctx
	}

	if cfg.Azure.WorkspaceID != "" {
		logsClient, err := azquery.NewLogsClient(cred, nil)
		if err != nil {
			logging.Error("Azure", err, "Failed to create Azure Monitor Logs client")
		} else {
			azctx.Logs = logsClient
			logging.Info("Azure", "Logs client bound to workspace %s", cfg.Azure.WorkspaceID)
		}
	} else {
		logging.Warn("Azure", "No workspace ID configured, logs queries disabled")
	}

	// The management-plane handles need the full subscription/resourceGroup/
	// workspaceName triple.
	if cfg.Azure.SubscriptionID == "" || cfg.Azure.ResourceGroup == "" || cfg.Azure.WorkspaceName == "" {
		logging.Warn("Azure", "Incomplete subscription/resourceGroup/workspaceName identity, management capabilities disabled")
		return azctx
	}

	tablesClient, err := armoperationalinsights.NewTablesClient(cfg.Azure.SubscriptionID, cred, nil)
	if err != nil {
		logging.Error("Azure", err, "Failed to create Log Analytics tables client")
	} else {
		azctx.Tables = &tableLister{
			client:        tablesClient,
			resourceGroup: cfg.Azure.ResourceGroup,
			workspaceName: cfg.Azure.WorkspaceName,
		}
	}

	incidentsClient, err := armsecurityinsights.NewIncidentsClient(cfg.Azure.SubscriptionID, cred, nil)
	if err != nil {
		logging.Error("Azure", err, "Failed to create Sentinel incidents client")
	} else {
		azctx.Incidents = &incidentReader{
			client:        incidentsClient,
			resourceGroup: cfg.Azure.ResourceGroup,
			workspaceName: cfg.Azure.WorkspaceName,
		}
	}

	return azctx
}

// tableLister adapts the ARM tables client to the TableLister capability,
// binding it to one workspace.
type tableLister struct {
	client        *armoperationalinsights.TablesClient
	resourceGroup string
	workspaceName string
}

func (t *tableLister) ListTables(ctx context.Context) ([]TableInfo, error) {
	pager := t.client.NewListByWorkspacePager(t.resourceGroup, t.workspaceName, nil)

	var tables []TableInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, tbl := range page.Value {
			if tbl == nil || tbl.Name == nil {
				continue
			}
			info := TableInfo{Name: *tbl.Name}
			if tbl.Properties != nil {
				if tbl.Properties.RetentionInDays != nil {
					info.RetentionInDays = *tbl.Properties.RetentionInDays
				}
				if tbl.Properties.TotalRetentionInDays != nil {
					info.TotalRetentionInDays = *tbl.Properties.TotalRetentionInDays
				}
				if tbl.Properties.Plan != nil {
					info.Plan = string(*tbl.Properties.Plan)
				}
			}
			tables = append(tables, info)
		}
	}
	return tables, nil
}

// incidentReader adapts the ARM incidents client to the IncidentReader
// capability, binding it to one workspace.
type incidentReader struct {
	client        *armsecurityinsights.IncidentsClient
	resourceGroup string
	workspaceName string
}

func (r *incidentReader) GetIncident(ctx context.Context, incidentID string) (*armsecurityinsights.Incident, error) {
	resp, err := r.client.Get(ctx, r.resourceGroup, r.workspaceName, incidentID, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Incident, nil
}
