package operations

import (
	"context"
	"sync/atomic"

	"sentinelmcp/internal/azure"
	"sentinelmcp/internal/config"

	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	armsecurityinsights "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/securityinsights/armsecurityinsights/v2"
)

// fakeLogsQuerier records the last query it received and serves a canned
// response. When block is non-nil the call stalls until the channel closes,
// which exercises the timeout path.
type fakeLogsQuerier struct {
	lastWorkspace string
	lastQuery     string
	lastTimespan  string
	calls         atomic.Int32

	resp  azquery.LogsClientQueryWorkspaceResponse
	err   error
	block chan struct{}
}

func (f *fakeLogsQuerier) QueryWorkspace(ctx context.Context, workspaceID string, body azquery.Body, _ *azquery.LogsClientQueryWorkspaceOptions) (azquery.LogsClientQueryWorkspaceResponse, error) {
	f.calls.Add(1)
	f.lastWorkspace = workspaceID
	if body.Query != nil {
		f.lastQuery = *body.Query
	}
	if body.Timespan != nil {
		f.lastTimespan = string(*body.Timespan)
	}
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

type fakeTableLister struct {
	tables []azure.TableInfo
	err    error
	calls  atomic.Int32
}

func (f *fakeTableLister) ListTables(ctx context.Context) ([]azure.TableInfo, error) {
	f.calls.Add(1)
	return f.tables, f.err
}

type fakeIncidentReader struct {
	incident *armsecurityinsights.Incident
	err      error
	lastID   string
}

func (f *fakeIncidentReader) GetIncident(ctx context.Context, incidentID string) (*armsecurityinsights.Incident, error) {
	f.lastID = incidentID
	return f.incident, f.err
}

func testConfig() config.Config {
	return config.GetDefaultConfig()
}

func testAzureContext(querier azure.LogsQuerier) *azure.Context {
	return &azure.Context{
		Logs:          querier,
		WorkspaceID:   "00000000-0000-0000-0000-000000000001",
		WorkspaceName: "test-workspace",
	}
}
