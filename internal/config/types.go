package config

// Config is the top-level configuration structure for sentinelmcp.
type Config struct {
	Azure   AzureConfig   `yaml:"azure"`
	Server  ServerConfig  `yaml:"server"`
	Query   QueryConfig   `yaml:"query"`
	Logging LoggingConfig `yaml:"logging"`
}

// AzureConfig identifies the workspace and scope every backend handle is bound to.
// All fields can also be supplied through the standard AZURE_* environment
// variables, which take precedence over file values.
type AzureConfig struct {
	TenantID       string `yaml:"tenantId,omitempty"`
	SubscriptionID string `yaml:"subscriptionId,omitempty"`
	ResourceGroup  string `yaml:"resourceGroup,omitempty"`
	WorkspaceName  string `yaml:"workspaceName,omitempty"`
	WorkspaceID    string `yaml:"workspaceId,omitempty"`
}

// Transport names accepted by ServerConfig.Transport.
const (
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
)

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // "stdio" (default) or "sse"
	Host      string `yaml:"host,omitempty"`      // Host to bind to for SSE (default: localhost)
	Port      int    `yaml:"port,omitempty"`      // Port for the SSE endpoint (default: 8080)
}

// QueryConfig carries the tunables of the query tools and the timespan resolver.
// The buffer and ceiling values are deliberately configurable: they bound
// auto-detected windows, they do not change explicit ones.
type QueryConfig struct {
	TimeoutSeconds       int `yaml:"timeoutSeconds,omitempty"`       // Per-call deadline for backend queries (default: 60)
	WorkerPoolSize       int `yaml:"workerPoolSize,omitempty"`       // Max concurrent backend calls (default: 8)
	DefaultTimespanDays  int `yaml:"defaultTimespanDays,omitempty"`  // Window when neither caller nor query states one (default: 7)
	MaxTimespanDays      int `yaml:"maxTimespanDays,omitempty"`      // Windows above this get a "large window" warning (default: 90)
	BufferPercent        int `yaml:"bufferPercent,omitempty"`        // Safety buffer on auto-detected windows (default: 10)
	MinBufferDays        int `yaml:"minBufferDays,omitempty"`        // Floor for the safety buffer (default: 1)
	LargeResultThreshold int `yaml:"largeResultThreshold,omitempty"` // take/limit above this warns (default: 250)
}

// LoggingConfig defines log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}
