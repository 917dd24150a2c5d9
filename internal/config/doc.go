// Package config provides configuration management for sentinelmcp.
//
// This package implements a layered configuration system. Configuration is
// loaded from multiple sources and merged in a specific order, with later
// sources overriding earlier ones:
//
//  1. Default Configuration (embedded in binary)
//     - Provides sensible defaults for all settings
//     - Ensures sentinelmcp works out-of-the-box once Azure identity is known
//
//  2. User Configuration (~/.config/sentinelmcp/config.yaml)
//     - User-specific settings that apply everywhere
//
//  3. Project Configuration (./.sentinelmcp/config.yaml)
//     - Settings for the current directory, shareable via version control
//
//  4. Environment Variables (AZURE_TENANT_ID, AZURE_SUBSCRIPTION_ID,
//     AZURE_RESOURCE_GROUP, AZURE_WORKSPACE_NAME, AZURE_WORKSPACE_ID)
//     - Win over any file value; the usual way to supply identity in CI
//
// # Configuration Structure
//
//	azure:
//	  tenantId: "00000000-0000-0000-0000-000000000000"
//	  subscriptionId: "00000000-0000-0000-0000-000000000000"
//	  resourceGroup: "rg-security"
//	  workspaceName: "sentinel-workspace"
//	  workspaceId: "00000000-0000-0000-0000-000000000000"
//
//	server:
//	  transport: "stdio"   # or "sse"
//	  host: "localhost"
//	  port: 8080
//
//	query:
//	  timeoutSeconds: 60
//	  workerPoolSize: 8
//	  defaultTimespanDays: 7
//	  maxTimespanDays: 90
//	  bufferPercent: 10
//	  minBufferDays: 1
//	  largeResultThreshold: 250
//
//	logging:
//	  level: "info"        # debug, info, warn, error
//	  format: "text"       # text or json
package config
