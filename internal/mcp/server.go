// Package mcp exposes the issue-tracker operations as MCP tools over stdio.
// Every call passes the same governance pipeline: rate limiting, input
// scanning, the remote call, then error sanitization on the way out.
package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/issuewatch/issuewatch/internal/audit"
	"github.com/issuewatch/issuewatch/internal/config"
	"github.com/issuewatch/issuewatch/internal/health"
	"github.com/issuewatch/issuewatch/internal/ratelimit"
	"github.com/issuewatch/issuewatch/internal/tracker"
)

const (
	serverName    = "issuewatch"
	serverVersion = "1.1.0"
	toolCount     = 5
)

// Tool names as registered with the SDK.
const (
	toolIssuesList    = "issues_list"
	toolIssuesGet     = "issues_get"
	toolIssuesCreate  = "issues_create"
	toolIssuesUpdate  = "issues_update"
	toolTrackerHealth = "tracker_health"
)

// Options configures a Server.
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	AuditPath string // empty disables the invocation log
}

// Server wraps the MCP SDK server with the governance pipeline.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *tracker.Client
	limiter   *ratelimit.Limiter
	monitor   *health.Monitor
	audits    *audit.Store
	logger    *zap.Logger
}

// New creates a Server from a validated config.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("mcp: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var audits *audit.Store
	if opts.AuditPath != "" {
		var err error
		audits, err = audit.Open(opts.AuditPath)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
	}

	s := &Server{
		client:  tracker.New(opts.Config, logger),
		limiter: ratelimit.New(limitsFrom(opts.Config)),
		monitor: health.NewMonitor(),
		audits:  audits,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// limitsFrom maps the config's rate limit block onto limiter settings. The
// configured maxRequests bounds the whole window; per-operation limits keep
// their defaults.
func limitsFrom(cfg *config.Config) ratelimit.Limits {
	limits := ratelimit.Limits{}
	if cfg.RateLimit != nil {
		limits.Global = cfg.RateLimit.MaxRequests
		if cfg.RateLimit.WindowMS > 0 {
			limits.Window = time.Duration(cfg.RateLimit.WindowMS) * time.Millisecond
		}
	}
	return limits
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit store if configured.
func (s *Server) Close() error {
	if s.audits != nil {
		return s.audits.Close()
	}
	return nil
}

// Snapshot returns the current composite health document.
func (s *Server) Snapshot(ctx context.Context) health.Snapshot {
	return s.monitor.GetSnapshot(ctx, s.client.Probe, toolCount)
}

// registerTools adds the tracker tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        toolIssuesList,
		Description: "List issues from the tracker, optionally filtered by a search query and status.",
	}, s.handleListIssues)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        toolIssuesGet,
		Description: "Fetch a single issue by its ID or key.",
	}, s.handleGetIssue)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        toolIssuesCreate,
		Description: "Create a new issue in the tracker.",
	}, s.handleCreateIssue)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        toolIssuesUpdate,
		Description: "Apply a partial update to an existing issue.",
	}, s.handleUpdateIssue)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        toolTrackerHealth,
		Description: "Report server health: memory, CPU, tracker connectivity, and request counters.",
	}, s.handleTrackerHealth)
}
