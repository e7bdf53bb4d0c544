package mcp

import (
	"context"
	"errors"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/issuewatch/issuewatch/internal/audit"
	"github.com/issuewatch/issuewatch/internal/guard"
	"github.com/issuewatch/issuewatch/internal/health"
	"github.com/issuewatch/issuewatch/internal/ratelimit"
	"github.com/issuewatch/issuewatch/internal/sanitize"
	"github.com/issuewatch/issuewatch/internal/tracker"
)

// --- Input/Output types ---

// ListInput defines parameters for the issues_list tool. Filters carries
// free-form overrides for the declared fields.
type ListInput struct {
	Query   string         `json:"query,omitempty" jsonschema:"free-text search query"`
	Status  string         `json:"status,omitempty" jsonschema:"filter by issue status"`
	Limit   int            `json:"limit,omitempty" jsonschema:"maximum number of issues to return"`
	Filters map[string]any `json:"filters,omitempty" jsonschema:"additional filters (query, status, limit)"`
}

// ListOutput contains the matching issues.
type ListOutput struct {
	Issues []tracker.Issue `json:"issues"`
	Count  int             `json:"count"`
}

// GetInput defines parameters for the issues_get tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"issue ID or key"`
}

// GetOutput contains the fetched issue.
type GetOutput struct {
	Issue *tracker.Issue `json:"issue"`
}

// CreateInput defines parameters for the issues_create tool.
type CreateInput struct {
	Title       string         `json:"title" jsonschema:"issue title"`
	Description string         `json:"description,omitempty" jsonschema:"issue body"`
	Assignee    string         `json:"assignee,omitempty" jsonschema:"assignee login"`
	Labels      []string       `json:"labels,omitempty" jsonschema:"labels to attach"`
	Priority    int            `json:"priority,omitempty" jsonschema:"priority level"`
	Fields      map[string]any `json:"fields,omitempty" jsonschema:"tracker-specific custom fields"`
}

// CreateOutput contains the created issue as the tracker returned it.
type CreateOutput struct {
	Issue *tracker.Issue `json:"issue"`
}

// UpdateInput defines parameters for the issues_update tool. Empty fields are
// left untouched.
type UpdateInput struct {
	ID          string         `json:"id" jsonschema:"issue ID or key"`
	Title       string         `json:"title,omitempty" jsonschema:"new title"`
	Description string         `json:"description,omitempty" jsonschema:"new body"`
	Status      string         `json:"status,omitempty" jsonschema:"new status"`
	Assignee    string         `json:"assignee,omitempty" jsonschema:"new assignee login"`
	Labels      []string       `json:"labels,omitempty" jsonschema:"replacement labels"`
	Priority    int            `json:"priority,omitempty" jsonschema:"new priority level"`
	Fields      map[string]any `json:"fields,omitempty" jsonschema:"tracker-specific custom fields"`
}

// UpdateOutput contains the updated issue.
type UpdateOutput struct {
	Issue *tracker.Issue `json:"issue"`
}

// HealthInput is empty — no parameters needed.
type HealthInput struct{}

// listFilterTypes declares the accepted types for keys in ListInput.Filters.
var listFilterTypes = map[string][]string{
	"query":  {"string"},
	"status": {"string"},
	"limit":  {"number"},
}

// --- Pipeline ---

// admit runs the admission half of the pipeline: rate limiting, then the
// input scan. The returned error is not yet sanitized.
func (s *Server) admit(tool string, input any) error {
	if err := s.limiter.CheckAndConsume(tool, time.Now()); err != nil {
		return err
	}
	return guard.Validate(input)
}

// finish records the call outcome and returns the sanitized error (nil on
// success). Every handler exit path goes through here.
func (s *Server) finish(tool string, start time.Time, err error) error {
	outcome := classify(err)
	s.monitor.RecordOutcome(err == nil, outcome == audit.OutcomeRateLimited)

	sanitized := err
	if err != nil {
		sanitized = sanitize.Sanitize(err)
	}

	if s.audits != nil {
		detail := ""
		if sanitized != nil {
			detail = sanitized.Error()
		}
		if recErr := s.audits.Record(audit.Entry{
			Tool:       tool,
			Outcome:    outcome,
			Detail:     detail,
			DurationMS: time.Since(start).Milliseconds(),
		}); recErr != nil {
			s.logger.Warn("audit record failed", zap.String("tool", tool), zap.Error(recErr))
		}
	}

	if err != nil {
		s.logger.Debug("tool call failed",
			zap.String("tool", tool),
			zap.String("outcome", string(outcome)),
			zap.Error(sanitized))
	}
	return sanitized
}

// classify maps an error to its audit outcome.
func classify(err error) audit.Outcome {
	if err == nil {
		return audit.OutcomeOK
	}
	var limitErr *ratelimit.LimitError
	if errors.As(err, &limitErr) {
		return audit.OutcomeRateLimited
	}
	var (
		invalidErr *guard.InvalidInputError
		sizeErr    *guard.PayloadTooLargeError
		arityErr   *guard.TooManyParamsError
		typeErr    *guard.ParamTypeError
	)
	if errors.As(err, &invalidErr) || errors.As(err, &sizeErr) ||
		errors.As(err, &arityErr) || errors.As(err, &typeErr) {
		return audit.OutcomeRejected
	}
	return audit.OutcomeError
}

// --- Handlers ---

func (s *Server) handleListIssues(ctx context.Context, req *mcpsdk.CallToolRequest, input ListInput) (*mcpsdk.CallToolResult, ListOutput, error) {
	start := time.Now()

	if err := s.admit(toolIssuesList, input); err != nil {
		return nil, ListOutput{}, s.finish(toolIssuesList, start, err)
	}
	if len(input.Filters) > 0 {
		if err := guard.ValidateTypes(input.Filters, listFilterTypes); err != nil {
			return nil, ListOutput{}, s.finish(toolIssuesList, start, err)
		}
	}

	opts := tracker.ListOptions{
		Query:  input.Query,
		Status: input.Status,
		Limit:  input.Limit,
	}
	applyFilters(&opts, input.Filters)

	issues, err := s.client.ListIssues(ctx, opts)
	if err != nil {
		return nil, ListOutput{}, s.finish(toolIssuesList, start, err)
	}

	return nil, ListOutput{Issues: issues, Count: len(issues)}, s.finish(toolIssuesList, start, nil)
}

func (s *Server) handleGetIssue(ctx context.Context, req *mcpsdk.CallToolRequest, input GetInput) (*mcpsdk.CallToolResult, GetOutput, error) {
	start := time.Now()

	if err := s.admit(toolIssuesGet, input); err != nil {
		return nil, GetOutput{}, s.finish(toolIssuesGet, start, err)
	}

	issue, err := s.client.GetIssue(ctx, input.ID)
	if err != nil {
		return nil, GetOutput{}, s.finish(toolIssuesGet, start, err)
	}

	return nil, GetOutput{Issue: issue}, s.finish(toolIssuesGet, start, nil)
}

func (s *Server) handleCreateIssue(ctx context.Context, req *mcpsdk.CallToolRequest, input CreateInput) (*mcpsdk.CallToolResult, CreateOutput, error) {
	start := time.Now()

	if err := s.admit(toolIssuesCreate, input); err != nil {
		return nil, CreateOutput{}, s.finish(toolIssuesCreate, start, err)
	}

	issue, err := s.client.CreateIssue(ctx, tracker.CreateRequest{
		Title:       input.Title,
		Description: input.Description,
		Assignee:    input.Assignee,
		Labels:      input.Labels,
		Priority:    input.Priority,
		Fields:      input.Fields,
	})
	if err != nil {
		return nil, CreateOutput{}, s.finish(toolIssuesCreate, start, err)
	}

	return nil, CreateOutput{Issue: issue}, s.finish(toolIssuesCreate, start, nil)
}

func (s *Server) handleUpdateIssue(ctx context.Context, req *mcpsdk.CallToolRequest, input UpdateInput) (*mcpsdk.CallToolResult, UpdateOutput, error) {
	start := time.Now()

	if err := s.admit(toolIssuesUpdate, input); err != nil {
		return nil, UpdateOutput{}, s.finish(toolIssuesUpdate, start, err)
	}

	issue, err := s.client.UpdateIssue(ctx, input.ID, tracker.UpdateRequest{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Assignee:    input.Assignee,
		Labels:      input.Labels,
		Priority:    input.Priority,
		Fields:      input.Fields,
	})
	if err != nil {
		return nil, UpdateOutput{}, s.finish(toolIssuesUpdate, start, err)
	}

	return nil, UpdateOutput{Issue: issue}, s.finish(toolIssuesUpdate, start, nil)
}

func (s *Server) handleTrackerHealth(ctx context.Context, req *mcpsdk.CallToolRequest, input HealthInput) (*mcpsdk.CallToolResult, health.Snapshot, error) {
	start := time.Now()

	if err := s.admit(toolTrackerHealth, input); err != nil {
		return nil, health.Snapshot{}, s.finish(toolTrackerHealth, start, err)
	}

	snap := s.monitor.GetSnapshot(ctx, s.client.Probe, toolCount)
	return nil, snap, s.finish(toolTrackerHealth, start, nil)
}

// applyFilters merges recognised keys from a free-form filter map into the
// listing options. Declared fields win over filter entries.
func applyFilters(opts *tracker.ListOptions, filters map[string]any) {
	if v, ok := filters["query"].(string); ok && opts.Query == "" {
		opts.Query = v
	}
	if v, ok := filters["status"].(string); ok && opts.Status == "" {
		opts.Status = v
	}
	if v, ok := filters["limit"].(float64); ok && opts.Limit == 0 {
		opts.Limit = int(v)
	}
}
