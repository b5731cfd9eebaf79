package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"intervals-coach/internal/analysis"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_latest_snapshot",
		Description: "Training readiness snapshot: alerts, current fitness and wellness, derived metrics, recent activities and planned workouts",
	}, s.handleLatestSnapshot)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_history_snapshot",
		Description: "Tiered training history (daily 90d, weekly 180d, monthly 1y/2y/3y) with FTP timeline, weight trend, data gaps and phase markers",
	}, s.handleHistorySnapshot)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_zone_distribution",
		Description: "Time in zone over a date range with the three-zone distribution and polarization index",
	}, s.handleZoneDistribution)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_durability_metrics",
		Description: "Efficiency factor, variability index and aerobic decoupling of one activity",
	}, s.handleDurability)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_alerts",
		Description: "Only the alerts of the latest snapshot, alarms first",
	}, s.handleAlerts)
}

// Tool input/output types

type snapshotInput struct {
	Days         int `json:"days,omitempty" jsonschema:"primary window in days (default 7)"`
	ExtendedDays int `json:"extended_days,omitempty" jsonschema:"extended window in days (default 28)"`
}

type historyInput struct {
	LookbackDays int `json:"lookback_days,omitempty" jsonschema:"days of history to summarize (default 1095)"`
}

type zoneInput struct {
	From     string `json:"from,omitempty" jsonschema:"first date YYYY-MM-DD"`
	To       string `json:"to,omitempty" jsonschema:"last date YYYY-MM-DD, defaults to today"`
	Days     int    `json:"days,omitempty" jsonschema:"window length when from is omitted (default 7)"`
	ZoneType string `json:"zone_type,omitempty" jsonschema:"power or hr"`
}

type durabilityInput struct {
	ActivityID string `json:"activity_id" jsonschema:"intervals.icu activity id"`
}

type alertsInput struct {
	Days int `json:"days,omitempty" jsonschema:"primary window in days (default 7)"`
}

type alertsOutput struct {
	SnapshotDate string                    `json:"snapshot_date"`
	AlertCounts  map[analysis.Severity]int `json:"alert_counts"`
	Alerts       []analysis.Alert          `json:"alerts"`
	Message      string                    `json:"message,omitempty"`
}

// Tool handlers

func (s *Server) handleLatestSnapshot(ctx context.Context, req *mcp.CallToolRequest, input snapshotInput) (*mcp.CallToolResult, any, error) {
	days := orDefault(input.Days, s.opts.Days)
	extended := orDefault(input.ExtendedDays, s.opts.ExtendedDays)

	doc, err := s.snapshots.BuildLatest(ctx, s.opts.AthleteID, days, extended)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build snapshot: %w", err)
	}
	return nil, doc, nil
}

func (s *Server) handleHistorySnapshot(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, any, error) {
	lookback := orDefault(input.LookbackDays, s.opts.LookbackDays)

	doc, err := s.history.BuildHistory(ctx, s.opts.AthleteID, lookback)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build history: %w", err)
	}
	return nil, doc, nil
}

func (s *Server) handleZoneDistribution(ctx context.Context, req *mcp.CallToolRequest, input zoneInput) (*mcp.CallToolResult, any, error) {
	zoneType := s.opts.ZoneType
	if input.ZoneType != "" {
		zt, err := analysis.ParseZoneType(input.ZoneType)
		if err != nil {
			return nil, nil, err
		}
		zoneType = zt
	}

	r, err := s.queries.Range(input.From, input.To, input.Days)
	if err != nil {
		return nil, nil, err
	}

	report, err := s.queries.ZoneReport(ctx, s.opts.AthleteID, r, zoneType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute zones: %w", err)
	}
	return nil, report, nil
}

func (s *Server) handleDurability(ctx context.Context, req *mcp.CallToolRequest, input durabilityInput) (*mcp.CallToolResult, any, error) {
	if input.ActivityID == "" {
		return nil, nil, fmt.Errorf("activity_id is required")
	}

	report, err := s.queries.ActivityDurability(ctx, input.ActivityID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute durability: %w", err)
	}
	return nil, report, nil
}

func (s *Server) handleAlerts(ctx context.Context, req *mcp.CallToolRequest, input alertsInput) (*mcp.CallToolResult, alertsOutput, error) {
	days := orDefault(input.Days, s.opts.Days)

	doc, err := s.snapshots.BuildLatest(ctx, s.opts.AthleteID, days, s.opts.ExtendedDays)
	if err != nil {
		return nil, alertsOutput{}, fmt.Errorf("failed to build snapshot: %w", err)
	}

	out := alertsOutput{
		SnapshotDate: doc.Metadata.SnapshotDate,
		AlertCounts:  doc.Metadata.AlertCounts,
		Alerts:       doc.Alerts,
	}
	if len(out.Alerts) == 0 {
		out.Alerts = []analysis.Alert{}
		out.Message = "No alerts. All monitored metrics are within their thresholds."
	}
	return nil, out, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
