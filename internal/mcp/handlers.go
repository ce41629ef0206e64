package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/truelinks/internal/link"
	"github.com/ppiankov/truelinks/internal/render"
	"github.com/ppiankov/truelinks/internal/risk"
)

// EvaluateInput defines parameters for the truelinks_evaluate tool.
type EvaluateInput struct {
	URL string `json:"url" jsonschema:"absolute link to evaluate"`
}

// EvaluateOutput carries the report, or why none was produced.
type EvaluateOutput struct {
	Enabled bool           `json:"enabled"`
	Report  *render.Report `json:"report,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// SignalsInput is empty; the tool takes no parameters.
type SignalsInput struct{}

// SignalsOutput lists the signal catalog.
type SignalsOutput struct {
	Signals []risk.Signal `json:"signals"`
}

func (s *Server) handleEvaluate(ctx context.Context, req *mcpsdk.CallToolRequest, input EvaluateInput) (*mcpsdk.CallToolResult, EvaluateOutput, error) {
	display := s.settings.Current().Display
	if !display.Enabled {
		return nil, EvaluateOutput{Enabled: false}, nil
	}

	u, err := link.Parse(input.URL)
	if err != nil {
		s.logger.Debug("link_parse_failed", "url", input.URL, "err", err)
		return &mcpsdk.CallToolResult{IsError: true}, EvaluateOutput{Enabled: true, Error: err.Error()}, nil
	}

	a := risk.Evaluate(input.URL, u)
	// Tool output is read by agents, never by a terminal.
	rep := render.NewReport(u, a, render.Options{Detailed: display.Detailed})

	s.logger.Debug("link_evaluated",
		"url", input.URL,
		"classification", a.Classification,
		"raw_score", a.RawScore,
	)

	return nil, EvaluateOutput{Enabled: true, Report: &rep}, nil
}

func (s *Server) handleSignals(ctx context.Context, req *mcpsdk.CallToolRequest, input SignalsInput) (*mcpsdk.CallToolResult, SignalsOutput, error) {
	return nil, SignalsOutput{Signals: risk.Catalog()}, nil
}
