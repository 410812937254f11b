package app

import (
	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/analyzer/growth"
	"github.com/newthinker/fisher/internal/analyzer/insider"
	"github.com/newthinker/fisher/internal/analyzer/management"
	"github.com/newthinker/fisher/internal/analyzer/margins"
	"github.com/newthinker/fisher/internal/analyzer/sentiment"
	"github.com/newthinker/fisher/internal/analyzer/valuation"
)

// NewEngine creates an engine with all six category analyzers registered
func NewEngine(logger *zap.Logger) *analyzer.Engine {
	e := analyzer.NewEngine(logger)
	e.Register(growth.New())
	e.Register(margins.New())
	e.Register(management.New())
	e.Register(valuation.New())
	e.Register(insider.New())
	e.Register(sentiment.New())
	return e
}
