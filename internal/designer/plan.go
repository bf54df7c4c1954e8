package designer

import "uniformgen/internal/domain"

// Plan is the per-request design decision. The view is computed once here and the
// same value drives both prompt compilation and overlay placement.
type Plan struct {
	View   domain.View
	Theme  domain.ThemeHint
	Prompt domain.PromptBundle
}

// NewPlan resolves the view and compiles the prompts for a validated request.
func NewPlan(req domain.DesignRequest) Plan {
	view := DecideView(req.NamePosition, req.NumberPosition)
	return Plan{
		View:   view,
		Theme:  ExtractTheme(req.Keyword),
		Prompt: BuildBundle(req.Keyword, req.Sport, req.Style, view),
	}
}
