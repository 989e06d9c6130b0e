// Package service holds the entry points collaborators call to turn listing
// payloads into card views.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tagandtake/tagandtake-server/internal/errors"
	"github.com/tagandtake/tagandtake-server/internal/id"
	"github.com/tagandtake/tagandtake-server/internal/lifecycle"
	"github.com/tagandtake/tagandtake-server/internal/validation"
)

// ViewService evaluates listing payloads for a viewer.
type ViewService struct {
	formatter lifecycle.Formatter
	validator *validation.Validator
	logger    *slog.Logger
	runID     string
}

// NewViewService creates a new view service. Every view it produces carries
// the same run id, generated here.
func NewViewService(formatter lifecycle.Formatter, logger *slog.Logger) (*ViewService, error) {
	runID, err := id.Run()
	if err != nil {
		return nil, err
	}
	return &ViewService{
		formatter: formatter,
		validator: validation.New(),
		logger:    logger.With("run_id", runID),
		runID:     runID,
	}, nil
}

// RunID returns the id stamped on every view from this service.
func (s *ViewService) RunID() string {
	return s.runID
}

// EvaluateRequest is one payload to evaluate.
type EvaluateRequest struct {
	// Source names where the payload came from, for logs and error entries.
	Source  string
	Payload []byte
	Auth    lifecycle.AuthState
	// IncludeRecord returns the redacted record alongside the view.
	IncludeRecord bool
}

// Evaluation is the result of evaluating one payload.
type Evaluation struct {
	Source string           `json:"source,omitempty"`
	View   lifecycle.View   `json:"view"`
	Record lifecycle.Record `json:"record,omitempty"`
}

// Evaluate decodes a payload, resolves the caller's role, strips what that
// role may not see, and derives the card view from what remains.
func (s *ViewService) Evaluate(ctx context.Context, req EvaluateRequest) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(req.Auth); err != nil {
		return nil, err
	}

	rec, err := lifecycle.Decode(req.Payload)
	if err != nil {
		s.logger.Warn("malformed listing", "source", req.Source, "error", err)
		return nil, fmt.Errorf("%s: %w", req.Source, err)
	}

	if err := s.validator.Validate(rec); err != nil {
		s.logger.Warn("invalid listing",
			"source", req.Source,
			"category", rec.Category(),
			"error", err,
		)
		return nil, fmt.Errorf("%s: %w", req.Source, invalidListing(err))
	}

	role := lifecycle.ResolveRole(req.Auth, rec)
	visible := lifecycle.Redact(rec, role)

	view, err := lifecycle.Render(visible, role, s.formatter)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "render %s", req.Source)
	}
	view.RunID = s.runID

	s.logger.Debug("listing evaluated",
		"source", req.Source,
		"tag_id", view.TagID,
		slog.Group("view",
			slog.String("category", string(view.Category)),
			slog.String("role", string(view.Role)),
			slog.String("action", string(view.Action.Kind)),
			slog.Bool("enabled", view.Action.Enabled),
		),
	)

	ev := &Evaluation{Source: req.Source, View: view}
	if req.IncludeRecord {
		ev.Record = visible
	}
	return ev, nil
}

// invalidListing recodes a record validation failure as bad input data,
// keeping the field details. Auth validation stays a usage error.
func invalidListing(err error) error {
	var domainErr *errors.Error
	if !errors.As(err, &domainErr) {
		return err
	}
	return errors.ErrInvalidListing.WithDetails(domainErr.Details)
}
