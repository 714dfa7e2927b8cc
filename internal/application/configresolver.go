package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ericfisherdev/stale-issues/internal/config"
	"github.com/ericfisherdev/stale-issues/internal/domain/model"
	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

// leadingInteger matches the integer prefix accepted for days-before-close,
// so "7" and "7 days" both parse.
var leadingInteger = regexp.MustCompile(`^[+-]?\d+`)

// ConfigResolver validates raw inputs into a RunConfig.
type ConfigResolver struct {
	reader   driven.IssueReader
	reporter driven.Reporter
}

// NewConfigResolver creates a ConfigResolver that verifies the stale label
// through reader and reports dry-run warnings to reporter.
func NewConfigResolver(reader driven.IssueReader, reporter driven.Reporter) *ConfigResolver {
	return &ConfigResolver{reader: reader, reporter: reporter}
}

// Resolve validates in and returns the RunConfig for this run. It fails with
// model.ErrInvalidRepo, model.ErrLabelNotFound or model.ErrInvalidThreshold
// before any issue is scanned. A missing label is only a warning in dry-run.
func (r *ConfigResolver) Resolve(ctx context.Context, in *config.Inputs) (*model.RunConfig, error) {
	repo, err := parseRepository(in.GitHubRepo)
	if err != nil {
		return nil, err
	}

	if err := r.reader.GetLabel(ctx, repo, in.StaleLabel); err != nil {
		slog.Debug("stale label check failed", "repo", repo.FullName(), "label", in.StaleLabel, "error", err)
		if !in.DryRun {
			return nil, model.ErrLabelNotFound
		}
		r.reporter.Warning(model.ErrLabelNotFound.Error())
	}

	days, err := parseDays(in.DaysBeforeClose)
	if err != nil {
		return nil, err
	}

	return &model.RunConfig{
		Repository:      repo,
		StaleLabel:      in.StaleLabel,
		DaysBeforeClose: days,
		CloseMessage:    in.CloseMessage,
		DryRun:          in.DryRun,
	}, nil
}

// parseRepository splits an "owner/repo" string into a Repository.
func parseRepository(fullName string) (model.Repository, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.Repository{}, model.ErrInvalidRepo
	}
	return model.Repository{Owner: parts[0], Name: parts[1]}, nil
}

// parseDays parses the leading integer of s. Negative values are rejected.
func parseDays(s string) (int, error) {
	m := leadingInteger.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, model.ErrInvalidThreshold
	}
	days, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.ErrInvalidThreshold, err)
	}
	if days < 0 {
		return 0, model.ErrInvalidThreshold
	}
	return days, nil
}
