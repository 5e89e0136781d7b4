package wager

import (
	"fmt"
	"time"
)

func validateBetSpec(p CreateBetParams, now time.Time) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidBetSpec)
	}

	if p.MinEntry <= 0 {
		return fmt.Errorf("%w: min entry must be positive", ErrInvalidBetSpec)
	}

	if p.MaxEntry < p.MinEntry {
		return fmt.Errorf("%w: max entry must be at least min entry", ErrInvalidBetSpec)
	}

	if !p.EndDate.After(now) {
		return fmt.Errorf("%w: end date must be in the future", ErrInvalidBetSpec)
	}

	if len(p.OutcomeOptions) < 2 {
		return fmt.Errorf("%w: at least two outcome options required", ErrInvalidBetSpec)
	}

	seen := make(map[string]struct{}, len(p.OutcomeOptions))
	for _, opt := range p.OutcomeOptions {
		if opt == "" {
			return fmt.Errorf("%w: outcome options must be non-empty", ErrInvalidBetSpec)
		}

		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: duplicate outcome option %q", ErrInvalidBetSpec, opt)
		}

		seen[opt] = struct{}{}
	}

	return nil
}

func validateGameSpec(p CreateGameParams, now time.Time) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGameSpec)
	}

	if !p.EndDate.After(now) {
		return fmt.Errorf("%w: end date must be in the future", ErrInvalidGameSpec)
	}

	if len(p.Lines) == 0 {
		return fmt.Errorf("%w: at least one line required", ErrInvalidGameSpec)
	}

	for i, line := range p.Lines {
		if line.Title == "" {
			return fmt.Errorf("%w: line %d: title is required", ErrInvalidGameSpec, i)
		}

		if len(line.Options) != 2 {
			return fmt.Errorf("%w: line %d: exactly two options required", ErrInvalidGameSpec, i)
		}

		for j, opt := range line.Options {
			if opt.Title == "" {
				return fmt.Errorf("%w: line %d option %d: title is required", ErrInvalidGameSpec, i, j)
			}

			if opt.Multiplier <= 0 {
				return fmt.Errorf("%w: line %d option %d: multiplier must be positive", ErrInvalidGameSpec, i, j)
			}
		}
	}

	return nil
}

func containsOutcome(options []string, outcome string) bool {
	for _, opt := range options {
		if opt == outcome {
			return true
		}
	}

	return false
}
