// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// extractMatcher holds compiled path rules selecting files for extraction.
type extractMatcher struct {
	matcher *pathrules.Matcher
}

// newExtractMatcher compiles extraction path rules. Empty rules select everything.
// Rule sets without include rules default to including unmatched paths.
func newExtractMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*extractMatcher, error) {
	rules = normalizeFilterRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	hasInclude := false
	for _, rule := range rules {
		if rule.Action == pathrules.ActionInclude {
			hasInclude = true
			break
		}
	}
	if !hasInclude {
		opts.DefaultAction = pathrules.ActionInclude
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidFilterRules, err)
	}

	return &extractMatcher{matcher: matcher}, nil
}

// normalizeFilterRules converts rule patterns to slash form and drops empty patterns.
func normalizeFilterRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		pattern = strings.ReplaceAll(pattern, `\`, `/`)
		pattern = strings.TrimPrefix(pattern, "./")
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether archive path is selected. A nil matcher selects everything.
func (m *extractMatcher) Match(path string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := strings.ReplaceAll(NormalizePath(path), `\`, `/`)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}
