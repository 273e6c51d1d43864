// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/constants"
)

type SearchCmd struct {
	Term    []string `arg:"" optional:"" help:"Search terms; empty lists every course"`
	Filters []string `name:"filter" short:"f" help:"Facet filter as type=value (org, modes, language)"`
	Pages   int      `name:"pages" default:"1" help:"Number of result pages to load"`
}

func (s *SearchCmd) Run(g *Globals) error {
	filters, err := parseFilters(s.Filters)
	if err != nil {
		return err
	}

	app := g.NewApp()
	defer app.Close()

	term := strings.TrimSpace(strings.Join(s.Term, " "))
	if err := app.Collection().PerformSearch(g.Ctx, term, filters...); err != nil {
		return err
	}

	for page := 1; page < s.Pages; page++ {
		loaded, err := app.ScrolledToBottom()
		if err != nil {
			return err
		}
		if !loaded {
			break
		}
	}

	if app.Collection().HasNextPage() {
		fmt.Fprintf(g.Out, "Showing %d of %d courses, use --pages to load more\n",
			app.Collection().Len(), app.Collection().TotalCount())
	}
	return nil
}

// parseFilters parses type=value facet filters
func parseFilters(raw []string) ([]model.Filter, error) {
	filters := make([]model.Filter, 0, len(raw))
	for _, r := range raw {
		facet, value, ok := strings.Cut(r, "=")
		facet, value = strings.TrimSpace(facet), strings.TrimSpace(value)
		if !ok || value == "" {
			return nil, fmt.Errorf("invalid filter %q, expected type=value", r)
		}
		if !constants.IsFacetField(facet) {
			return nil, fmt.Errorf("unknown facet %q, expected one of %s", facet, strings.Join(constants.FacetFields, ", "))
		}
		filters = append(filters, model.Filter{Type: facet, Query: value})
	}
	return filters, nil
}
