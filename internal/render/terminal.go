// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package render draws the discovery page on a terminal.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/yiakwy/edx-platform/internal/discovery"
	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/constants"
)

const defaultWidth = 80

// Terminal implements discovery.View by writing styled text to w.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	width int

	// listed is the number of results shown since the last RenderResults
	listed int
	facets map[string]model.FacetResult

	titleStyle   lipgloss.Style
	idStyle      lipgloss.Style
	metaStyle    lipgloss.Style
	filterStyle  lipgloss.Style
	facetStyle   lipgloss.Style
	foundStyle   lipgloss.Style
	errorStyle   lipgloss.Style
	loadingStyle lipgloss.Style
}

var _ discovery.View = (*Terminal)(nil)

// NewTerminal creates a renderer writing to w. A width <= 0 uses 80 columns.
func NewTerminal(w io.Writer, width int) *Terminal {
	if width <= 0 {
		width = defaultWidth
	}
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		w:            w,
		width:        width,
		titleStyle:   r.NewStyle().Bold(true),
		idStyle:      r.NewStyle().Faint(true),
		metaStyle:    r.NewStyle().Faint(true),
		filterStyle:  r.NewStyle().Foreground(lipgloss.Color("12")).Padding(0, 1).Border(lipgloss.NormalBorder(), false, true),
		facetStyle:   r.NewStyle().Foreground(lipgloss.Color("8")),
		foundStyle:   r.NewStyle().Foreground(lipgloss.Color("10")),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		loadingStyle: r.NewStyle().Italic(true).Faint(true),
	}
}

// RenderMessage draws the form message
func (t *Terminal) RenderMessage(msg discovery.Message) {
	var line string
	switch msg.Kind {
	case discovery.MessageFound:
		line = t.foundStyle.Render(fmt.Sprintf("Viewing %d courses", msg.Total))
	case discovery.MessageNotFound:
		line = fmt.Sprintf("We couldn't find any results for %q.", msg.Term)
	case discovery.MessageError:
		line = t.errorStyle.Render("There was an error, try searching again.")
		if msg.Err != nil {
			line += " " + t.metaStyle.Render(msg.Err.Error())
		}
	default:
		return
	}
	t.println(line)
}

// RenderLoading draws the loading indicator when it turns on
func (t *Terminal) RenderLoading(loading bool) {
	if loading {
		t.println(t.loadingStyle.Render("Loading..."))
	}
}

// RenderResults replaces the listed results
func (t *Terminal) RenderResults(courses []model.Course) {
	t.mu.Lock()
	t.listed = 0
	t.mu.Unlock()

	t.println(strings.Repeat("─", t.width))
	t.AppendResults(courses)
}

// AppendResults adds a further page to the listed results
func (t *Terminal) AppendResults(courses []model.Course) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	for _, c := range courses {
		t.listed++
		sb.WriteString(t.courseCard(t.listed, c))
	}
	_, _ = io.WriteString(t.w, sb.String())
}

// RenderFacets keeps the facet counts and draws a one-line summary
func (t *Terminal) RenderFacets(facets map[string]model.FacetResult) {
	t.mu.Lock()
	t.facets = facets
	t.mu.Unlock()

	if len(facets) == 0 {
		return
	}
	t.println(t.facetStyle.Render(t.FacetSummary()))
}

// RenderFilterBar draws the active filters, or nothing when the bar is hidden
func (t *Terminal) RenderFilterBar(filters []model.Filter, visible bool) {
	if !visible || len(filters) == 0 {
		return
	}
	chips := make([]string, 0, len(filters))
	for _, f := range filters {
		label := f.Query
		if f.Type != constants.SearchStringFilterType {
			label = f.Type + ": " + f.Query
		}
		chips = append(chips, t.filterStyle.Render(label))
	}
	t.println(lipgloss.JoinHorizontal(lipgloss.Top, chips...) + t.metaStyle.Render("  (clear all)"))
}

// FacetSummary lists the last rendered facet terms, most frequent first
func (t *Terminal) FacetSummary() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.facets))
	for name := range t.facets {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+formatTerms(t.facets[name].Terms))
	}
	return strings.Join(parts, " | ")
}

// Listed returns the number of results shown since the last RenderResults
func (t *Terminal) Listed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.listed
}

func (t *Terminal) courseCard(n int, c model.Course) string {
	number := c.Content.Number
	if number == "" {
		number = c.Number
	}

	var meta []string
	if c.Org != "" {
		meta = append(meta, c.Org)
	}
	if number != "" {
		meta = append(meta, number)
	}
	if date := startDate(c.Start); date != "" {
		meta = append(meta, "starts "+date)
	}
	if len(c.Modes) > 0 {
		meta = append(meta, strings.Join(c.Modes, "/"))
	}

	lines := []string{
		t.titleStyle.Render(fmt.Sprintf("%3d. %s", n, c.DisplayName())),
		"     " + t.idStyle.Render(c.ID),
	}
	if len(meta) > 0 {
		lines = append(lines, "     "+t.metaStyle.Render(strings.Join(meta, " · ")))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (t *Terminal) println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, line+"\n")
}

// startDate returns the date part of an ISO 8601 timestamp
func startDate(start string) string {
	date, _, _ := strings.Cut(start, "T")
	return date
}

func formatTerms(terms map[string]int) string {
	values := make([]string, 0, len(terms))
	for v := range terms {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if terms[values[i]] != terms[values[j]] {
			return terms[values[i]] > terms[values[j]]
		}
		return values[i] < values[j]
	})

	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s (%d)", v, terms[v]))
	}
	return strings.Join(parts, ", ")
}
