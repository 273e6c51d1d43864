// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/yiakwy/edx-platform/internal/discovery"
	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/render"
	"github.com/yiakwy/edx-platform/pkg/constants"
)

const shellHelp = `Commands:
  search [TERM...]       search the catalog, an empty term keeps the current filters
  filter TYPE VALUE      add a facet filter (org, modes, language)
  unfilter TYPE VALUE    remove a filter, TYPE may be search_string
  clear                  remove every filter
  more                   load the next page of results
  facets                 show the facet counts of the current search
  help                   show this help
  quit                   leave the shell
`

var errQuit = errors.New("quit")

type ShellCmd struct {
	History string `name:"history" help:"History file (defaults to the profile setting)"`
}

func (s *ShellCmd) Run(g *Globals) error {
	historyFile := s.History
	if historyFile == "" {
		historyFile = g.Profile.HistoryFile
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "discovery> ",
		HistoryFile:     historyFile,
		AutoComplete:    shellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	defer rl.Close()

	app := g.NewApp()
	defer app.Close()

	sh := &shell{app: app, term: g.Term, out: g.Out}
	fmt.Fprintln(g.Out, "Type 'help' for the list of commands.")
	if err := app.Start(g.Ctx); err != nil {
		slog.DebugContext(g.Ctx, "initial search failed", "error", err)
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := sh.exec(line); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			fmt.Fprintln(g.Out, err)
		}
	}
}

func shellCompleter() *readline.PrefixCompleter {
	facets := make([]readline.PrefixCompleterInterface, 0, len(constants.FacetFields))
	for _, f := range constants.FacetFields {
		facets = append(facets, readline.PcItem(f))
	}
	unfacets := append([]readline.PrefixCompleterInterface{readline.PcItem(constants.SearchStringFilterType)}, facets...)

	return readline.NewPrefixCompleter(
		readline.PcItem("search"),
		readline.PcItem("filter", facets...),
		readline.PcItem("unfilter", unfacets...),
		readline.PcItem("clear"),
		readline.PcItem("more"),
		readline.PcItem("facets"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// shell runs one command line against the app
type shell struct {
	app  *discovery.App
	term *render.Terminal
	out  io.Writer
}

func (s *shell) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "search", "s":
		s.app.Search(strings.Join(args, " "))
	case "filter", "f":
		facet, value, err := filterArgs(args)
		if err != nil {
			return err
		}
		if !constants.IsFacetField(facet) {
			return fmt.Errorf("unknown facet %q", facet)
		}
		s.app.SelectFacet(facet, value)
	case "unfilter", "u":
		facet, value, err := filterArgs(args)
		if err != nil {
			return err
		}
		if !s.app.RemoveFilter(model.Filter{Type: facet, Query: value}) {
			fmt.Fprintf(s.out, "No active filter %s=%s\n", facet, value)
		}
	case "clear":
		s.app.ClearAll(nil)
	case "more", "m":
		loaded, err := s.app.ScrolledToBottom()
		if err != nil {
			return err
		}
		if !loaded {
			fmt.Fprintln(s.out, "No more results.")
		}
	case "facets":
		if summary := s.term.FacetSummary(); summary != "" {
			fmt.Fprintln(s.out, summary)
		} else {
			fmt.Fprintln(s.out, "No facets.")
		}
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, type 'help' for the list of commands", cmd)
	}
	return nil
}

func filterArgs(args []string) (string, string, error) {
	if len(args) < 2 {
		return "", "", errors.New("expected TYPE VALUE")
	}
	return args[0], strings.Join(args[1:], " "), nil
}
