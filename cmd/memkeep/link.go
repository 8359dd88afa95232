package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/memindex"
	"github.com/memkeep/memkeep/internal/scope"
)

// knownIDsFor builds a graph.KnownIDs predicate over one scope's index.
// Links stay within a single scope's index (spec §4.4: edges are scoped
// with the memory that declares them).
func knownIDsFor(a *app, sc scope.Scope) graph.KnownIDs {
	root := a.roots[sc]
	idx := memindex.New(root.FS).Load()
	set := make(map[string]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		set[e.ID] = true
	}
	return func(id string) bool { return set[id] }
}

func newLinkCmd() *cobra.Command {
	var scopeFl, label string

	cmd := &cobra.Command{
		Use:   "link <a> <b>",
		Short: "Create a bidirectional labelled edge between two memories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}
			root := a.roots[sc]
			known := knownIDsFor(a, sc)

			reverse := graph.ReverseLabel(label)
			if err := graph.New(root.FS).Link(known, args[0], args[1], label, reverse); err != nil {
				cmd.SilenceUsage = true
				return errWithExit{err, exitCodeFor(err)}
			}
			fmt.Printf("linked %s --%s--> %s (and %s --%s--> %s)\n", args[0], label, args[1], args[1], reverse, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope the memories live in")
	cmd.Flags().StringVar(&label, "label", "relates_to", "edge label")
	return cmd
}

func newUnlinkCmd() *cobra.Command {
	var scopeFl string

	cmd := &cobra.Command{
		Use:   "unlink <a> <b>",
		Short: "Remove the edge(s) between two memories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}
			root := a.roots[sc]
			if err := graph.New(root.FS).Unlink(args[0], args[1]); err != nil {
				cmd.SilenceUsage = true
				return errWithExit{err, exitCodeFor(err)}
			}
			fmt.Printf("unlinked %s and %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope the memories live in")
	return cmd
}

func newEdgesCmd() *cobra.Command {
	var scopeFl, dirFl, format string

	cmd := &cobra.Command{
		Use:   "edges <id>",
		Short: "List edges touching a memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}
			root := a.roots[sc]

			dir := graph.Both
			switch dirFl {
			case "out":
				dir = graph.Out
			case "in":
				dir = graph.In
			}

			edges := graph.New(root.FS).Edges(args[0], dir)
			if format == "json" {
				printJSON(map[string]any{"id": args[0], "edges": edges})
				return nil
			}
			for _, e := range edges {
				fmt.Printf("%s\t%s\t%s\n", directionLabel(e.Direction), e.Label, e.Other)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope the memory lives in")
	cmd.Flags().StringVar(&dirFl, "direction", "both", "out|in|both")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table")
	return cmd
}

func newGraphCmd() *cobra.Command {
	var scopeFl, format string
	var depth int

	cmd := &cobra.Command{
		Use:   "graph <id>",
		Short: "Expand the graph from a memory out to a given depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}
			root := a.roots[sc]

			hops, edges := graph.New(root.FS).Expand(args[0], depth)
			if format == "json" {
				printJSON(map[string]any{"root": args[0], "nodes": hops, "edges": edges})
				return nil
			}
			for _, h := range hops {
				fmt.Printf("%d\t%s\n", h.Distance, h.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope the memory lives in")
	cmd.Flags().IntVar(&depth, "depth", 2, "maximum hop distance to expand")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table")
	return cmd
}

func directionLabel(d graph.Direction) string {
	switch d {
	case graph.Out:
		return "->"
	case graph.In:
		return "<-"
	default:
		return "--"
	}
}
