package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/memory"
)

func newWriteCmd() *cobra.Command {
	var (
		id       string
		memType  string
		title    string
		tags     string
		severity string
		links    string
		source   string
		body     string
		scopeFl  string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Create or update a memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}

			req := memory.WriteRequest{
				ID: id, Type: memType, Title: title,
				Tags: splitCSV(tags), Severity: severity,
				Links: splitCSV(links), Source: source, Body: body,
			}

			mem, err := a.store.Write(sc, req, time.Now())
			if err != nil {
				cmd.SilenceUsage = true
				fmt.Printf(`{"status":"error","error":%q}`+"\n", err.Error())
				return errWithExit{err, exitCodeFor(err)}
			}

			if format == "json" {
				printJSON(map[string]any{
					"status": "ok", "id": mem.ID, "scope": string(mem.Scope),
					"relativePath": mem.RelativePath,
				})
			} else {
				fmt.Printf("wrote %s (%s) in scope %s\n", mem.ID, mem.Header.Type, mem.Scope)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "update an existing memory by id instead of creating one")
	cmd.Flags().StringVar(&memType, "type", "", "memory type: decision|learning|artifact|gotcha|breadcrumb|hub")
	cmd.Flags().StringVar(&title, "title", "", "memory title")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&severity, "severity", "", "gotcha severity: critical|high|medium|low")
	cmd.Flags().StringVar(&links, "links", "", "comma-separated ids to link: label:target")
	cmd.Flags().StringVar(&source, "source", "", "source attribution")
	cmd.Flags().StringVar(&body, "body", "", "memory body (Markdown)")
	cmd.Flags().StringVar(&scopeFl, "scope", "", "storage scope: enterprise|local|project|global")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table|list")
	return cmd
}

// errWithExit carries the process exit code a subcommand's RunE wants;
// main exits with that code instead of the default exitIO. Cobra still
// prints the error message to stderr.
type errWithExit struct {
	err  error
	code int
}

func (e errWithExit) Error() string { return e.err.Error() }
