package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/store"
	"github.com/olivierh59500/netgraph/internal/ui"
)

func edgeRows(nodes []graph.Node, edges []graph.Edge) [][]string {
	lookup := graph.NodesByID(nodes)
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{
			lookup.Name(e.FromID),
			lookup.Name(e.ToID),
			e.Type,
			string(e.Strength),
		})
	}
	return rows
}

func edgesCmd() *cobra.Command {
	var (
		dot   bool
		check bool
	)

	cmd := &cobra.Command{
		Use:   "edges",
		Short: "List relationships as undirected edges",
		Long: `List relationships as undirected edges.

Documents store each relationship twice, once per direction. The list
shows each relationship once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := store.Open(cfg.Data.Path).Read()
			if err != nil {
				return err
			}

			if check {
				return printProblems(doc.Validate())
			}

			nodes, edges := doc.Nodes(), doc.Relationships()
			if dot {
				fmt.Fprint(ui.Out, store.DOT(nodes, edges))
				return nil
			}

			ui.Banner(fmt.Sprintf("%d relationships from %d records", len(edges), len(doc.Edges)))
			if len(edges) == 0 {
				fmt.Fprintln(ui.Out, ui.Subtle.Sprint("  No relationships yet."))
				return nil
			}
			ui.Table([]string{"FROM", "TO", "TYPE", "STRENGTH"}, edgeRows(nodes, edges))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dot, "dot", false, "Print Graphviz DOT instead of a table")
	cmd.Flags().BoolVar(&check, "check", false, "Validate the document and report problems")
	return cmd
}

// printProblems lists each joined error on its own line and fails when
// there is at least one.
func printProblems(err error) error {
	if err == nil {
		fmt.Fprintf(ui.Out, "  %s document is valid\n", ui.StatusIcon(true))
		return nil
	}
	problems := strings.Split(err.Error(), "\n")
	for _, p := range problems {
		fmt.Fprintf(ui.Out, "  %s %s\n", ui.StatusIcon(false), p)
	}
	return errors.New(fmt.Sprint(len(problems), " problem(s) found"))
}
