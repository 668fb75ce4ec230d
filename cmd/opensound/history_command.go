package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store == nil {
				return errors.New("build history is disabled (history.enabled = false)")
			}
			defer store.Close()

			builds, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				items := make([]map[string]any, 0, len(builds))
				for _, b := range builds {
					items = append(items, map[string]any{
						"id":            b.ID,
						"status":        b.Status,
						"started_at":    b.StartedAt,
						"duration_ms":   b.Duration().Milliseconds(),
						"packages":      len(b.Packages),
						"distributable": b.Distributable,
						"error":         b.ErrorMessage,
					})
				}
				return encodeHistoryJSON(out, items)
			}

			if len(builds) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, []string{
					b.ID,
					kindLabel(string(b.Status)),
					b.StartedAt.UTC().Format("2006-01-02 15:04"),
					formatDuration(b.Duration()),
					strconv.Itoa(len(b.Packages)),
					b.ErrorMessage,
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Build", "Status", "Started", "Duration", "Packages", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of builds to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// encodeHistoryJSON writes items as indented JSON, leaving paths such as
// "a&b/opensound.zip" unescaped.
func encodeHistoryJSON(w io.Writer, items []map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}
