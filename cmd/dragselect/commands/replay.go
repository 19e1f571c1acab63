package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/dragselect/internal/script"
	"github.com/dshills/dragselect/internal/selection"
	"github.com/dshills/dragselect/internal/trace"
)

func newReplayCmd() *cobra.Command {
	var (
		scriptPath string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "replay <trace.json>",
		Short: "Replay a recorded trace and print the resulting selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := trace.Load(args[0])
			if err != nil {
				return err
			}

			var opts []trace.ReplayOption
			if scriptPath != "" {
				p, err := script.LoadFile(scriptPath)
				if err != nil {
					return err
				}
				defer p.Close()
				opts = append(opts, trace.WithSelectable(p.Selectable))
			}

			res, err := trace.Replay(tr, opts...)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tr, res)
			}
			writeText(cmd.OutOrStdout(), tr, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "Lua script defining selectable(index)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// formatRanges renders runs as "0-6, 9, 12-14".
func formatRanges(ranges []selection.Range) string {
	if len(ranges) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Start == r.End {
			parts[i] = fmt.Sprint(r.Start)
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.Start, r.End)
		}
	}
	return strings.Join(parts, ", ")
}

func writeText(w io.Writer, tr *trace.Trace, res trace.Result) {
	fmt.Fprintf(w, "trace %s: %d events, %s mode\n", tr.ID, res.Events, tr.Engine.Mode)
	fmt.Fprintf(w, "selected %d: %s\n", len(res.Selected), formatRanges(res.Ranges))
	fmt.Fprintf(w, "scroll offset %d\n", res.Offset)
	if res.Active {
		fmt.Fprintln(w, "session still active at end of trace")
	}
}

// writeJSON builds the result document with sjson and indents it with
// pretty, matching the trace file's own tooling.
func writeJSON(w io.Writer, tr *trace.Trace, res trace.Result) error {
	selected := res.Selected
	if selected == nil {
		selected = []int{}
	}
	ranges := make([][2]int, len(res.Ranges))
	for i, r := range res.Ranges {
		ranges[i] = [2]int{r.Start, r.End}
	}

	doc := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"id", tr.ID},
		{"events", res.Events},
		{"selected", selected},
		{"ranges", ranges},
		{"offset", res.Offset},
		{"active", res.Active},
	} {
		if doc, err = sjson.SetBytes(doc, kv.path, kv.value); err != nil {
			return fmt.Errorf("encoding %s: %w", kv.path, err)
		}
	}
	_, err = w.Write(pretty.Pretty(doc))
	return err
}
