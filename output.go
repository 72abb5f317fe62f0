package shardbench

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// WriteSummaries renders summaries to w as "table", "yaml" or "json".
func WriteSummaries(w io.Writer, format string, summaries []Summary) error {
	switch format {
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STRATEGY\tROUNDS\tMIN\tMEAN\tMAX\tOPS/SEC")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.0f\n", s.Strategy, s.Rounds, s.Min, s.Mean, s.Max, s.OpsPerSec)
		}
		return tw.Flush()
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summaries); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	return fmt.Errorf("unsupported output format %q", format)
}
