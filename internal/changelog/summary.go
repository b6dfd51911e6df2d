package changelog

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary renders a table of commit counts per category for every release,
// newest first, with a total row.
func Summary(c *Changelog) string {
	rules := DefaultRules()
	columns := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		columns = append(columns, r.Name)
	}
	columns = append(columns, OtherCategory)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	header := table.Row{"Release"}
	for _, name := range columns {
		header = append(header, name)
	}
	header = append(header, "Total")
	tbl.AppendHeader(header)

	for _, r := range c.Newest() {
		counts := r.CategoryCounts()
		row := table.Row{r.Label}
		for _, name := range columns {
			row = append(row, counts[name])
		}
		row = append(row, r.CommitCount())
		tbl.AppendRow(row)
	}

	footer := table.Row{fmt.Sprintf("%d releases", len(c.Releases))}
	for range columns {
		footer = append(footer, "")
	}
	footer = append(footer, c.GetCommitCount())
	tbl.AppendFooter(footer)

	return tbl.Render()
}
