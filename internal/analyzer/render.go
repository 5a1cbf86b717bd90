package analyzer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// maxRenderedRows caps each printed table; the full grid still reaches the
// workbook export.
const maxRenderedRows = 10

// RenderInsights prints each insight as an aligned table under a colored
// banner.
func RenderInsights(w io.Writer, title string, insights []Insight) {
	banner := color.New(color.FgCyan, color.Bold)
	section := color.New(color.FgYellow)

	banner.Fprintf(w, "\n%s\n", divider())
	banner.Fprintf(w, "%s\n", title)
	banner.Fprintf(w, "%s\n", divider())

	for _, insight := range insights {
		section.Fprintf(w, "\n[insight %d] %s\n", insight.Number, insight.Title)
		if insight.Empty() {
			fmt.Fprintln(w, "no data or query failed")
			continue
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader(insight.Columns)
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		shown := insight.Rows
		if len(shown) > maxRenderedRows {
			shown = shown[:maxRenderedRows]
		}
		for _, row := range shown {
			table.Append(row)
		}
		table.Render()

		if len(insight.Rows) > maxRenderedRows {
			fmt.Fprintf(w, "... showing %d of %d rows\n", maxRenderedRows, len(insight.Rows))
		}
	}
	fmt.Fprintln(w)
}

// RenderStatistics prints the warehouse row-count summary.
func RenderStatistics(w io.Writer, s Statistics) {
	banner := color.New(color.FgCyan, color.Bold)
	banner.Fprintf(w, "\n%s\n", divider())
	banner.Fprintln(w, "Warehouse summary")
	banner.Fprintf(w, "%s\n", divider())

	fmt.Fprintf(w, "  unemployment rows:        %d\n", s.UnemploymentRows)
	fmt.Fprintf(w, "  industry employment rows: %d\n", s.EmploymentRows)
	fmt.Fprintf(w, "  industries:               %d\n", s.Industries)
	fmt.Fprintf(w, "  regions:                  %d\n", s.Regions)
	fmt.Fprintf(w, "  insurance rows:           %d\n", s.InsuranceRows)
	fmt.Fprintf(w, "  education rows:           %d\n", s.EducationRows)
	fmt.Fprintf(w, "  age rows:                 %d\n", s.AgeRows)
}

func divider() string {
	return strings.Repeat("=", 78)
}
