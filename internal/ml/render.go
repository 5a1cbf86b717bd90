package ml

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// RenderResults prints the model summaries in the same table style the
// analysis stage uses.
func RenderResults(w io.Writer, r *Results) {
	banner := color.New(color.FgCyan, color.Bold)
	section := color.New(color.FgYellow)

	banner.Fprintf(w, "\n%s\n", strings.Repeat("=", 78))
	banner.Fprintln(w, "Model results")
	banner.Fprintf(w, "%s\n", strings.Repeat("=", 78))

	if r.Prediction != nil {
		p := r.Prediction
		section.Fprintf(w, "\nUnemployment rate prediction (train %d, test %d)\n", p.TrainRows, p.TestRows)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Model", "R²", "RMSE", "CV R² (mean)"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.Append([]string{"Random Forest",
			fmt.Sprintf("%.4f", p.ForestR2),
			fmt.Sprintf("%.4f", p.ForestRMSE),
			fmt.Sprintf("%.4f", p.ForestCVR2)})
		table.Append([]string{"Gradient Boosting",
			fmt.Sprintf("%.4f", p.BoostingR2),
			fmt.Sprintf("%.4f", p.BoostingRMSE),
			fmt.Sprintf("%.4f", p.BoostingCVR2)})
		table.Render()

		section.Fprintln(w, "\nTop feature importances")
		impTable := tablewriter.NewWriter(w)
		impTable.SetHeader([]string{"Feature", "Importance"})
		impTable.SetAlignment(tablewriter.ALIGN_LEFT)
		top := p.Importances
		if len(top) > 5 {
			top = top[:5]
		}
		for _, imp := range top {
			impTable.Append([]string{imp.Feature, fmt.Sprintf("%.4f", imp.Importance)})
		}
		impTable.Render()
	}

	if r.Clustering != nil {
		c := r.Clustering
		section.Fprintf(w, "\nRegion clusters (k=%d, silhouette %.3f)\n", c.K, c.Silhouette)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Cluster", "Regions", "Unemp.", "Emp. ratio", "Coverage", "Youth"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoWrapText(false)
		for _, cluster := range c.Clusters {
			table.Append([]string{
				fmt.Sprintf("%d", cluster.ID),
				strings.Join(cluster.Regions, ", "),
				fmt.Sprintf("%.2f", cluster.MeanUnemployment),
				fmt.Sprintf("%.3f", cluster.MeanEmploymentRatio),
				fmt.Sprintf("%.3f", cluster.MeanCoverage),
				fmt.Sprintf("%.3f", cluster.MeanYouthRate),
			})
		}
		table.Render()
	}

	if r.Decomposition != nil {
		section.Fprintf(w, "\nSeasonal decomposition over %d months written to %s\n",
			len(r.Decomposition.Months), decompositionChartName)
	}
	fmt.Fprintln(w)
}
