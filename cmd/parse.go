package cmd

import (
	"github.com/spf13/cobra"
	"nestquote/internal/costing"
	"nestquote/internal/logger"
	"nestquote/internal/nest"
	"nestquote/pkg/models"
)

var parseCmd = &cobra.Command{
	Use:   "parse [xml-file]",
	Short: "Show the cost inputs read from a nesting export",
	Long: `Parse a nesting export and print, as JSON, the job-level values that feed
the cost calculation together with the resulting laser and material costs at
the configured hourly laser rate. Missing or malformed values show up as zero.`,
	Example: `  nestquote parse job-0142.xml
  nestquote parse job-0142.xml --parts -o job-0142.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// ParseOutput is the JSON form of a parsed nesting export.
type ParseOutput struct {
	File  string     `json:"file"`
	Input InputData  `json:"input"`
	Cost  CostData   `json:"cost"`
	Parts []PartData `json:"parts,omitempty"`
}

// InputData mirrors models.CostInput.
type InputData struct {
	MaterialCode          string  `json:"material_code"`
	Thickness             float64 `json:"thickness"`
	FeedRate              float64 `json:"feed_rate"`
	PierceRateSec         float64 `json:"pierce_rate_sec"`
	SheetLength           float64 `json:"sheet_length"`
	SheetWidth            float64 `json:"sheet_width"`
	PierceCount           int     `json:"pierce_count"`
	CutDistance           float64 `json:"cut_distance"`
	SheetQuantity         int     `json:"sheet_quantity"`
	MaterialCostPerWeight float64 `json:"material_cost_per_weight"`
	Density               float64 `json:"density"`
	ProcessTimeMinutes    float64 `json:"process_time_minutes"`
}

// CostData is the derived job cost.
type CostData struct {
	HourlyRate      float64           `json:"hourly_rate"`
	SheetQuantity   int               `json:"sheet_quantity"`
	ProcessMinutes  float64           `json:"process_minutes"`
	FromProcessTime bool              `json:"from_process_time"`
	LaserCost       float64           `json:"laser_cost"`
	TotalWeight     float64           `json:"total_weight_lbs"`
	MaterialCost    float64           `json:"material_cost"`
	LineItems       []models.LineItem `json:"line_items"`
}

// PartData is one priced part.
type PartData struct {
	models.PartCostDetail
	TotalCost float64 `json:"total_cost"`
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("parts", false, "Include the priced per-part breakdown")
	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	withParts, _ := cmd.Flags().GetBool("parts")
	outputPath, _ := cmd.Flags().GetString("output")
	path := args[0]

	doc, err := nest.NewParser().ParseFile(path)
	if err != nil {
		return err
	}

	rate := settingsStore().Load().HourlyLaserRate
	in := doc.CostInput()
	jc := costing.Calculate(in, rate)

	out := ParseOutput{
		File:  path,
		Input: InputData(in),
		Cost: CostData{
			HourlyRate:      rate,
			SheetQuantity:   jc.SheetQuantity,
			ProcessMinutes:  jc.ProcessMinutes,
			FromProcessTime: jc.FromProcessTime,
			LaserCost:       jc.LaserCost,
			TotalWeight:     jc.TotalWeight,
			MaterialCost:    jc.MaterialCost,
			LineItems:       []models.LineItem{jc.LaserLine, jc.MaterialLine},
		},
	}
	if withParts {
		for _, p := range costing.PriceParts(doc.Parts(), in, rate) {
			out.Parts = append(out.Parts, PartData{PartCostDetail: p, TotalCost: p.TotalCost()})
		}
	}

	log.Debug().
		Str("file", path).
		Str("material", in.MaterialCode).
		Int("parts", len(out.Parts)).
		Msg("Nest file parsed")

	return writeJSON(out, outputPath, log)
}
