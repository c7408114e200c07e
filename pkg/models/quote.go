package models

// CostInput is the job-level record read from one nesting export file.
// Every numeric field is zero when the file omits it or carries an unparsable value.
type CostInput struct {
	MaterialCode string // StockID

	Thickness     float64 // Sheet thickness (in)
	FeedRate      float64 // Cutting feed rate (in/min)
	PierceRateSec float64 // Seconds per pierce
	SheetLength   float64 // SheetX (in)
	SheetWidth    float64 // SheetY (in)

	PierceCount   int     // Total pierces across the nest
	CutDistance   float64 // Total cut distance (in)
	SheetQuantity int     // NestQty, number of sheets in the run

	MaterialCostPerWeight float64 // $/lb
	Density               float64 // lb/in³

	// ProcessTimeMinutes is the exporter's total cut+pierce time for the whole
	// run. Zero means absent.
	ProcessTimeMinutes float64
}

// PartCostDetail is one part row of the part-level breakdown.
// LaserCost and MaterialCost are filled in by the cost calculator, never by the parser.
type PartCostDetail struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	CutDistance float64 `json:"cut_distance"`
	CutArea     float64 `json:"cut_area"`

	LaserCost    float64 `json:"laser_cost"`
	MaterialCost float64 `json:"material_cost"`
}

// TotalCost returns laser plus material cost.
func (p PartCostDetail) TotalCost() float64 {
	return p.LaserCost + p.MaterialCost
}

// LineItem is one billable row of a quote.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`

	// ChargeKey is set only on lines synthesized from an extra charge and
	// holds the charge's stable key.
	ChargeKey string `json:"charge_key,omitempty"`
}

// Total returns Quantity * UnitPrice. No rounding happens here.
func (li LineItem) Total() float64 {
	return float64(li.Quantity) * li.UnitPrice
}

// ExtraChargeConfig is an optional flat fee configured by the user.
type ExtraChargeConfig struct {
	Key     string  `yaml:"key" json:"key" validate:"required"`    // stable id, e.g. "setup_handling"
	Name    string  `yaml:"name" json:"name" validate:"required"`  // display text, e.g. "Setup / Handling"
	Amount  float64 `yaml:"amount" json:"amount" validate:"gte=0"` // flat $ per quote
	Enabled bool    `yaml:"enabled" json:"enabled"`                // include on quotes
}

// Customer is an entry of the customer directory.
type Customer struct {
	ID          string `yaml:"id" json:"id"`
	CompanyName string `yaml:"company_name" json:"company_name" validate:"required"`
	Address     string `yaml:"address" json:"address"`
	Email       string `yaml:"email" json:"email" validate:"omitempty,email"`

	DefaultTaxRate         float64 `yaml:"default_tax_rate" json:"default_tax_rate" validate:"gte=0,lte=100"`                 // e.g. 7.5
	DefaultDiscountPercent float64 `yaml:"default_discount_percent" json:"default_discount_percent" validate:"gte=0,lte=100"` // e.g. 10
}
