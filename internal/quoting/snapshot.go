package quoting

import (
	"time"

	"nestquote/internal/ledger"
	"nestquote/pkg/models"
)

// Company is the issuer block printed on an exported quote.
type Company struct {
	Name               string `json:"name,omitempty"`
	Address            string `json:"address,omitempty"`
	Email              string `json:"email,omitempty"`
	LogoPath           string `json:"logo_path,omitempty"`
	TermsAndConditions string `json:"terms_and_conditions,omitempty"`
}

// Snapshot is a detached, read-only view of a quote for rendering.
type Snapshot struct {
	Number          string                  `json:"quote_number"`
	Date            time.Time               `json:"date"`
	CustomerName    string                  `json:"customer_name,omitempty"`
	TaxRate         float64                 `json:"tax_rate"`
	DiscountPercent float64                 `json:"discount_percent"`
	LineItems       []models.LineItem       `json:"line_items"`
	PartDetails     []models.PartCostDetail `json:"part_details"`
	Totals          ledger.Totals           `json:"totals"`
	Company         Company                 `json:"company"`
	Revision        uint64                  `json:"revision"`
}

// Snapshot captures the current quote.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.quote
	items := q.LineItems()
	if items == nil {
		items = []models.LineItem{}
	}
	parts := q.PartDetails()
	if parts == nil {
		parts = []models.PartCostDetail{}
	}

	return Snapshot{
		Number:          q.Number(),
		Date:            q.Date(),
		CustomerName:    q.CustomerName(),
		TaxRate:         q.TaxRate(),
		DiscountPercent: q.DiscountPercent(),
		LineItems:       items,
		PartDetails:     parts,
		Totals:          q.Totals(),
		Company: Company{
			Name:               s.settings.CompanyName,
			Address:            s.settings.CompanyAddress,
			Email:              s.settings.ContactEmail,
			LogoPath:           s.settings.LogoPath,
			TermsAndConditions: s.settings.TermsAndConditions,
		},
		Revision: q.Revision(),
	}
}
