package engine

import (
	"sort"

	"amdashboard/internal/models"
)

// Store holds the static JSON datasets in memory, one slice per row kind.
type Store struct {
	Companies []models.Company
	Equipment []models.EquipmentRecord
	Market    []models.MarketFigure

	// Vendor reports keyed by report name
	Vendors map[string][]models.VendorRow
}

func (s *Store) Reports() []string {
	names := make([]string, 0, len(s.Vendors))
	for name := range s.Vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
