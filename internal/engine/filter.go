package engine

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"amdashboard/internal/models"
	"amdashboard/internal/normalize"
)

// matchAny reports whether any candidate equals any wanted value, ignoring
// case. An empty wanted set matches everything.
func matchAny(wanted []string, candidates ...string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, c := range candidates {
			if strings.EqualFold(strings.TrimSpace(c), w) {
				return true
			}
		}
	}
	return false
}

func matchCountry(wanted []string, country string) bool {
	if len(wanted) == 0 {
		return true
	}
	return lo.SomeBy(wanted, func(w string) bool { return normalize.SameCountry(w, country) })
}

func processesOf(labels ...string) []string {
	return lo.FilterMap(labels, func(l string, _ int) (string, bool) {
		p := normalize.CanonicalProcess(l)
		return string(p), p != ""
	})
}

func materialsOf(labels ...string) []string {
	return lo.FilterMap(labels, func(l string, _ int) (string, bool) {
		m := normalize.CanonicalMaterial(l)
		return string(m), m != ""
	})
}

// FilterCompanies applies a FilterState. Technologies and materials match the
// raw labels or their canonical category.
func FilterCompanies(rows []models.Company, f models.FilterState) []models.Company {
	if f.IsEmpty() {
		return rows
	}
	return lo.Filter(rows, func(c models.Company, _ int) bool {
		return matchAny(f.Technologies, c.Technologies...) &&
			matchAny(f.Materials, append(slices.Clone(c.Materials), materialsOf(c.Materials...)...)...) &&
			matchAny(f.Processes, processesOf(c.Technologies...)...) &&
			matchAny(f.SizeRanges, c.SizeRange) &&
			matchCountry(f.Countries, c.Country) &&
			matchAny(f.States, c.State)
	})
}

// FilterEquipment applies a FilterState. Dimensions an equipment record does
// not carry (size range, state) are ignored rather than matching nothing.
func FilterEquipment(rows []models.EquipmentRecord, f models.FilterState) []models.EquipmentRecord {
	if f.IsEmpty() {
		return rows
	}
	return lo.Filter(rows, func(e models.EquipmentRecord, _ int) bool {
		return matchAny(f.Technologies, e.Technology) &&
			matchAny(f.Materials, e.Material, string(normalize.CanonicalMaterial(e.Material))) &&
			matchAny(f.Processes, processesOf(e.Technology)...) &&
			matchCountry(f.Countries, e.Country)
	})
}

func FilterVendorRows(rows []models.VendorRow, f models.FilterState) []models.VendorRow {
	if f.IsEmpty() {
		return rows
	}
	return lo.Filter(rows, func(v models.VendorRow, _ int) bool {
		return matchAny(f.Technologies, v.Process) &&
			matchAny(f.Materials, v.Material, string(normalize.CanonicalMaterial(v.Material))) &&
			matchAny(f.Processes, processesOf(v.Process)...) &&
			matchCountry(f.Countries, v.Country)
	})
}

func FilterMarketFigures(rows []models.MarketFigure, f models.FilterState) []models.MarketFigure {
	if f.IsEmpty() {
		return rows
	}
	return lo.Filter(rows, func(m models.MarketFigure, _ int) bool {
		return matchCountry(f.Countries, m.Country)
	})
}
