package engine

import (
	"sort"

	"github.com/samber/lo"

	"amdashboard/internal/models"
	"amdashboard/internal/normalize"
)

// ProcessShares sums installed equipment per canonical process.
func ProcessShares(rows []models.EquipmentRecord, limit int) []models.TopItem {
	shares := lo.FilterMap(rows, func(e models.EquipmentRecord, _ int) (models.Share, bool) {
		p := normalize.CanonicalProcess(e.Technology)
		return models.Share{Category: string(p), Value: models.ToNumber(e.Count)}, p != ""
	})
	return TopN(shares, limit)
}

// MaterialShares sums installed equipment per canonical material.
func MaterialShares(rows []models.EquipmentRecord, limit int) []models.TopItem {
	shares := lo.FilterMap(rows, func(e models.EquipmentRecord, _ int) (models.Share, bool) {
		m := normalize.CanonicalMaterial(e.Material)
		return models.Share{Category: string(m), Value: models.ToNumber(e.Count)}, m != ""
	})
	return TopN(shares, limit)
}

// CompanyMap aggregates companies per country with their equipment counts.
func CompanyMap(rows []models.Company) []models.CountryStat {
	return AggregateByCountry(rows,
		func(c models.Company) string { return c.Country },
		func(c models.Company) float64 { return models.ToNumber(c.EquipmentCount) },
	)
}

// VendorReport is a legacy vendor dataset with its labels canonicalized.
type VendorReport struct {
	Report    string             `json:"report"`
	Rows      []models.VendorRow `json:"rows"`
	Total     int                `json:"total"`
	Processes []string           `json:"processes"`
	Materials []string           `json:"materials"`
	Countries []string           `json:"countries"`
	ByProcess []models.TopItem   `json:"byProcess"`
}

// NormalizeVendorRows returns copies of rows with country, process and
// material replaced by their canonical forms. Blank labels stay blank.
func NormalizeVendorRows(rows []models.VendorRow) []models.VendorRow {
	return lo.Map(rows, func(v models.VendorRow, _ int) models.VendorRow {
		v.Country = normalize.Country(v.Country)
		v.Process = string(normalize.CanonicalProcess(v.Process))
		v.Material = string(normalize.CanonicalMaterial(v.Material))
		return v
	})
}

func BuildVendorReport(name string, rows []models.VendorRow, f models.FilterState) *VendorReport {
	normalized := NormalizeVendorRows(FilterVendorRows(rows, f))

	countries := lo.Uniq(lo.FilterMap(normalized, func(v models.VendorRow, _ int) (string, bool) {
		return v.Country, v.Country != ""
	}))
	sort.Strings(countries)

	return &VendorReport{
		Report:    name,
		Rows:      normalized,
		Total:     len(normalized),
		Processes: normalize.SortProcesses(lo.FilterMap(normalized, func(v models.VendorRow, _ int) (string, bool) { return v.Process, v.Process != "" })),
		Materials: normalize.SortMaterials(lo.FilterMap(normalized, func(v models.VendorRow, _ int) (string, bool) { return v.Material, v.Material != "" })),
		Countries: countries,
		ByProcess: TopN(lo.Map(normalized, func(v models.VendorRow, _ int) models.Share {
			return models.Share{Category: v.Process, Value: models.ToNumber(v.Value)}
		}), 0),
	}
}
