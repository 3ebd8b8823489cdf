// Package export turns row collections into downloadable CSV and XLSX files.
package export

import (
	"amdashboard/internal/models"
	"amdashboard/internal/normalize"
)

// ColumnDef describes how one field of a row becomes one exported column.
// Map, when set, replaces the plain lookup of Key.
type ColumnDef struct {
	Key    string
	Header string
	Map    func(models.ExportRow) any
}

func (c ColumnDef) value(row models.ExportRow) any {
	if c.Map != nil {
		return c.Map(row)
	}
	return row[c.Key]
}

func col(key, header string) ColumnDef {
	return ColumnDef{Key: key, Header: header}
}

func processOf(row models.ExportRow) any {
	s, _ := row["process"].(string)
	if s == "" {
		s, _ = row["technology"].(string)
	}
	if p := normalize.CanonicalProcess(s); p != "" {
		return string(p)
	}
	return nil
}

func materialOf(row models.ExportRow) any {
	s, _ := row["material"].(string)
	if m := normalize.CanonicalMaterial(s); m != "" {
		return string(m)
	}
	return nil
}

func countryOf(row models.ExportRow) any {
	s, _ := row["country"].(string)
	if c := normalize.Country(s); c != "" {
		return c
	}
	return nil
}

var columnSets = map[models.Kind][]ColumnDef{
	models.KindCompany: {
		col("id", "ID"),
		col("name", "Company"),
		col("company_type", "Type"),
		col("city", "City"),
		col("state", "State"),
		{Key: "country", Header: "Country", Map: countryOf},
		col("size_range", "Size"),
		col("technologies", "Technologies"),
		col("materials", "Materials"),
		col("equipment_count", "Equipment"),
		col("website", "Website"),
		col("created_at", "Added"),
	},
	models.KindEquipment: {
		col("id", "ID"),
		col("company_name", "Company"),
		{Key: "country", Header: "Country", Map: countryOf},
		col("manufacturer", "Manufacturer"),
		col("model", "Model"),
		col("technology", "Technology"),
		{Key: "process", Header: "Process", Map: processOf},
		{Key: "material", Header: "Material", Map: materialOf},
		col("count", "Count"),
		col("year", "Year"),
	},
	models.KindMarket: {
		col("year", "Year"),
		col("segment", "Segment"),
		{Key: "country", Header: "Country", Map: countryOf},
		col("value", "Value"),
		col("unit", "Unit"),
	},
	models.KindVendor: {
		col("vendor", "Vendor"),
		{Key: "country", Header: "Country", Map: countryOf},
		{Key: "process", Header: "Process", Map: processOf},
		{Key: "material", Header: "Material", Map: materialOf},
		col("category", "Category"),
		col("year", "Year"),
		col("value", "Value"),
	},
}

// Columns returns the default column set of a dataset kind.
func Columns(kind models.Kind) []ColumnDef {
	return columnSets[kind]
}
