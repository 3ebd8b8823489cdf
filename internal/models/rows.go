package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Kind tags the dataset a row belongs to.
type Kind string

const (
	KindCompany   Kind = "company"
	KindEquipment Kind = "equipment"
	KindMarket    Kind = "market"
	KindVendor    Kind = "vendor"
)

// ExportRow is the common shape handed to the export pipeline.
type ExportRow map[string]any

// Exportable is implemented by every row variant.
type Exportable interface {
	Kind() Kind
	ExportRow() ExportRow
}

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type %T for string list", src)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type Company struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Country        string     `json:"country"`
	CompanyType    string     `json:"company_type"`
	Description    string     `json:"description"`
	Website        string     `json:"website"`
	SizeRange      string     `json:"size_range"`
	Technologies   StringList `json:"technologies" gorm:"type:text"`
	Materials      StringList `json:"materials" gorm:"type:text"`
	EquipmentCount Number     `json:"equipment_count"`
	Latitude       Number     `json:"latitude"`
	Longitude      Number     `json:"longitude"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (Company) TableName() string { return "companies" }

func (Company) Kind() Kind { return KindCompany }

func (c Company) ExportRow() ExportRow {
	return ExportRow{
		"id":              c.ID,
		"name":            c.Name,
		"city":            c.City,
		"state":           c.State,
		"country":         c.Country,
		"company_type":    c.CompanyType,
		"description":     c.Description,
		"website":         c.Website,
		"size_range":      c.SizeRange,
		"technologies":    []string(c.Technologies),
		"materials":       []string(c.Materials),
		"equipment_count": c.EquipmentCount.Float(),
		"latitude":        c.Latitude.Float(),
		"longitude":       c.Longitude.Float(),
		"created_at":      c.CreatedAt,
	}
}

type EquipmentRecord struct {
	ID           string `json:"id" gorm:"primaryKey"`
	CompanyID    string `json:"company_id" gorm:"index"`
	CompanyName  string `json:"company_name"`
	Country      string `json:"country"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Technology   string `json:"technology"`
	Material     string `json:"material"`
	Count        Number `json:"count"`
	Year         int    `json:"year"`
}

func (EquipmentRecord) TableName() string { return "equipment" }

func (EquipmentRecord) Kind() Kind { return KindEquipment }

func (e EquipmentRecord) ExportRow() ExportRow {
	return ExportRow{
		"id":           e.ID,
		"company_id":   e.CompanyID,
		"company_name": e.CompanyName,
		"country":      e.Country,
		"manufacturer": e.Manufacturer,
		"model":        e.Model,
		"technology":   e.Technology,
		"material":     e.Material,
		"count":        e.Count.Float(),
		"year":         e.Year,
	}
}

type MarketFigure struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Year    int    `json:"year" gorm:"index"`
	Segment string `json:"segment"`
	Country string `json:"country"`
	Value   Number `json:"value"`
	Unit    string `json:"unit"`
}

func (MarketFigure) TableName() string { return "market_figures" }

func (MarketFigure) Kind() Kind { return KindMarket }

func (m MarketFigure) ExportRow() ExportRow {
	return ExportRow{
		"id":      m.ID,
		"year":    m.Year,
		"segment": m.Segment,
		"country": m.Country,
		"value":   m.Value.Float(),
		"unit":    m.Unit,
	}
}

// VendorRow is one line of a legacy vendor dataset report.
type VendorRow struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Report   string `json:"report" gorm:"index"`
	Vendor   string `json:"vendor"`
	Country  string `json:"country"`
	Process  string `json:"process"`
	Material string `json:"material"`
	Category string `json:"category"`
	Year     int    `json:"year"`
	Value    Number `json:"value"`
}

func (VendorRow) TableName() string { return "vendor_rows" }

func (VendorRow) Kind() Kind { return KindVendor }

func (v VendorRow) ExportRow() ExportRow {
	return ExportRow{
		"id":       v.ID,
		"report":   v.Report,
		"vendor":   v.Vendor,
		"country":  v.Country,
		"process":  v.Process,
		"material": v.Material,
		"category": v.Category,
		"year":     v.Year,
		"value":    v.Value.Float(),
	}
}

// ExportRows maps any row variant slice into the common export shape.
func ExportRows[R Exportable](rows []R) []ExportRow {
	out := make([]ExportRow, len(rows))
	for i, r := range rows {
		out[i] = r.ExportRow()
	}
	return out
}
