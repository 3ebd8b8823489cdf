package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amdashboard/internal/models"
)

func TestProcessShares(t *testing.T) {
	rows := []models.EquipmentRecord{
		{Technology: "SLM", Count: 5},
		{Technology: "DMLS", Count: 3},
		{Technology: "FDM", Count: 2},
		{Technology: "", Count: 100},
		{Technology: "mystery", Count: 0},
	}

	shares := ProcessShares(rows, 0)

	require.Len(t, shares, 3)
	assert.Equal(t, "PBF-LB (Metal)", shares[0].Name)
	assert.Equal(t, 8.0, shares[0].Value)
	assert.Equal(t, 80.0, shares[0].Percentage)
	assert.Equal(t, "Material Extrusion", shares[1].Name)
	assert.Equal(t, "Unknown", shares[2].Name)
	assert.Equal(t, 0.0, shares[2].Percentage)
}

func TestMaterialShares(t *testing.T) {
	rows := []models.EquipmentRecord{
		{Material: "Inconel 625", Count: 1},
		{Material: "Hastelloy X", Count: 1},
		{Material: "PA12", Count: 2},
	}
	shares := MaterialShares(rows, 1)
	require.Len(t, shares, 1)
	assert.Equal(t, 50.0, shares[0].Percentage)
}

func TestBuildVendorReport(t *testing.T) {
	rows := []models.VendorRow{
		{ID: "1", Vendor: "A", Country: "the netherlands", Process: "SLS", Material: "PA12", Value: 10},
		{ID: "2", Vendor: "B", Country: "USA", Process: "FDM", Material: "ABS", Value: 30},
		{ID: "3", Vendor: "C", Country: "", Process: "", Material: "", Value: 5},
	}

	report := BuildVendorReport("printers-2021", rows, models.FilterState{})

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, "Netherlands", report.Rows[0].Country)
	assert.Equal(t, "PBF-LB (Polymer)", report.Rows[0].Process)
	assert.Equal(t, "Polymer", report.Rows[0].Material)
	assert.Equal(t, "", report.Rows[2].Process)
	assert.Equal(t, []string{"PBF-LB (Polymer)", "Material Extrusion"}, report.Processes)
	assert.Equal(t, []string{"Polymer"}, report.Materials)
	assert.Equal(t, []string{"Netherlands", "United States"}, report.Countries)
	require.Len(t, report.ByProcess, 2)
	assert.Equal(t, "Material Extrusion", report.ByProcess[0].Name)
	assert.Equal(t, 75.0, report.ByProcess[0].Percentage)

	filtered := BuildVendorReport("printers-2021", rows, models.FilterState{Countries: []string{"Netherlands"}})
	assert.Equal(t, 1, filtered.Total)
}
