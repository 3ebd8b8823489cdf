package normalize

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalProcess(t *testing.T) {
	cases := map[string]Process{
		"SLM":                          ProcessPBFLBMetal,
		"DMLS":                         ProcessPBFLBMetal,
		"Direct Metal Laser Sintering": ProcessPBFLBMetal,
		"DMLM":                         ProcessPBFLBMetal,
		"LPBF":                         ProcessPBFLBMetal,
		"Powder Bed Fusion":            ProcessPBFLBMetal,
		"PBF-LB/M":                     ProcessPBFLBMetal,
		"PBF-LB/P":                     ProcessPBFLBPolymer,
		"SLS":                          ProcessPBFLBPolymer,
		"HP Multi Jet Fusion":          ProcessPBFLBPolymer,
		"EBM":                          ProcessPBFEB,
		"Binder Jetting":               ProcessBinderJetting,
		"metal binder jet (pbf-like)":  ProcessBinderJetting,
		"FDM":                          ProcessMaterialExtrusion,
		"fused filament fabrication":   ProcessMaterialExtrusion,
		"SLA":                          ProcessVatPhoto,
		"DLP printer":                  ProcessVatPhoto,
		"PolyJet":                      ProcessMaterialJetting,
		"WAAM":                         ProcessDED,
		"Sciaky EBAM":                  ProcessDED,
		"Electron Beam Melting":        ProcessPBFEB,
		"Directed Energy Deposition":   ProcessDED,
		"Ultrasonic consolidation":     ProcessSheetLamination,
		"4D knitting":                  ProcessUnknown,
		"innovative elevated system":   ProcessUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalProcess(in), "input %q", in)
	}
}

func TestCanonicalProcessSpelledOutLabels(t *testing.T) {
	assert.Equal(t, ProcessPBFLBMetal, CanonicalProcess("Direct Metal Laser Sintering"))
	assert.Equal(t, ProcessPBFLBMetal, CanonicalProcess("DMLS (Direct Metal Laser Sintering)"))
	assert.Equal(t, ProcessPBFLBPolymer, CanonicalProcess("Selective Laser Sintering"))
	assert.Equal(t, ProcessDED, CanonicalProcess("Electron Beam Additive Manufacturing (EBAM)"))
	assert.Equal(t, ProcessPBFEB, CanonicalProcess("Electron Beam Powder Bed Fusion"))
}

func TestCanonicalProcessBlank(t *testing.T) {
	assert.Equal(t, Process(""), CanonicalProcess(""))
	assert.Equal(t, Process(""), CanonicalProcess("  "))
}

func TestCanonicalProcessClosedAndIdempotent(t *testing.T) {
	inputs := []string{"SLM", "fdm", "???", "binder", "dlp", "Sheet Lamination", "EBM", "x"}
	for _, p := range Processes {
		inputs = append(inputs, string(p))
	}
	for _, in := range inputs {
		got := CanonicalProcess(in)
		require.Contains(t, Processes, got, "input %q", in)
		assert.Equal(t, got, CanonicalProcess(string(got)), "input %q", in)
	}
}

func TestProcessRulesIndividually(t *testing.T) {
	samples := map[string]string{
		"binder jetting":             "bjt",
		"electron beam deposition":   "ebam",
		"electron beam":              "electron beam melting",
		"pbf polymer":                "pbf nylon",
		"pbf":                        "powder bed",
		"legacy metal laser":         "direct metal laser sintering",
		"legacy polymer laser":       "laser sintering",
		"material extrusion":         "pellet extrusion",
		"vat photopolymerization":    "stereolithography",
		"material jetting":           "inkjet",
		"directed energy deposition": "cold spray",
		"sheet lamination":           "lom",
	}
	require.Len(t, processRules, len(samples))
	for _, r := range processRules {
		sample, ok := samples[r.name]
		require.True(t, ok, "no sample for rule %q", r.name)
		assert.True(t, r.match(newLabel(sample)), "rule %q should match %q", r.name, sample)
		assert.Equal(t, r.result, CanonicalProcess(sample))
	}
}

func TestCanonicalMaterial(t *testing.T) {
	cases := map[string]Material{
		"Ti-6Al-4V":          MaterialTitanium,
		"AlSi10Mg":           MaterialAluminum,
		"316L stainless":     MaterialSteel,
		"17-4 PH":            MaterialSteel,
		"Inconel 718":        MaterialNickel,
		"CoCr":               MaterialCobaltChrome,
		"CuCrZr":             MaterialCopper,
		"18k gold":           MaterialPrecious,
		"Tungsten":           MaterialMetalOther,
		"PA12":               MaterialPolymer,
		"PA12-CF":            MaterialComposite,
		"Carbon fiber nylon": MaterialComposite,
		"Standard resin":     MaterialPhotopolymer,
		"Alumina":            MaterialCeramic,
		"Silica sand":        MaterialSand,
		"Castable wax":       MaterialWax,
		"PLA":                MaterialPolymer,
		"Chocolate":          MaterialOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalMaterial(in), "input %q", in)
	}
	assert.Equal(t, Material(""), CanonicalMaterial(" "))
}

func TestCanonicalMaterialClosedAndIdempotent(t *testing.T) {
	for _, m := range Materials {
		got := CanonicalMaterial(string(m))
		assert.Equal(t, m, got)
		assert.True(t, lo.Contains(Materials, CanonicalMaterial(string(m)+" powder")))
	}
}

func TestSortProcesses(t *testing.T) {
	in := []string{"Zeta", "Material Extrusion", "PBF-LB (Metal)", "Alpha", "Material Extrusion", "Unknown", "Binder Jetting"}
	assert.Equal(t,
		[]string{"PBF-LB (Metal)", "Binder Jetting", "Material Extrusion", "Unknown", "Alpha", "Zeta"},
		SortProcesses(in))
	assert.Empty(t, SortProcesses(nil))
}

func TestSortMaterials(t *testing.T) {
	in := []string{"Wax", "Polymer", "Titanium", "Polymer", "Beeswax"}
	assert.Equal(t, []string{"Titanium", "Polymer", "Wax", "Beeswax"}, SortMaterials(in))
}
