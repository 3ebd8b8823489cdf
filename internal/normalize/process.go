package normalize

// Process is a canonical AM process category.
type Process string

const (
	ProcessPBFLBMetal        Process = "PBF-LB (Metal)"
	ProcessPBFLBPolymer      Process = "PBF-LB (Polymer)"
	ProcessPBFEB             Process = "PBF-EB (Metal)"
	ProcessBinderJetting     Process = "Binder Jetting"
	ProcessDED               Process = "Directed Energy Deposition"
	ProcessMaterialExtrusion Process = "Material Extrusion"
	ProcessVatPhoto          Process = "Vat Photopolymerization"
	ProcessMaterialJetting   Process = "Material Jetting"
	ProcessSheetLamination   Process = "Sheet Lamination"
	ProcessUnknown           Process = "Unknown"
)

// Processes lists the closed enumeration in display order.
var Processes = []Process{
	ProcessPBFLBMetal,
	ProcessPBFLBPolymer,
	ProcessPBFEB,
	ProcessBinderJetting,
	ProcessDED,
	ProcessMaterialExtrusion,
	ProcessVatPhoto,
	ProcessMaterialJetting,
	ProcessSheetLamination,
	ProcessUnknown,
}

var polymerHint = anyOf(
	contains("polymer", "plastic", "nylon", "polyamide"),
	token("p", "pa", "pa12", "pa11", "tpu"),
)

// processRules are evaluated top to bottom; the first match wins.
var processRules = []rule[Process]{
	{"binder jetting", anyOf(contains("binder"), token("bjt", "bj")), ProcessBinderJetting},
	{"electron beam deposition", anyOf(token("ebam"), contains("electron beam additive", "electron beam deposition", "electron beam wire")), ProcessDED},
	{"electron beam", anyOf(contains("electron beam", "pbf-eb", "pbf eb"), token("ebm", "eb")), ProcessPBFEB},
	{"pbf polymer", allOf(anyOf(contains("pbf", "powder bed"), token("lpbf")), polymerHint), ProcessPBFLBPolymer},
	{"pbf", anyOf(contains("pbf", "powder bed"), token("lpbf")), ProcessPBFLBMetal},
	{"legacy metal laser", anyOf(token("slm", "dmls", "dmlm", "lmf", "lbm"), contains("laser melting", "laser metal fusion", "metal laser sintering", "direct metal laser")), ProcessPBFLBMetal},
	{"legacy polymer laser", anyOf(token("sls", "mjf", "hss"), contains("laser sintering", "jet fusion", "high speed sintering")), ProcessPBFLBPolymer},
	{"material extrusion", anyOf(token("fdm", "fff", "fgf", "bmd", "mex"), contains("extrusion", "fused deposition", "fused filament", "pellet")), ProcessMaterialExtrusion},
	{"vat photopolymerization", anyOf(token("sla", "dlp", "msla", "cdlp", "lcd", "clip", "vppm", "vat"), contains("vat photo", "vat poly", "stereolithography", "photopolymeriz")), ProcessVatPhoto},
	{"material jetting", anyOf(token("mjp", "mj", "npj", "dod"), contains("material jetting", "polyjet", "multijet", "inkjet", "drop on demand", "nanoparticle jetting")), ProcessMaterialJetting},
	{"directed energy deposition", anyOf(token("ded", "waam", "lmd", "lens", "ebam"), contains("directed energy", "wire arc", "metal deposition", "cold spray")), ProcessDED},
	{"sheet lamination", anyOf(token("lom", "uam", "shl"), contains("lamination", "ultrasonic")), ProcessSheetLamination},
}

// CanonicalProcess maps a free-text process label to its canonical category.
// Blank input yields ""; anything else yields a member of Processes.
func CanonicalProcess(input string) Process {
	if newLabel(input).text == "" {
		return ""
	}
	return classify(processRules, input, ProcessUnknown)
}

// SortProcesses dedupes values and orders them canonically.
func SortProcesses(values []string) []string {
	order := make([]string, len(Processes))
	for i, p := range Processes {
		order[i] = string(p)
	}
	return sortCanonical(values, order)
}
