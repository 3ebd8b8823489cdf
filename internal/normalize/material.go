package normalize

// Material is a canonical AM material category.
type Material string

const (
	MaterialTitanium     Material = "Titanium"
	MaterialAluminum     Material = "Aluminum"
	MaterialSteel        Material = "Steel"
	MaterialNickel       Material = "Nickel Alloys"
	MaterialCobaltChrome Material = "Cobalt Chrome"
	MaterialCopper       Material = "Copper"
	MaterialPrecious     Material = "Precious Metals"
	MaterialMetalOther   Material = "Metal (Other)"
	MaterialComposite    Material = "Composite"
	MaterialPhotopolymer Material = "Photopolymer Resin"
	MaterialPolymer      Material = "Polymer"
	MaterialCeramic      Material = "Ceramic"
	MaterialSand         Material = "Sand"
	MaterialWax          Material = "Wax"
	MaterialOther        Material = "Other"
)

// Materials lists the closed enumeration in display order.
var Materials = []Material{
	MaterialTitanium,
	MaterialAluminum,
	MaterialSteel,
	MaterialNickel,
	MaterialCobaltChrome,
	MaterialCopper,
	MaterialPrecious,
	MaterialMetalOther,
	MaterialPolymer,
	MaterialPhotopolymer,
	MaterialComposite,
	MaterialCeramic,
	MaterialSand,
	MaterialWax,
	MaterialOther,
}

var materialRules = []rule[Material]{
	{"composite", anyOf(contains("composite", "carbon fiber", "carbon fibre", "glass fiber", "glass fibre", "kevlar", "fiber reinforced", "cf-"), token("cf", "gf", "cfrp")), MaterialComposite},
	{"photopolymer", anyOf(contains("resin", "photopolymer", "acrylate"), token("uv")), MaterialPhotopolymer},
	{"titanium", anyOf(contains("titanium", "ti64", "ti-6al", "ti6al"), token("ti", "cpti")), MaterialTitanium},
	{"aluminum", anyOf(contains("aluminum", "aluminium", "alsi10mg", "alsi", "scalmalloy"), token("al", "al6061", "al7075")), MaterialAluminum},
	{"nickel", anyOf(contains("inconel", "nickel", "hastelloy", "in718", "in625", "haynes"), token("ni", "in718", "in625")), MaterialNickel},
	{"cobalt chrome", anyOf(contains("cobalt", "cocr", "co-cr", "stellite"), token("cocrmo")), MaterialCobaltChrome},
	{"copper", anyOf(contains("copper", "cucrzr", "bronze", "brass"), token("cu")), MaterialCopper},
	{"precious", contains("precious", "gold", "silver", "platinum", "palladium"), MaterialPrecious},
	{"steel", anyOf(contains("steel", "316l", "17-4", "15-5", "maraging", "h13", "tool steel"), token("ss", "ms1", "304l")), MaterialSteel},
	{"metal", anyOf(contains("metal", "alloy", "tungsten", "tantalum", "molybdenum", "magnesium"), token("w")), MaterialMetalOther},
	{"ceramic", anyOf(contains("ceramic", "alumina", "zirconia", "silicon carbide", "silicon nitride", "porcelain"), token("sic", "zro2", "al2o3")), MaterialCeramic},
	{"sand", contains("sand", "foundry"), MaterialSand},
	{"wax", contains("wax", "castable"), MaterialWax},
	{"polymer", anyOf(
		contains("polymer", "plastic", "nylon", "polyamide", "polypropylene", "polycarbonate", "thermoplastic", "filament", "elastomer", "ultem", "peek", "pekk"),
		token("pa", "pa6", "pa11", "pa12", "pla", "abs", "petg", "pet", "tpu", "pp", "pc", "pei", "asa", "hips"),
	), MaterialPolymer},
}

// CanonicalMaterial maps a free-text material label to its canonical
// category. Blank input yields ""; anything else yields a member of Materials.
func CanonicalMaterial(input string) Material {
	if newLabel(input).text == "" {
		return ""
	}
	return classify(materialRules, input, MaterialOther)
}

// SortMaterials dedupes values and orders them canonically.
func SortMaterials(values []string) []string {
	order := make([]string, len(Materials))
	for i, m := range Materials {
		order[i] = string(m)
	}
	return sortCanonical(values, order)
}
