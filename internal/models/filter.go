package models

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// FilterState is the set of dashboard filters a user has applied. An empty
// dimension means no restriction on it.
type FilterState struct {
	Technologies []string `json:"technologies,omitempty"`
	Materials    []string `json:"materials,omitempty"`
	Processes    []string `json:"processes,omitempty"`
	SizeRanges   []string `json:"sizeRanges,omitempty"`
	Countries    []string `json:"countries,omitempty"`
	States       []string `json:"states,omitempty"`
}

// FilterDimension names one FilterState field as it appears in query
// parameters and in export filenames.
type FilterDimension struct {
	Param string
	Label string
	get   func(FilterState) []string
}

var FilterDimensions = []FilterDimension{
	{Param: "technologies", Label: "tech", get: func(f FilterState) []string { return f.Technologies }},
	{Param: "materials", Label: "mat", get: func(f FilterState) []string { return f.Materials }},
	{Param: "processes", Label: "proc", get: func(f FilterState) []string { return f.Processes }},
	{Param: "sizes", Label: "size", get: func(f FilterState) []string { return f.SizeRanges }},
	{Param: "countries", Label: "ctry", get: func(f FilterState) []string { return f.Countries }},
	{Param: "states", Label: "state", get: func(f FilterState) []string { return f.States }},
}

func (d FilterDimension) Values(f FilterState) []string { return d.get(f) }

func (f FilterState) IsEmpty() bool {
	for _, d := range FilterDimensions {
		if len(d.get(f)) > 0 {
			return false
		}
	}
	return true
}

// ParseFilterState reads each dimension either as repeated parameters or as a
// comma separated list. Blank entries are dropped and duplicates removed.
func ParseFilterState(params url.Values) FilterState {
	read := func(key string) []string {
		var out []string
		for _, raw := range params[key] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" && !strings.EqualFold(part, "all") {
					out = append(out, part)
				}
			}
		}
		return lo.Uniq(out)
	}

	return FilterState{
		Technologies: read("technologies"),
		Materials:    read("materials"),
		Processes:    read("processes"),
		SizeRanges:   read("sizes"),
		Countries:    read("countries"),
		States:       read("states"),
	}
}
