package domain

import (
	"strconv"
	"strings"
)

// sampleValues are typical values for well-known KOI features
var sampleValues = map[string]float64{
	"koi_period":        10.5,
	"koi_time0bk":       134.1,
	"koi_impact":        0.5,
	"koi_duration":      2.5,
	"koi_depth":         100,
	"koi_prad":          2.0,
	"koi_teq":           500,
	"koi_insol":         1.0,
	"koi_model_snr":     10,
	"koi_steff":         5500,
	"koi_slogg":         4.5,
	"koi_srad":          1.0,
	"koi_tce_plnt_num":  1,
	"koi_tce_delivname": 1,
	"koi_score":         0.9,
	"ra":                290.0,
	"dec":               45.0,
}

// SampleRule assigns Value to any feature whose name contains one of Substrings
type SampleRule struct {
	Substrings []string
	Value      float64
}

func (r SampleRule) Matches(name string) bool {
	for _, substring := range r.Substrings {
		if strings.Contains(name, substring) {
			return true
		}
	}
	return false
}

// SampleRules are evaluated in order; the first match wins.
var SampleRules = []SampleRule{
	{Substrings: []string{"period"}, Value: 10.0},
	{Substrings: []string{"temp", "teq"}, Value: 500},
	{Substrings: []string{"radius", "rad"}, Value: 1.0},
	{Substrings: []string{"mass"}, Value: 1.0},
	{Substrings: []string{"impact"}, Value: 0.5},
	{Substrings: []string{"duration"}, Value: 2.5},
	{Substrings: []string{"depth"}, Value: 100},
	{Substrings: []string{"snr"}, Value: 10},
	{Substrings: []string{"steff"}, Value: 5500},
	{Substrings: []string{"logg", "slogg"}, Value: 4.5},
	{Substrings: []string{"insol"}, Value: 1.0},
	{Substrings: []string{"time"}, Value: 134.1},
	{Substrings: []string{"score"}, Value: 0.9},
	{Substrings: []string{"ra"}, Value: 290.0},
	{Substrings: []string{"dec"}, Value: 45.0},
}

const SampleFallbackValue = 1.0

// SampleValue returns the default for a single feature name
func SampleValue(name string) float64 {
	if value, ok := sampleValues[name]; ok {
		return value
	}

	for _, rule := range SampleRules {
		if rule.Matches(name) {
			return rule.Value
		}
	}

	return SampleFallbackValue
}

// FillSampleDefaults assigns a numeric default to every catalog feature
func FillSampleDefaults(catalog FeatureCatalog) map[string]string {
	values := make(map[string]string, catalog.Len())
	for _, name := range catalog.names {
		values[name] = strconv.FormatFloat(SampleValue(name), 'f', -1, 64)
	}
	return values
}
