// File path: internal/cvr/features.go
package cvr

import (
	"fmt"
	"strconv"
)

// FeatureColumn binds a feature name to the accessor that computes it. The
// full feature schema is an ordered table of columns applied uniformly to
// every company, so extracts stay comparable across runs.
type FeatureColumn struct {
	Name  string
	Value func(v *Virksomhed) interface{}
}

var featureColumns = []FeatureColumn{
	{Name: "cvr_nummer", Value: func(v *Virksomhed) interface{} { return v.CVRNumber() }},
	{Name: "antal_penheder", Value: func(v *Virksomhed) interface{} { return v.ProductionUnitCount() }},
	{Name: "branche_ansvarskode", Value: func(v *Virksomhed) interface{} { return v.IndustryResponsibilityCode() }},
	{Name: "nyeste_antal_ansatte", Value: func(v *Virksomhed) interface{} { return v.EmployeeCount() }},
	{Name: "nyeste_virksomhedsform", Value: func(v *Virksomhed) interface{} { return v.CompanyForm() }},
	{Name: "reklamebeskyttet", Value: func(v *Virksomhed) interface{} { return v.AdvertisingProtected() }},
	{Name: "sammensat_status", Value: func(v *Virksomhed) interface{} { return v.CompositeStatus() }},
	{Name: "nyeste_hovedbranche_branchekode", Value: func(v *Virksomhed) interface{} { return v.IndustryCode() }},
	{Name: "nyeste_hovedbranche_branchetekst", Value: func(v *Virksomhed) interface{} { return v.IndustryText() }},
	{Name: "nyeste_statuskode", Value: func(v *Virksomhed) interface{} { return v.StatusCode() }},
	{Name: "stiftelsesaar", Value: func(v *Virksomhed) interface{} { return v.FoundedYear() }},
}

// FeatureColumns returns the feature schema in output order.
func FeatureColumns() []FeatureColumn {
	return featureColumns
}

// FeatureHeader returns the feature names in output order.
func FeatureHeader() []string {
	header := make([]string, len(featureColumns))
	for i, column := range featureColumns {
		header[i] = column.Name
	}
	return header
}

// FeatureRow projects one company through the feature schema, rendering
// every value as a string for flat-file output.
func FeatureRow(v *Virksomhed) []string {
	row := make([]string, len(featureColumns))
	for i, column := range featureColumns {
		row[i] = formatFeature(column.Value(v))
	}
	return row
}

// Features projects one company into a flat name/value mapping.
func Features(v *Virksomhed) map[string]interface{} {
	features := make(map[string]interface{}, len(featureColumns))
	for _, column := range featureColumns {
		features[column.Name] = column.Value(v)
	}
	return features
}

func formatFeature(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
