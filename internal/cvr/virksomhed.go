// File path: internal/cvr/virksomhed.go
package cvr

import (
	"fmt"
	"regexp"
	"strconv"
)

var firstNumber = regexp.MustCompile(`\d+`)

// Virksomhed is a read-only view over one company payload from a CVR dump.
// Every accessor performs a fixed navigation into the nested payload and
// resolves to a neutral default when a key along the path is missing or of
// an unexpected type; accessors never fail on absent data.
type Virksomhed struct {
	data map[string]interface{}
}

// NewVirksomhed wraps a decoded company payload. The payload is not copied
// and must not be mutated by the caller.
func NewVirksomhed(data map[string]interface{}) *Virksomhed {
	return &Virksomhed{data: data}
}

func (v *Virksomhed) String() string {
	return fmt.Sprintf("<Virksomhed(CVR=%d)>", v.CVRNumber())
}

// Payload returns the underlying company payload. It is shared, not copied;
// callers must treat it as read-only.
func (v *Virksomhed) Payload() map[string]interface{} {
	return v.data
}

// CVRNumber returns the company's registry number, 0 when absent.
func (v *Virksomhed) CVRNumber() int64 {
	return int64(digInt(v.data, "cvrNummer"))
}

// EmployeeCount returns the newest yearly employment figure. Interval codes
// such as "ANTAL_10_19" resolve to their first integer; plain numeric values
// are accepted as-is. Companies without employment data report 0.
func (v *Virksomhed) EmployeeCount() int {
	raw, ok := dig(v.data, "virksomhedMetadata", "nyesteAarsbeskaeftigelse", "intervalKodeAntalAnsatte")
	if !ok {
		return 0
	}
	switch value := raw.(type) {
	case float64:
		if value < 0 {
			return 0
		}
		return int(value)
	case string:
		match := firstNumber.FindString(value)
		if match == "" {
			return 0
		}
		count, err := strconv.Atoi(match)
		if err != nil {
			return 0
		}
		return count
	default:
		return 0
	}
}

// ProductionUnitCount returns the number of registered P-enheder.
func (v *Virksomhed) ProductionUnitCount() int {
	return digInt(v.data, "virksomhedMetadata", "antalPenheder")
}

// IndustryResponsibilityCode returns brancheAnsvarskode rendered as a
// string. The field is usually null, which renders as "None" to keep the
// feature vocabulary of existing extracts stable.
func (v *Virksomhed) IndustryResponsibilityCode() string {
	raw, ok := v.data["brancheAnsvarskode"]
	if !ok || raw == nil {
		return "None"
	}
	switch value := raw.(type) {
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case string:
		return value
	default:
		return "None"
	}
}

// Name returns the newest registered company name, "" when unavailable.
func (v *Virksomhed) Name() string {
	return digString(v.data, "virksomhedMetadata", "nyesteNavn", "navn")
}

// CompanyForm returns the long description of the newest company form,
// e.g. "Enkeltmandsvirksomhed" or "Interessentskab".
func (v *Virksomhed) CompanyForm() string {
	return digString(v.data, "virksomhedMetadata", "nyesteVirksomhedsform", "langBeskrivelse")
}

// StatusCode returns the newest statuskode as a string, "None" when unset.
func (v *Virksomhed) StatusCode() string {
	raw, ok := dig(v.data, "virksomhedMetadata", "nyesteStatus", "statuskode")
	if !ok || raw == nil {
		return "None"
	}
	switch value := raw.(type) {
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case string:
		return value
	default:
		return "None"
	}
}

// CompositeStatus returns sammensatStatus, e.g. "Aktiv" or "Ophørt".
func (v *Virksomhed) CompositeStatus() string {
	return digString(v.data, "virksomhedMetadata", "sammensatStatus")
}

// LastCompanyStatus returns the status of the last virksomhedsstatus entry,
// "" when the history is empty.
func (v *Virksomhed) LastCompanyStatus() string {
	history := digSlice(v.data, "virksomhedsstatus")
	if len(history) == 0 {
		return ""
	}
	entry, ok := history[len(history)-1].(map[string]interface{})
	if !ok {
		return ""
	}
	return digString(entry, "status")
}

// AdvertisingProtected reports whether the company opted out of marketing
// contact (reklamebeskyttet).
func (v *Virksomhed) AdvertisingProtected() bool {
	return digBool(v.data, "reklamebeskyttet")
}

// IndustryCode returns the newest hovedbranche code, "" when unset.
func (v *Virksomhed) IndustryCode() string {
	return digString(v.data, "virksomhedMetadata", "nyesteHovedbranche", "branchekode")
}

// IndustryText returns the newest hovedbranche description.
func (v *Virksomhed) IndustryText() string {
	return digString(v.data, "virksomhedMetadata", "nyesteHovedbranche", "branchetekst")
}

// FoundedDate returns the registered stiftelsesDato string.
func (v *Virksomhed) FoundedDate() string {
	return digString(v.data, "virksomhedMetadata", "stiftelsesDato")
}

// FoundedYear returns the year component of the founding date, 0 when the
// date is missing or unparseable.
func (v *Virksomhed) FoundedYear() int {
	date := v.FoundedDate()
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// FirstParticipantName returns the name of the first registered participant
// relation, "" when no participant is recorded.
func (v *Virksomhed) FirstParticipantName() string {
	relations := digSlice(v.data, "deltagerRelation")
	if len(relations) == 0 {
		return ""
	}
	relation, ok := relations[0].(map[string]interface{})
	if !ok {
		return ""
	}
	names := digSlice(relation, "deltager", "navne")
	if len(names) == 0 {
		return ""
	}
	name, ok := names[0].(map[string]interface{})
	if !ok {
		return ""
	}
	return digString(name, "navn")
}

// Purposes returns the FORMÅL attribute values in registration order.
func (v *Virksomhed) Purposes() []string {
	var purposes []string
	for _, raw := range digSlice(v.data, "attributter") {
		attribute, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if digString(attribute, "type") != "FORMÅL" {
			continue
		}
		for _, entry := range digSlice(attribute, "vaerdier") {
			value, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			if purpose := digString(value, "vaerdi"); purpose != "" {
				purposes = append(purposes, purpose)
			}
		}
		break
	}
	return purposes
}
