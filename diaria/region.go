package diaria

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// DESTINATION REGION CLASSIFIER
// =============================================================================

// AddressComponent is one structured piece of a geocoded address, as
// returned by the places lookup the frontend uses. Types follow the
// geocoder's vocabulary ("locality", "administrative_area_level_2", ...).
type AddressComponent struct {
	LongName string
	Types    []string
}

// cityComponentPreference is the order in which address-component types are
// consulted when extracting the destination city.
var cityComponentPreference = []string{
	"administrative_area_level_2",
	"locality",
	"sublocality",
	"administrative_area_level_1",
}

// ClassifyRegion infers the pricing tier of a destination. Structured
// address components win over the raw destination string; the extracted
// name is compared diacritic-insensitively.
//
// Florianópolis and Curitiba are priced local by explicit rule and Brasília
// as other, regardless of the capital list. Any other state capital is
// "other"; everything else (including an undeterminable city) is local.
func ClassifyRegion(destination string, components []AddressComponent, capitals *CapitalSet) Region {
	city := cityFromComponents(components)
	if city == "" {
		city = cityFromFreeText(destination)
	}

	normalized := NormalizeCityName(city)
	if normalized == "" {
		return RegionLocal
	}

	switch normalized {
	case "florianopolis", "curitiba":
		return RegionLocal
	case "brasilia":
		return RegionOther
	}

	if capitals != nil && capitals.Contains(normalized) {
		return RegionOther
	}
	return RegionLocal
}

func cityFromComponents(components []AddressComponent) string {
	for _, wanted := range cityComponentPreference {
		for _, c := range components {
			for _, t := range c.Types {
				if t == wanted {
					return c.LongName
				}
			}
		}
	}
	return ""
}

// cityFromFreeText takes the first comma-separated token of the raw
// destination string ("Joinville, SC, Brasil" -> "Joinville").
func cityFromFreeText(destination string) string {
	city, _, _ := strings.Cut(destination, ",")
	return strings.TrimSpace(city)
}

// NormalizeCityName lower-cases a city name and strips diacritics, so that
// "São Paulo" and "sao paulo" compare equal.
func NormalizeCityName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// =============================================================================
// CAPITAL SET
// =============================================================================

// CapitalSet is the configured list of state-capital names, held normalized.
// It comes from system configuration and is read-only per session.
type CapitalSet struct {
	names map[string]struct{}
}

// defaultCapitals lists the Brazilian state capitals priced as "other".
// Florianópolis and Curitiba are absent on purpose (priced local by rule)
// and Brasília is kept for completeness even though an explicit rule
// already classifies it.
var defaultCapitals = []string{
	"aracaju", "belém", "belo horizonte", "boa vista", "brasília", "campo grande",
	"cuiabá", "fortaleza", "goiânia", "joão pessoa",
	"macapá", "maceió", "manaus", "natal", "palmas", "porto alegre", "porto velho",
	"recife", "rio branco", "rio de janeiro", "salvador", "são luís", "são paulo",
	"teresina", "vitória",
}

// DefaultCapitalSet returns the built-in capital list used when no custom
// list is configured.
func DefaultCapitalSet() *CapitalSet {
	return NewCapitalSet(defaultCapitals)
}

// NewCapitalSet normalizes and indexes capital names; empty entries are
// dropped.
func NewCapitalSet(names []string) *CapitalSet {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		normalized := NormalizeCityName(n)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return &CapitalSet{names: set}
}

func (s *CapitalSet) Contains(normalizedName string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[normalizedName]
	return ok
}

func (s *CapitalSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the normalized capital names, sorted.
func (s *CapitalSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
