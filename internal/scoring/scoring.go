// Package scoring compares a claimant's description against a found item
// record and produces a deterministic similarity score.
//
// The rules are centralized here so weights stay testable and adjudicators
// can reason about the breakdown field by field. Everything in this package
// is pure: identical inputs always yield identical output, and scoring never
// fails — a missing attribute on either side is a non-match, not an error.
package scoring

import "strings"

// Normalize canonicalizes free-text attribute values for comparison:
// trimmed, lower-cased, empty when the input is empty. Idempotent.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Tolerance selects how two canonical values are compared.
type Tolerance string

const (
	// ToleranceExact requires equality of canonical strings.
	ToleranceExact Tolerance = "exact"
	// ToleranceContains requires one canonical string to contain the other,
	// in either direction.
	ToleranceContains Tolerance = "contains"
)

// Field names a logical claim attribute under comparison.
type Field string

const (
	FieldCategory       Field = "category"
	FieldItemType       Field = "item_type"
	FieldBrand          Field = "brand"
	FieldColor          Field = "color"
	FieldLocation       Field = "location"
	FieldPrivateDetails Field = "private_details"
)

// Rule binds a field to its weight and tolerance.
type Rule struct {
	Weight    int
	Tolerance Tolerance
}

// Rules is the canonical weight table. private_details carries the highest
// weight: it is information a finder would not otherwise know, so it is the
// strongest evidence of rightful ownership.
var Rules = map[Field]Rule{
	FieldCategory:       {Weight: 30, Tolerance: ToleranceExact},
	FieldItemType:       {Weight: 25, Tolerance: ToleranceContains},
	FieldBrand:          {Weight: 20, Tolerance: ToleranceContains},
	FieldColor:          {Weight: 15, Tolerance: ToleranceContains},
	FieldLocation:       {Weight: 10, Tolerance: ToleranceContains},
	FieldPrivateDetails: {Weight: 40, Tolerance: ToleranceContains},
}

// fieldOrder fixes the breakdown ordering; map iteration is randomized.
var fieldOrder = []Field{
	FieldCategory,
	FieldItemType,
	FieldBrand,
	FieldColor,
	FieldLocation,
	FieldPrivateDetails,
}

// MaxTotal is the highest attainable score: the sum of all weights.
func MaxTotal() int {
	total := 0
	for _, rule := range Rules {
		total += rule.Weight
	}
	return total
}

// ClaimFields holds the claimant's asserted attributes.
type ClaimFields struct {
	Category       string
	ItemType       string
	Brand          string
	Color          string
	Location       string
	PrivateDetails string
}

// ItemFields holds the found item's recorded attributes. PrivateDetails is
// matched against the item's public description: details the claimant
// volunteers that line up with what the finder observed.
type ItemFields struct {
	Category    string
	ItemType    string
	Brand       string
	Color       string
	Location    string
	Description string
}

// FieldScore is one row of the per-field breakdown.
type FieldScore struct {
	Field   Field `json:"field"`
	Matched bool  `json:"matched"`
	Earned  int   `json:"score"`
	Max     int   `json:"max_score"`
}

// Result is the outcome of scoring one claim against one item.
type Result struct {
	Total     int          `json:"total"`
	Matched   []Field      `json:"matched"`
	Breakdown []FieldScore `json:"breakdown"`
}

func matchWithTolerance(claimValue, foundValue string, tolerance Tolerance) bool {
	a := Normalize(claimValue)
	b := Normalize(foundValue)
	if a == "" || b == "" {
		return false
	}
	switch tolerance {
	case ToleranceExact:
		return a == b
	case ToleranceContains:
		return strings.Contains(a, b) || strings.Contains(b, a)
	default:
		return false
	}
}

func (c ClaimFields) value(f Field) string {
	switch f {
	case FieldCategory:
		return c.Category
	case FieldItemType:
		return c.ItemType
	case FieldBrand:
		return c.Brand
	case FieldColor:
		return c.Color
	case FieldLocation:
		return c.Location
	case FieldPrivateDetails:
		return c.PrivateDetails
	}
	return ""
}

func (i ItemFields) value(f Field) string {
	switch f {
	case FieldCategory:
		return i.Category
	case FieldItemType:
		return i.ItemType
	case FieldBrand:
		return i.Brand
	case FieldColor:
		return i.Color
	case FieldLocation:
		return i.Location
	case FieldPrivateDetails:
		return i.Description
	}
	return ""
}

// Score evaluates every configured field. A matched field contributes its
// full weight; an unmatched field contributes zero.
func Score(claim ClaimFields, item ItemFields) Result {
	result := Result{
		Matched:   []Field{},
		Breakdown: make([]FieldScore, 0, len(fieldOrder)),
	}
	for _, field := range fieldOrder {
		rule := Rules[field]
		matched := matchWithTolerance(claim.value(field), item.value(field), rule.Tolerance)

		earned := 0
		if matched {
			earned = rule.Weight
			result.Matched = append(result.Matched, field)
		}
		result.Total += earned
		result.Breakdown = append(result.Breakdown, FieldScore{
			Field:   field,
			Matched: matched,
			Earned:  earned,
			Max:     rule.Weight,
		})
	}
	return result
}
