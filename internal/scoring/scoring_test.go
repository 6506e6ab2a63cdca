package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samsungPhone() ItemFields {
	return ItemFields{
		Category:    "Electronics",
		ItemType:    "Phone",
		Brand:       "Samsung",
		Color:       "Black",
		Location:    "Library",
		Description: "Black Samsung phone",
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "black", Normalize("  Black "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))

	// Idempotent: normalizing a canonical value is a no-op.
	for _, v := range []string{"  Black ", "SAMSUNG", "phone", ""} {
		assert.Equal(t, Normalize(v), Normalize(Normalize(v)))
	}
}

func TestMaxTotalEqualsSumOfWeights(t *testing.T) {
	assert.Equal(t, 140, MaxTotal())
}

func TestScoreFullMatch(t *testing.T) {
	claim := ClaimFields{
		Category:       "Electronics",
		ItemType:       "Phone",
		Brand:          "Samsung",
		Color:          "Black",
		Location:       "Library",
		PrivateDetails: "black samsung phone",
	}
	result := Score(claim, samsungPhone())
	assert.Equal(t, MaxTotal(), result.Total)
	assert.Len(t, result.Matched, 6)
}

// TestScoreScenarioPhone matches all fields except private_details:
// 30+25+20+15+10 = 100.
func TestScoreScenarioPhone(t *testing.T) {
	claim := ClaimFields{
		Category: "Electronics",
		ItemType: "Phone",
		Brand:    "Samsung",
		Color:    "Black",
		Location: "Library",
	}
	result := Score(claim, samsungPhone())

	assert.Equal(t, 100, result.Total)
	assert.ElementsMatch(t,
		[]Field{FieldCategory, FieldItemType, FieldBrand, FieldColor, FieldLocation},
		result.Matched,
	)

	require.Len(t, result.Breakdown, 6)
	last := result.Breakdown[5]
	assert.Equal(t, FieldPrivateDetails, last.Field)
	assert.False(t, last.Matched)
	assert.Equal(t, 0, last.Earned)
	assert.Equal(t, 40, last.Max)
}

func TestScoreZeroMatch(t *testing.T) {
	claim := ClaimFields{
		Category: "Jewelry",
		ItemType: "Ring",
		Brand:    "Cartier",
		Color:    "Gold",
		Location: "Gym",
	}
	result := Score(claim, samsungPhone())
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Matched)
}

func TestScoreEmptyClaimEarnsNothing(t *testing.T) {
	result := Score(ClaimFields{}, samsungPhone())
	assert.Equal(t, 0, result.Total)
	for _, fs := range result.Breakdown {
		assert.False(t, fs.Matched, string(fs.Field))
	}
}

func TestScoreEmptyItemSideIsNonMatch(t *testing.T) {
	item := samsungPhone()
	item.Brand = ""
	claim := ClaimFields{Brand: "Samsung"}
	result := Score(claim, item)
	assert.Equal(t, 0, result.Total)
}

// Scoring is symmetric in case and whitespace on either side.
func TestScoreCaseAndWhitespaceInsensitive(t *testing.T) {
	base := ClaimFields{
		Category: "Electronics",
		ItemType: "Phone",
		Brand:    "Samsung",
		Color:    "Black",
		Location: "Library",
	}
	shouted := ClaimFields{
		Category: strings.ToUpper(base.Category),
		ItemType: "  " + base.ItemType + "  ",
		Brand:    strings.ToUpper(base.Brand),
		Color:    base.Color + " ",
		Location: strings.ToLower(base.Location),
	}
	assert.Equal(t, Score(base, samsungPhone()), Score(shouted, samsungPhone()))
}

func TestContainsToleranceMatchesEitherDirection(t *testing.T) {
	item := samsungPhone()

	// Claim value contained in item value.
	result := Score(ClaimFields{Brand: "Sam"}, item)
	assert.Contains(t, result.Matched, FieldBrand)

	// Item value contained in claim value.
	result = Score(ClaimFields{Brand: "Samsung Galaxy"}, item)
	assert.Contains(t, result.Matched, FieldBrand)
}

func TestExactToleranceRejectsSubstrings(t *testing.T) {
	result := Score(ClaimFields{Category: "Electro"}, samsungPhone())
	assert.NotContains(t, result.Matched, FieldCategory)
	assert.Equal(t, 0, result.Total)
}

func TestScoreIsDeterministic(t *testing.T) {
	claim := ClaimFields{Category: "Electronics", Brand: "Samsung"}
	first := Score(claim, samsungPhone())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(claim, samsungPhone()))
	}
}
