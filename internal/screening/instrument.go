// Package screening scores the four wellbeing questionnaires and turns the
// results into a triage category and a list of recommended actions.
// Everything in this package is pure; storage and identity live in services.
package screening

// Instrument identifies one of the supported questionnaires.
type Instrument string

const (
	PHQ9  Instrument = "phq9"
	GAD7  Instrument = "gad7"
	PSS10 Instrument = "pss10"
	GHQ12 Instrument = "ghq12"
)

// Instruments lists every instrument in submission order.
var Instruments = []Instrument{PHQ9, GAD7, PSS10, GHQ12}

// Category is the per-instrument severity label.
type Category string

const (
	CategoryMinimal          Category = "minimal"
	CategoryMild             Category = "mild"
	CategoryModerate         Category = "moderate"
	CategoryModeratelySevere Category = "moderately_severe"
	CategorySevere           Category = "severe"

	CategoryLow  Category = "low"
	CategoryHigh Category = "high"

	CategoryNoDistress       Category = "no_distress"
	CategoryPossibleDistress Category = "possible_distress"
	CategoryProbableDistress Category = "probable_distress"
)

// Band maps every raw score up to and including Max onto Category.
type Band struct {
	Max      int
	Category Category
}

// Definition holds the fixed scoring rules of one instrument.
type Definition struct {
	Code       Instrument
	Questions  int
	MinValue   int
	MaxValue   int
	MaxScore   int
	BucketSize int
	// Reversed lists zero-based item indices scored as MaxValue - value.
	Reversed []int
	// BinarizeAt, when non-zero, scores an item 1 if value >= BinarizeAt and 0 otherwise.
	BinarizeAt int
	Bands      []Band
}

var definitions = map[Instrument]Definition{
	PHQ9: {
		Code:       PHQ9,
		Questions:  9,
		MinValue:   0,
		MaxValue:   3,
		MaxScore:   27,
		BucketSize: 7,
		Bands: []Band{
			{Max: 4, Category: CategoryMinimal},
			{Max: 9, Category: CategoryMild},
			{Max: 14, Category: CategoryModerate},
			{Max: 19, Category: CategoryModeratelySevere},
			{Max: 27, Category: CategorySevere},
		},
	},
	GAD7: {
		Code:       GAD7,
		Questions:  7,
		MinValue:   0,
		MaxValue:   3,
		MaxScore:   21,
		BucketSize: 5,
		Bands: []Band{
			{Max: 4, Category: CategoryMinimal},
			{Max: 9, Category: CategoryMild},
			{Max: 14, Category: CategoryModerate},
			{Max: 21, Category: CategorySevere},
		},
	},
	PSS10: {
		Code:       PSS10,
		Questions:  10,
		MinValue:   0,
		MaxValue:   4,
		MaxScore:   40,
		BucketSize: 14,
		Reversed:   []int{3, 4, 6, 7},
		Bands: []Band{
			{Max: 13, Category: CategoryLow},
			{Max: 26, Category: CategoryModerate},
			{Max: 40, Category: CategoryHigh},
		},
	},
	GHQ12: {
		Code:       GHQ12,
		Questions:  12,
		MinValue:   0,
		MaxValue:   3,
		MaxScore:   12,
		BucketSize: 3,
		BinarizeAt: 2,
		Bands: []Band{
			{Max: 2, Category: CategoryNoDistress},
			{Max: 5, Category: CategoryPossibleDistress},
			{Max: 12, Category: CategoryProbableDistress},
		},
	},
}

// Lookup returns the definition for code.
func Lookup(code Instrument) (Definition, bool) {
	def, ok := definitions[code]
	return def, ok
}

// IsReversed reports whether the zero-based item index is reverse scored.
func (d Definition) IsReversed(index int) bool {
	for _, r := range d.Reversed {
		if r == index {
			return true
		}
	}
	return false
}

// Categorize maps a raw score onto the definition's bands.
// Scores above the last band fall into the last band.
func (d Definition) Categorize(rawScore int) Category {
	for _, b := range d.Bands {
		if rawScore <= b.Max {
			return b.Category
		}
	}
	return d.Bands[len(d.Bands)-1].Category
}
