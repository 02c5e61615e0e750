package lvef

// Category is the clinical band an ejection fraction falls into.
type Category string

const (
	Hyperdynamic        Category = "Hyperdynamic"
	Normal              Category = "Normal"
	MildDysfunction     Category = "Mild Dysfunction"
	ModerateDysfunction Category = "Moderate Dysfunction"
	SevereDysfunction   Category = "Severe Dysfunction"
)

// Band is one row of the classification table. A percentage belongs to the
// band when it is above Lower (or equal to it when Inclusive is set).
type Band struct {
	Category  Category `json:"category"`
	Color     string   `json:"color"`
	Lower     float64  `json:"lower"`
	Inclusive bool     `json:"inclusive"`
	Range     string   `json:"range"`
}

func (b Band) contains(p float64) bool {
	if b.Inclusive {
		return p >= b.Lower
	}
	return p > b.Lower
}

// bands is ordered highest bound first; the first match wins.
var bands = []Band{
	{Category: Hyperdynamic, Color: "#10b981", Lower: 70, Range: ">70%"},
	{Category: Normal, Color: "#22c55e", Lower: 50, Inclusive: true, Range: "50-70%"},
	{Category: MildDysfunction, Color: "#f59e0b", Lower: 40, Inclusive: true, Range: "40-49%"},
	{Category: ModerateDysfunction, Color: "#f97316", Lower: 30, Inclusive: true, Range: "30-39%"},
}

var severe = Band{Category: SevereDysfunction, Color: "#ef4444", Range: "<30%"}

// Classify maps a percentage to its category and display color.
func Classify(percentage float64) (Category, string) {
	for _, b := range bands {
		if b.contains(percentage) {
			return b.Category, b.Color
		}
	}
	return severe.Category, severe.Color
}

// Bands returns the classification table, highest band first.
func Bands() []Band {
	out := make([]Band, 0, len(bands)+1)
	out = append(out, bands...)
	return append(out, severe)
}
