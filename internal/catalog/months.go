package catalog

// MonthToken is one recognizable month spelling.
type MonthToken struct {
	Name string
	Num  int
}

// MonthTokens is the ordered scan list for month extraction: full
// names before their abbreviations, first match wins.
var MonthTokens = []MonthToken{
	{"january", 1}, {"jan", 1},
	{"february", 2}, {"feb", 2},
	{"march", 3}, {"mar", 3},
	{"april", 4}, {"apr", 4},
	{"may", 5},
	{"june", 6}, {"jun", 6},
	{"july", 7}, {"jul", 7},
	{"august", 8}, {"aug", 8},
	{"september", 9}, {"sep", 9}, {"sept", 9},
	{"october", 10}, {"oct", 10},
	{"november", 11}, {"nov", 11},
	{"december", 12}, {"dec", 12},
}

var monthNames = [13]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the full month name for 1..12, or "" otherwise.
func MonthName(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return monthNames[n]
}
