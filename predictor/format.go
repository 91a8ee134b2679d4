package predictor

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupeesPerLakh = 100000

// Formatter renders salaries for display in a given locale.
type Formatter struct {
	printer *message.Printer
}

func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	return &Formatter{printer: message.NewPrinter(tag)}, nil
}

// LPA renders the rounded salary the way the form shows it, e.g. "17.9 LPA".
func (f *Formatter) LPA(lpa float64) string {
	return strconv.FormatFloat(lpa, 'f', -1, 64) + " LPA"
}

// Annual renders the salary as whole rupees per annum with locale grouping.
func (f *Formatter) Annual(lpa float64) string {
	return f.printer.Sprintf("₹%d per annum", AnnualRupees(lpa))
}

func AnnualRupees(lpa float64) int64 {
	return int64(math.Round(lpa * rupeesPerLakh))
}

// roundTo2 rounds the exact binary value of x to two decimals, so 2.675
// (stored as 2.67499...) becomes 2.67.
func roundTo2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
