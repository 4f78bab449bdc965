package http

import (
	"fmt"
	"strconv"
	"time"

	"owura/internal/core"
)

// formatCedis renders cents as a Ghana cedi amount with thousands
// separators, e.g. 500000 -> "GH₵5,000.00".
func formatCedis(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var grouped []byte
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	s := "GH₵" + string(grouped) + fmt.Sprintf(".%02d", rem)
	if neg {
		return "-" + s
	}
	return s
}

// formatDate renders a date as "Jan 2, 2006", or "-" when unset.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

var methodLabels = map[core.Method]string{
	core.MethodCash:        "Cash",
	core.MethodMobileMoney: "Mobile Money",
	core.MethodBank:        "Bank Transfer",
	core.MethodCard:        "Credit Card",
	core.MethodCheck:       "Check",
	core.MethodOther:       "Other",
}

// methodLabel maps a payment method onto its display name. Unknown
// values fall through verbatim, matching how imported documents with
// free-form methods are shown.
func methodLabel(m core.Method) string {
	if label, ok := methodLabels[m]; ok {
		return label
	}
	return string(m)
}
