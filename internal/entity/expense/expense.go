package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	Food          = "Food"
	Transport     = "Transport"
	Entertainment = "Entertainment"
	Utilities     = "Utilities"
	Other         = "Other"
)

// DateLayout is the on-disk date form.
const DateLayout = "2006-01-02"

var DefaultCategories = []string{Food, Transport, Entertainment, Utilities, Other}

// Record is one immutable expense row. Records are append-only: there
// is no edit or delete path anywhere in the system.
type Record struct {
	Date        time.Time
	Category    string
	Amount      decimal.Decimal
	Description string
}
