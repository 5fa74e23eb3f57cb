package account

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Record is the canonical account schema. Files written by older
// application versions may miss the trailing fields; Normalize fills
// the gaps so callers never branch on the producing version.
type Record struct {
	Username           string
	PasswordHash       string
	Salt               string
	Purpose            string
	Goal               decimal.Decimal
	Role               string
	Activated          bool
	ActivationCode     string
	ActivationIssuedAt time.Time
	Email              string
}

func (r *Record) Normalize() {
	if r.Role == "" {
		r.Role = RoleUser
	}
	// rows predating the activation flow have no code and count as live
	if r.ActivationCode == "" && !r.Activated {
		r.Activated = true
	}
}

func (r *Record) IsAdmin() bool {
	return r.Role == RoleAdmin
}
