package feedback

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Record struct {
	Timestamp time.Time
	Username  string
	Rating    int
	Text      string
}

const (
	ReactionUp   = "up"
	ReactionDown = "down"
)

// TipReaction is one thumbs-up/down vote on a served tip, logged with
// the tip text so reactions stay meaningful after the cache rotates.
type TipReaction struct {
	Timestamp time.Time
	Username  string
	Tip       string
	Reaction  string
}
