package tips

import "math/rand"

// fallbackPool backs the widget when the remote service is down or
// unconfigured. Kept short and generic on purpose.
var fallbackPool = []string{
	"Track your spending for one week and identify the top non-essential category to cut.",
	"Set aside a fixed amount the day you get paid, before any other spending.",
	"Review your subscriptions this month and cancel one you have not used lately.",
	"Plan your meals for the week before shopping to avoid impulse grocery buys.",
	"Wait 24 hours before any purchase over your daily food budget.",
}

func fallbackTip() string {
	return fallbackPool[rand.Intn(len(fallbackPool))]
}
