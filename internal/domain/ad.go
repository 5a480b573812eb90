package domain

import "fmt"

// AdType enumerates the ads a user can watch to earn balance credits.
type AdType string

const (
	AdQuick   AdType = "quick"
	AdShort   AdType = "short"
	AdPremium AdType = "premium"
)

// adRewards maps each ad type to the amount it credits.
var adRewards = map[AdType]int64{
	AdQuick:   1,
	AdShort:   3,
	AdPremium: 5,
}

// ParseAdType validates a raw ad type string against the closed set.
func ParseAdType(raw string) (AdType, bool) {
	adType := AdType(raw)
	_, ok := adRewards[adType]
	return adType, ok
}

// Reward returns the credit amount for the ad type, zero when unknown.
func (a AdType) Reward() int64 {
	return adRewards[a]
}

// Message returns the confirmation shown to the user after crediting.
func (a AdType) Message() string {
	return fmt.Sprintf("£%d added!", a.Reward())
}
