// Package flow implements the conversation state machine. The machine is a
// pure transition function over Session values: it never parses raw tokens
// and never performs I/O. Gateway calls and renders are expressed as
// effects; the surrounding transport layer executes them and feeds typed
// result events back in.
package flow

// State identifies a step of the menu conversation.
type State string

const (
	// StateRoot is the main menu; initial and reachable from everywhere.
	StateRoot State = "root"

	StateBrowsingCities    State = "browsing_cities"
	StateBrowsingQuests    State = "browsing_quests"
	StateBrowsingLocations State = "browsing_locations"
	StateBrowsingGuides    State = "browsing_guides"
	StateBrowsingReviews   State = "browsing_reviews"

	StateAwaitingSupportMessage State = "awaiting_support_message"

	StateReviewSelectQuest  State = "review_select_quest"
	StateReviewEnterRating  State = "review_enter_rating"
	StateReviewEnterComment State = "review_enter_comment"
)

// Section is a main menu entry.
type Section string

const (
	SectionCities    Section = "cities"
	SectionQuests    Section = "quests"
	SectionLocations Section = "locations"
	SectionGuides    Section = "guides"
	SectionReviews   Section = "reviews"
	SectionSupport   Section = "support"
)

// Kind tags which entity a list or detail view holds. The values double as
// callback-token prefixes and must stay stable.
type Kind string

const (
	KindCity     Kind = "city"
	KindQuest    Kind = "quest"
	KindLocation Kind = "location"
	KindGuide    Kind = "guide"
	KindReview   Kind = "review"
)

// browsingState maps an entity kind to the state browsing it.
func browsingState(kind Kind) State {
	switch kind {
	case KindCity:
		return StateBrowsingCities
	case KindQuest:
		return StateBrowsingQuests
	case KindLocation:
		return StateBrowsingLocations
	case KindGuide:
		return StateBrowsingGuides
	case KindReview:
		return StateBrowsingReviews
	}
	return StateRoot
}

// sectionBrowsingState maps a menu section to its browsing state.
func sectionBrowsingState(sec Section) State {
	switch sec {
	case SectionCities:
		return StateBrowsingCities
	case SectionQuests:
		return StateBrowsingQuests
	case SectionLocations:
		return StateBrowsingLocations
	case SectionGuides:
		return StateBrowsingGuides
	case SectionReviews:
		return StateBrowsingReviews
	}
	return StateRoot
}
