package bot

import (
	"strconv"
	"strings"

	"github.com/wanderquest/questbot/internal/flow"
)

// Callback token grammar. Tokens are flat strings; prefixes overlap, so
// parse order matters: select_quest_ and book_quest_ before the bare
// entity prefixes, filter_quest_city_ before filter_city_.
const (
	tokenHome      = "back_to_main_menu"
	tokenAddReview = "add_review"
	tokenTextPrev  = "prev_page"
	tokenTextNext  = "next_page"

	prefixSelectQuest  = "select_quest_"
	prefixBookQuest    = "book_quest_"
	prefixCountry      = "filter_country_"
	prefixQuestCity    = "filter_quest_city_"
	prefixReviewQuest  = "filter_review_quest_"
	prefixLocationCity = "filter_city_"

	suffixPrevPage = "_prev_page"
	suffixNextPage = "_next_page"

	filterAll = "all"
)

// menuSections maps the reply keyboard labels to sections. The labels are
// the wire format of menu selection and must match the rendered keyboard.
var menuSections = map[string]flow.Section{
	"🏙️ Города":   flow.SectionCities,
	"🔍 Квесты":    flow.SectionQuests,
	"📍 Локации":   flow.SectionLocations,
	"👤 Гиды":      flow.SectionGuides,
	"📝 Отзывы":    flow.SectionReviews,
	"🆘 Поддержка": flow.SectionSupport,
}

var kindPrefixes = map[string]flow.Kind{
	string(flow.KindCity):     flow.KindCity,
	string(flow.KindQuest):    flow.KindQuest,
	string(flow.KindLocation): flow.KindLocation,
	string(flow.KindGuide):    flow.KindGuide,
	string(flow.KindReview):   flow.KindReview,
}

// ParseCallback turns raw callback data into a flow event. Unknown or
// malformed tokens report false and are dropped by the router.
func ParseCallback(data string) (flow.Event, bool) {
	data = strings.TrimSpace(data)

	switch data {
	case tokenHome:
		return flow.Home{}, true
	case tokenAddReview:
		return flow.AddReview{}, true
	case tokenTextPrev:
		return flow.TextPageNav{Delta: -1}, true
	case tokenTextNext:
		return flow.TextPageNav{Delta: 1}, true
	}

	if rest, ok := strings.CutPrefix(data, prefixSelectQuest); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, false
		}
		return flow.QuestPicked{ID: id}, true
	}
	if rest, ok := strings.CutPrefix(data, prefixBookQuest); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, false
		}
		return flow.BookQuest{ID: id}, true
	}

	if rest, ok := strings.CutPrefix(data, prefixCountry); ok {
		return flow.FilterChosen{Kind: flow.KindCity, Value: filterValue(rest)}, true
	}
	if rest, ok := strings.CutPrefix(data, prefixQuestCity); ok {
		return flow.FilterChosen{Kind: flow.KindQuest, Value: filterValue(rest)}, true
	}
	if rest, ok := strings.CutPrefix(data, prefixReviewQuest); ok {
		return flow.FilterChosen{Kind: flow.KindReview, Value: filterValue(rest)}, true
	}
	if rest, ok := strings.CutPrefix(data, prefixLocationCity); ok {
		return flow.FilterChosen{Kind: flow.KindLocation, Value: filterValue(rest)}, true
	}

	if rest, ok := strings.CutSuffix(data, suffixPrevPage); ok {
		if kind, known := kindPrefixes[rest]; known {
			return flow.PageNav{Kind: kind, Delta: -1}, true
		}
		return nil, false
	}
	if rest, ok := strings.CutSuffix(data, suffixNextPage); ok {
		if kind, known := kindPrefixes[rest]; known {
			return flow.PageNav{Kind: kind, Delta: 1}, true
		}
		return nil, false
	}

	// entity selection: "<kind>_<id>"
	if i := strings.IndexByte(data, '_'); i > 0 {
		if kind, known := kindPrefixes[data[:i]]; known {
			id, err := strconv.ParseInt(data[i+1:], 10, 64)
			if err != nil {
				return nil, false
			}
			return flow.ItemSelected{Kind: kind, ID: id}, true
		}
	}

	return nil, false
}

// ParseMessage turns a plain text message into a flow event. Menu button
// labels select a section; anything else is free text interpreted by the
// current state.
func ParseMessage(text string) flow.Event {
	if sec, ok := menuSections[strings.TrimSpace(text)]; ok {
		return flow.MenuSelect{Section: sec}
	}
	return flow.FreeText{Body: text}
}

func filterValue(raw string) string {
	if raw == filterAll {
		return ""
	}
	return raw
}
