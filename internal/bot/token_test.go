package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderquest/questbot/internal/flow"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data string
		want flow.Event
	}{
		{"back_to_main_menu", flow.Home{}},
		{"add_review", flow.AddReview{}},
		{"prev_page", flow.TextPageNav{Delta: -1}},
		{"next_page", flow.TextPageNav{Delta: 1}},
		{"select_quest_7", flow.QuestPicked{ID: 7}},
		{"book_quest_11", flow.BookQuest{ID: 11}},
		{"filter_country_Россия", flow.FilterChosen{Kind: flow.KindCity, Value: "Россия"}},
		{"filter_country_all", flow.FilterChosen{Kind: flow.KindCity, Value: ""}},
		{"filter_quest_city_Казань", flow.FilterChosen{Kind: flow.KindQuest, Value: "Казань"}},
		{"filter_quest_city_all", flow.FilterChosen{Kind: flow.KindQuest, Value: ""}},
		{"filter_city_Казань", flow.FilterChosen{Kind: flow.KindLocation, Value: "Казань"}},
		{"filter_review_quest_11", flow.FilterChosen{Kind: flow.KindReview, Value: "11"}},
		{"filter_review_quest_all", flow.FilterChosen{Kind: flow.KindReview, Value: ""}},
		{"city_prev_page", flow.PageNav{Kind: flow.KindCity, Delta: -1}},
		{"review_next_page", flow.PageNav{Kind: flow.KindReview, Delta: 1}},
		{"city_3", flow.ItemSelected{Kind: flow.KindCity, ID: 3}},
		{"quest_11", flow.ItemSelected{Kind: flow.KindQuest, ID: 11}},
		{"location_5", flow.ItemSelected{Kind: flow.KindLocation, ID: 5}},
		{"guide_2", flow.ItemSelected{Kind: flow.KindGuide, ID: 2}},
		{"review_9", flow.ItemSelected{Kind: flow.KindReview, ID: 9}},
	}
	for _, tc := range cases {
		t.Run(tc.data, func(t *testing.T) {
			got, ok := ParseCallback(tc.data)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Overlapping prefixes must not shadow each other.
func TestParseCallbackPrefixPrecedence(t *testing.T) {
	got, ok := ParseCallback("filter_quest_city_all")
	require.True(t, ok)
	assert.IsType(t, flow.FilterChosen{}, got)
	assert.Equal(t, flow.KindQuest, got.(flow.FilterChosen).Kind)

	// a quest named like a nav token must still select the quest
	got, ok = ParseCallback("quest_7")
	require.True(t, ok)
	assert.IsType(t, flow.ItemSelected{}, got)
}

func TestParseCallbackCityNameWithUnderscore(t *testing.T) {
	got, ok := ParseCallback("filter_quest_city_Нижний_Новгород")
	require.True(t, ok)
	assert.Equal(t, flow.FilterChosen{Kind: flow.KindQuest, Value: "Нижний_Новгород"}, got)
}

func TestParseCallbackRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "bogus", "city_", "city_abc", "select_quest_x", "zzz_next_page"} {
		_, ok := ParseCallback(data)
		assert.False(t, ok, "token %q must be rejected", data)
	}
}

func TestParseMessageMenuLabels(t *testing.T) {
	cases := map[string]flow.Section{
		"🏙️ Города":   flow.SectionCities,
		"🔍 Квесты":    flow.SectionQuests,
		"📍 Локации":   flow.SectionLocations,
		"👤 Гиды":      flow.SectionGuides,
		"📝 Отзывы":    flow.SectionReviews,
		"🆘 Поддержка": flow.SectionSupport,
	}
	for text, section := range cases {
		got := ParseMessage(text)
		require.IsType(t, flow.MenuSelect{}, got, "label %q", text)
		assert.Equal(t, section, got.(flow.MenuSelect).Section)
	}
}

func TestParseMessageFreeText(t *testing.T) {
	got := ParseMessage("Как отменить запись?")
	assert.Equal(t, flow.FreeText{Body: "Как отменить запись?"}, got)
}
