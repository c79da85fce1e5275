package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderquest/questbot/internal/flow"
)

func flatButtons(out outgoing) []string {
	var data []string
	if out.markup == nil {
		return data
	}
	for _, row := range out.markup.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.Data)
		}
	}
	return data
}

// Every button a view renders must parse back into an event.
func TestRenderedButtonsRoundTrip(t *testing.T) {
	views := []flow.View{
		flow.FilterPromptView{Section: flow.SectionQuests, Options: []flow.FilterOption{{Value: "Казань", Label: "Казань"}}},
		flow.FilterPromptView{Section: flow.SectionReviews, Options: []flow.FilterOption{{Value: "11", Label: "Ночной город"}}},
		flow.ListPageView{Kind: flow.KindCity, Items: []flow.Item{{ID: 3, Label: "Москва"}}, Pages: 2},
		flow.TextPageView{Title: "Казань", Chunk: "...", Page: 1, Pages: 3},
		flow.QuestActionsView{QuestID: 11},
		flow.QuestPickerView{Options: []flow.FilterOption{{Value: "11", Label: "Ночной город"}}},
		flow.NoticeView{Notice: flow.NoticeBookingOK},
	}
	for _, v := range views {
		out := renderView(v)
		for _, data := range flatButtons(out) {
			_, ok := ParseCallback(data)
			assert.True(t, ok, "view %T renders unparseable token %q", v, data)
		}
	}
}

func TestRenderFilterPromptTokens(t *testing.T) {
	out := renderView(flow.FilterPromptView{
		Section: flow.SectionQuests,
		Options: []flow.FilterOption{{Value: "Казань", Label: "Казань"}},
	})
	assert.Equal(t, "🔍 Выберите город для фильтрации квестов:", out.text)
	require.Equal(t, []string{"filter_quest_city_Казань", "filter_quest_city_all"}, flatButtons(out))
}

func TestRenderReviewsPromptHasAddButton(t *testing.T) {
	out := renderView(flow.FilterPromptView{Section: flow.SectionReviews})
	buttons := flatButtons(out)
	require.NotEmpty(t, buttons)
	assert.Equal(t, "add_review", buttons[len(buttons)-1])
}

func TestRenderListPage(t *testing.T) {
	out := renderView(flow.ListPageView{
		Kind:  flow.KindQuest,
		Items: []flow.Item{{ID: 11, Label: "Ночной город"}},
		Page:  0,
		Pages: 3,
	})
	assert.Equal(t, "Выберите quest:", out.text)
	assert.Equal(t, []string{"quest_11", "quest_prev_page", "quest_next_page", "back_to_main_menu"}, flatButtons(out))
	assert.False(t, out.edit)
}

func TestRenderTextPageEdges(t *testing.T) {
	first := renderView(flow.TextPageView{Title: "Казань", Chunk: "a", Page: 0, Pages: 2})
	assert.Equal(t, "Казань\n\na", first.text)
	assert.Equal(t, []string{"next_page", "back_to_main_menu"}, flatButtons(first))

	last := renderView(flow.TextPageView{Title: "Казань", Chunk: "b", Page: 1, Pages: 2, Edit: true})
	assert.Equal(t, []string{"prev_page", "back_to_main_menu"}, flatButtons(last))
	assert.True(t, last.edit)

	single := renderView(flow.TextPageView{Title: "Казань", Chunk: "a", Page: 0, Pages: 1})
	assert.Equal(t, []string{"back_to_main_menu"}, flatButtons(single))
}

func TestRenderMainMenuKeyboardMatchesParser(t *testing.T) {
	out := renderView(flow.MainMenuView{Greeting: flow.GreetingHome})
	require.NotNil(t, out.markup)
	var labels []string
	for _, row := range out.markup.ReplyKeyboard {
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}
	require.Len(t, labels, 6)
	for _, label := range labels {
		ev := ParseMessage(label)
		assert.IsType(t, flow.MenuSelect{}, ev, "label %q must map to a section", label)
	}
}

func TestRenderBookingNoticeKeepsHomeButton(t *testing.T) {
	ok := renderView(flow.NoticeView{Notice: flow.NoticeBookingOK})
	assert.Equal(t, []string{"back_to_main_menu"}, flatButtons(ok))

	fail := renderView(flow.NoticeView{Notice: flow.NoticeBookingError})
	assert.Nil(t, fail.markup)
}
