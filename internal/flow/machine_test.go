package flow

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireRender(t *testing.T, effects []Effect, i int) View {
	t.Helper()
	require.Greater(t, len(effects), i)
	r, ok := effects[i].(Render)
	require.True(t, ok, "effect %d is %T, want Render", i, effects[i])
	return r.View
}

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: int64(i + 1), Label: "item"}
	}
	return out
}

func TestStartEnsuresParticipant(t *testing.T) {
	m := NewMachine()
	s, effects := m.Step(NewSession(), Start{FirstName: "Анна", LastName: "Петрова"})

	require.Len(t, effects, 1)
	assert.Equal(t, EnsureParticipant{FirstName: "Анна", LastName: "Петрова"}, effects[0])
	assert.Equal(t, StateRoot, s.State)
}

func TestParticipantResolvedGreetings(t *testing.T) {
	m := NewMachine()

	s, effects := m.Step(NewSession(), ParticipantResolved{ID: 7, New: true})
	assert.True(t, s.Registered)
	assert.Equal(t, MainMenuView{Greeting: GreetingRegistered}, requireRender(t, effects, 0))

	s, effects = m.Step(s, ParticipantResolved{ID: 7})
	assert.True(t, s.Registered)
	assert.Equal(t, MainMenuView{Greeting: GreetingWelcomeBack}, requireRender(t, effects, 0))
}

func TestParticipantResolvedErrorKeepsState(t *testing.T) {
	m := NewMachine()
	before := Session{State: StateBrowsingQuests}

	s, effects := m.Step(before, ParticipantResolved{Err: errors.New("api down")})
	assert.Equal(t, before, s)
	assert.Equal(t, NoticeView{Notice: NoticeRegistrationError}, requireRender(t, effects, 0))
}

func TestHomeResetsFromAnyState(t *testing.T) {
	m := NewMachine()
	states := []Session{
		{State: StateBrowsingCities, List: &ListContext{Kind: KindCity, Pages: [][]Item{items(2)}}},
		{State: StateAwaitingSupportMessage, Registered: true},
		{State: StateReviewEnterComment, Draft: &ReviewDraft{QuestID: 3, Rating: 4}},
	}
	for _, before := range states {
		s, effects := m.Step(before, Home{})
		assert.Equal(t, StateRoot, s.State)
		assert.Nil(t, s.List)
		assert.Nil(t, s.Text)
		assert.Nil(t, s.Draft)
		assert.Equal(t, before.Registered, s.Registered)
		assert.Equal(t, MainMenuView{Greeting: GreetingHome}, requireRender(t, effects, 0))
	}
}

func TestMenuSelectDefersTransitionUntilOptionsLoad(t *testing.T) {
	m := NewMachine()

	s, effects := m.Step(NewSession(), MenuSelect{Section: SectionQuests})
	assert.Equal(t, StateRoot, s.State, "no transition before the fetch succeeds")
	require.Len(t, effects, 1)
	assert.Equal(t, LoadFilterOptions{Section: SectionQuests}, effects[0])

	s, effects = m.Step(s, FilterOptionsLoaded{
		Section: SectionQuests,
		Options: []FilterOption{{Value: "Казань", Label: "Казань"}},
	})
	assert.Equal(t, StateBrowsingQuests, s.State)
	v := requireRender(t, effects, 0).(FilterPromptView)
	assert.Equal(t, SectionQuests, v.Section)
	require.Len(t, v.Options, 1)
}

func TestMenuSelectFetchFailureKeepsRoot(t *testing.T) {
	m := NewMachine()
	s, _ := m.Step(NewSession(), MenuSelect{Section: SectionCities})
	s, effects := m.Step(s, FilterOptionsLoaded{Section: SectionCities, Err: errors.New("boom")})

	assert.Equal(t, StateRoot, s.State)
	assert.Equal(t, NoticeView{Notice: NoticeGatewayError}, requireRender(t, effects, 0))
}

func TestMenuSelectSupportTransitionsImmediately(t *testing.T) {
	m := NewMachine()
	s, effects := m.Step(NewSession(), MenuSelect{Section: SectionSupport})

	assert.Equal(t, StateAwaitingSupportMessage, s.State)
	assert.Equal(t, PromptView{Prompt: PromptSupport}, requireRender(t, effects, 0))
}

func TestMenuSelectGuidesSkipsFilterPrompt(t *testing.T) {
	m := NewMachine()
	_, effects := m.Step(NewSession(), MenuSelect{Section: SectionGuides})

	require.Len(t, effects, 1)
	assert.Equal(t, LoadList{Kind: KindGuide}, effects[0])
}

func TestListLoadedPaginatesAndClamps(t *testing.T) {
	m := NewMachine()
	s, effects := m.Step(Session{State: StateBrowsingCities}, ListLoaded{Kind: KindCity, Items: items(12)})

	require.NotNil(t, s.List)
	assert.Len(t, s.List.Pages, 3)
	v := requireRender(t, effects, 0).(ListPageView)
	assert.Equal(t, 0, v.Page)
	assert.Equal(t, 3, v.Pages)
	assert.Len(t, v.Items, 5)
	assert.False(t, v.Edit)

	// prev at the first page stays put
	s, effects = m.Step(s, PageNav{Kind: KindCity, Delta: -1})
	assert.Equal(t, 0, s.List.Page)
	nav := requireRender(t, effects, 0).(ListPageView)
	assert.True(t, nav.Edit)

	// walk to the last page; next beyond it stays put
	s, _ = m.Step(s, PageNav{Kind: KindCity, Delta: 1})
	s, _ = m.Step(s, PageNav{Kind: KindCity, Delta: 1})
	s, effects = m.Step(s, PageNav{Kind: KindCity, Delta: 1})
	assert.Equal(t, 2, s.List.Page)
	last := requireRender(t, effects, 0).(ListPageView)
	assert.Len(t, last.Items, 2)
}

func TestListLoadedEmptyShowsNotice(t *testing.T) {
	m := NewMachine()
	s, effects := m.Step(Session{State: StateBrowsingQuests}, ListLoaded{Kind: KindQuest, Items: nil})

	assert.Equal(t, StateBrowsingQuests, s.State)
	assert.Nil(t, s.List)
	assert.Equal(t, NoticeView{Notice: NoticeEmptyList}, requireRender(t, effects, 0))
}

func TestListLoadedUnmatchedFilter(t *testing.T) {
	m := NewMachine()
	before := Session{State: StateBrowsingQuests}
	s, effects := m.Step(before, ListLoaded{Kind: KindQuest, Err: ErrFilterUnmatched})

	assert.Equal(t, before, s)
	assert.Equal(t, NoticeView{Notice: NoticeCityNotFound}, requireRender(t, effects, 0))
}

func TestPageNavWithoutListIsStale(t *testing.T) {
	m := NewMachine()
	_, effects := m.Step(NewSession(), PageNav{Kind: KindCity, Delta: 1})
	assert.Equal(t, NoticeView{Notice: NoticeStale}, requireRender(t, effects, 0))
}

func TestPageNavKindMismatchIsStale(t *testing.T) {
	m := NewMachine()
	s := Session{
		State: StateBrowsingCities,
		List:  &ListContext{Kind: KindCity, Pages: [][]Item{items(3)}},
	}
	_, effects := m.Step(s, PageNav{Kind: KindQuest, Delta: 1})
	assert.Equal(t, NoticeView{Notice: NoticeStale}, requireRender(t, effects, 0))
}

func TestFilterChosenOutsideBrowsingRerenders(t *testing.T) {
	m := NewMachine()
	_, effects := m.Step(NewSession(), FilterChosen{Kind: KindQuest, Value: "Казань"})
	assert.Equal(t, MainMenuView{Greeting: GreetingNext}, requireRender(t, effects, 0))
}

// Scenario: filter quests by city, open one, page its description, book it.
func TestQuestBrowseDetailBookScenario(t *testing.T) {
	m := NewMachine()
	s := Session{State: StateRoot, Registered: true}

	s, effects := m.Step(s, MenuSelect{Section: SectionQuests})
	require.Equal(t, []Effect{LoadFilterOptions{Section: SectionQuests}}, effects)

	s, _ = m.Step(s, FilterOptionsLoaded{
		Section: SectionQuests,
		Options: []FilterOption{{Value: "Казань", Label: "Казань"}},
	})
	require.Equal(t, StateBrowsingQuests, s.State)

	s, effects = m.Step(s, FilterChosen{Kind: KindQuest, Value: "Казань"})
	require.Equal(t, []Effect{LoadList{Kind: KindQuest, Filter: "Казань"}}, effects)

	s, _ = m.Step(s, ListLoaded{Kind: KindQuest, Items: items(3)})
	require.NotNil(t, s.List)

	s, effects = m.Step(s, ItemSelected{Kind: KindQuest, ID: 2})
	require.Equal(t, []Effect{LoadDetail{Kind: KindQuest, ID: 2}}, effects)

	long := strings.Repeat("я", 1500)
	s, effects = m.Step(s, DetailLoaded{Kind: KindQuest, ID: 2, Title: "Ночной город", Body: long})
	require.NotNil(t, s.Text)
	assert.Len(t, s.Text.Chunks, 2)
	first := requireRender(t, effects, 0).(TextPageView)
	assert.Equal(t, 0, first.Page)
	assert.Equal(t, 2, first.Pages)
	actions := requireRender(t, effects, 1).(QuestActionsView)
	assert.Equal(t, int64(2), actions.QuestID)

	s, effects = m.Step(s, TextPageNav{Delta: 1})
	assert.Equal(t, 1, s.Text.Page)
	second := requireRender(t, effects, 0).(TextPageView)
	assert.True(t, second.Edit)
	assert.Equal(t, 500, len([]rune(second.Chunk)))

	s, effects = m.Step(s, BookQuest{ID: 2})
	require.Equal(t, []Effect{SubmitBooking{QuestID: 2}}, effects)

	before := s
	s, effects = m.Step(s, BookingSubmitted{})
	assert.Equal(t, before, s, "booking leaves the browsing context intact")
	assert.Equal(t, NoticeView{Notice: NoticeBookingOK}, requireRender(t, effects, 0))
}

// Scenario: author a review end to end, including rating validation.
func TestReviewAuthoringScenario(t *testing.T) {
	m := NewMachine()
	s := Session{State: StateBrowsingReviews, Registered: true}

	s, effects := m.Step(s, AddReview{})
	require.Equal(t, []Effect{LoadQuestChoices{}}, effects)

	s, _ = m.Step(s, QuestChoicesLoaded{Options: []FilterOption{{Value: "3", Label: "Ночной город"}}})
	require.Equal(t, StateReviewSelectQuest, s.State)
	require.NotNil(t, s.Draft)

	s, effects = m.Step(s, QuestPicked{ID: 3})
	require.Equal(t, StateReviewEnterRating, s.State)
	assert.Equal(t, int64(3), s.Draft.QuestID)
	assert.Equal(t, PromptView{Prompt: PromptRating}, requireRender(t, effects, 0))

	for _, bad := range []string{"0", "6", "-1"} {
		var out []Effect
		s, out = m.Step(s, FreeText{Body: bad})
		assert.Equal(t, StateReviewEnterRating, s.State, "rating %q must not advance", bad)
		assert.Equal(t, PromptView{Prompt: PromptRatingRange}, requireRender(t, out, 0))
	}
	for _, bad := range []string{"abc", "", "4.5"} {
		var out []Effect
		s, out = m.Step(s, FreeText{Body: bad})
		assert.Equal(t, StateReviewEnterRating, s.State, "rating %q must not advance", bad)
		assert.Equal(t, PromptView{Prompt: PromptRatingNumber}, requireRender(t, out, 0))
	}

	s, effects = m.Step(s, FreeText{Body: " 5 "})
	require.Equal(t, StateReviewEnterComment, s.State)
	assert.Equal(t, 5, s.Draft.Rating)
	assert.Equal(t, PromptView{Prompt: PromptComment}, requireRender(t, effects, 0))

	s, effects = m.Step(s, FreeText{Body: "Отличный квест!"})
	require.Equal(t, []Effect{SubmitReview{QuestID: 3, Rating: 5, Comment: "Отличный квест!"}}, effects)
	require.Equal(t, StateReviewEnterComment, s.State, "state holds until the write lands")

	s, effects = m.Step(s, ReviewSubmitted{})
	assert.Equal(t, StateRoot, s.State)
	assert.Nil(t, s.Draft)
	assert.True(t, s.Registered)
	assert.Equal(t, NoticeView{Notice: NoticeReviewOK}, requireRender(t, effects, 0))
	assert.Equal(t, MainMenuView{Greeting: GreetingNext}, requireRender(t, effects, 1))
}

func TestReviewSubmitFailureKeepsDraft(t *testing.T) {
	m := NewMachine()
	s := Session{
		State: StateReviewEnterComment,
		Draft: &ReviewDraft{QuestID: 3, Rating: 4},
	}

	s, effects := m.Step(s, ReviewSubmitted{Err: errors.New("api down")})
	assert.Equal(t, StateReviewEnterComment, s.State)
	require.NotNil(t, s.Draft)
	assert.Equal(t, NoticeView{Notice: NoticeReviewError}, requireRender(t, effects, 0))
}

// Scenario: ask a support question.
func TestSupportQuestionScenario(t *testing.T) {
	m := NewMachine()
	s := Session{State: StateRoot, Registered: true}

	s, _ = m.Step(s, MenuSelect{Section: SectionSupport})
	require.Equal(t, StateAwaitingSupportMessage, s.State)

	s, effects := m.Step(s, FreeText{Body: "Как отменить запись?"})
	require.Equal(t, []Effect{SubmitQuestion{Text: "Как отменить запись?"}}, effects)
	require.Equal(t, StateAwaitingSupportMessage, s.State)

	s, effects = m.Step(s, QuestionSubmitted{})
	assert.Equal(t, StateRoot, s.State)
	assert.Equal(t, NoticeView{Notice: NoticeQuestionOK}, requireRender(t, effects, 0))
	assert.Equal(t, MainMenuView{Greeting: GreetingNext}, requireRender(t, effects, 1))
}

func TestSupportQuestionFailureKeepsState(t *testing.T) {
	m := NewMachine()
	s := Session{State: StateAwaitingSupportMessage}

	s, effects := m.Step(s, QuestionSubmitted{Err: errors.New("api down")})
	assert.Equal(t, StateAwaitingSupportMessage, s.State)
	assert.Equal(t, NoticeView{Notice: NoticeQuestionError}, requireRender(t, effects, 0))
}

func TestGuideDetailRendersCard(t *testing.T) {
	m := NewMachine()
	s := Session{State: StateBrowsingGuides}

	s, effects := m.Step(s, DetailLoaded{Kind: KindGuide, ID: 1, Body: "Имя: Иван"})
	assert.Nil(t, s.Text, "cards do not open a text pager")
	card := requireRender(t, effects, 0).(CardView)
	assert.Equal(t, KindGuide, card.Kind)
}

func TestFreeTextAtRootRerendersMenu(t *testing.T) {
	m := NewMachine()
	s := Session{State: StateRoot, Registered: true}

	next, effects := m.Step(s, FreeText{Body: "привет"})
	assert.Equal(t, s, next)
	assert.Equal(t, MainMenuView{Greeting: GreetingNext}, requireRender(t, effects, 0))
}
