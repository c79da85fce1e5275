package flow

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wanderquest/questbot/internal/pager"
)

// Machine is the conversation transition function. It holds only the
// pagination tuning; all per-user state lives in the Session it is given.
type Machine struct {
	PageSize  int
	ChunkSize int
}

// NewMachine returns a machine with the default page sizes.
func NewMachine() *Machine {
	return &Machine{
		PageSize:  pager.DefaultPageSize,
		ChunkSize: pager.DefaultChunkSize,
	}
}

// Step applies one event to a session and returns the updated session plus
// the effects to execute. It is pure: same inputs, same outputs, no I/O.
// Events that do not apply in the current state re-render the current view
// and leave the session untouched.
func (m *Machine) Step(s Session, ev Event) (Session, []Effect) {
	switch e := ev.(type) {
	case Start:
		return s, []Effect{EnsureParticipant{FirstName: e.FirstName, LastName: e.LastName}}

	case Home:
		return s.reset(), render(MainMenuView{Greeting: GreetingHome})

	case MenuSelect:
		return m.stepMenuSelect(s, e)

	case FilterChosen:
		if s.State != browsingState(e.Kind) {
			return s, m.rerender(s)
		}
		return s, []Effect{LoadList{Kind: e.Kind, Filter: e.Value}}

	case PageNav:
		if s.List == nil || s.List.Kind != e.Kind {
			return s, render(NoticeView{Notice: NoticeStale})
		}
		list := *s.List
		list.Page = pager.Clamp(list.Page+e.Delta, len(list.Pages))
		s.List = &list
		return s, render(ListPageView{
			Kind:  list.Kind,
			Items: list.Pages[list.Page],
			Page:  list.Page,
			Pages: len(list.Pages),
			Edit:  true,
		})

	case TextPageNav:
		if s.Text == nil {
			return s, render(NoticeView{Notice: NoticeStale})
		}
		text := *s.Text
		text.Page = pager.Clamp(text.Page+e.Delta, len(text.Chunks))
		s.Text = &text
		return s, render(TextPageView{
			Title: text.Title,
			Chunk: text.Chunks[text.Page],
			Page:  text.Page,
			Pages: len(text.Chunks),
			Edit:  true,
		})

	case ItemSelected:
		if s.State != browsingState(e.Kind) {
			return s, render(NoticeView{Notice: NoticeStale})
		}
		return s, []Effect{LoadDetail{Kind: e.Kind, ID: e.ID}}

	case BookQuest:
		return s, []Effect{SubmitBooking{QuestID: e.ID}}

	case AddReview:
		if s.State != StateBrowsingReviews {
			return s, m.rerender(s)
		}
		return s, []Effect{LoadQuestChoices{}}

	case QuestPicked:
		if s.State != StateReviewSelectQuest || s.Draft == nil {
			return s, render(NoticeView{Notice: NoticeStale})
		}
		draft := *s.Draft
		draft.QuestID = e.ID
		s.Draft = &draft
		s.State = StateReviewEnterRating
		return s, render(PromptView{Prompt: PromptRating})

	case FreeText:
		return m.stepFreeText(s, e)

	case ParticipantResolved:
		if e.Err != nil {
			return s, render(NoticeView{Notice: NoticeRegistrationError})
		}
		next := Session{State: StateRoot, Registered: true}
		greeting := GreetingWelcomeBack
		if e.New {
			greeting = GreetingRegistered
		}
		return next, render(MainMenuView{Greeting: greeting})

	case FilterOptionsLoaded:
		if e.Err != nil || len(e.Options) == 0 {
			return s, render(NoticeView{Notice: NoticeGatewayError})
		}
		s.State = sectionBrowsingState(e.Section)
		s.List = nil
		s.Text = nil
		s.Draft = nil
		return s, render(FilterPromptView{Section: e.Section, Options: e.Options})

	case ListLoaded:
		return m.stepListLoaded(s, e)

	case DetailLoaded:
		return m.stepDetailLoaded(s, e)

	case QuestChoicesLoaded:
		if e.Err != nil || len(e.Options) == 0 {
			return s, render(NoticeView{Notice: NoticeGatewayError})
		}
		s.State = StateReviewSelectQuest
		s.Draft = &ReviewDraft{}
		return s, render(QuestPickerView{Options: e.Options})

	case BookingSubmitted:
		if e.Err != nil {
			return s, render(NoticeView{Notice: NoticeBookingError})
		}
		return s, render(NoticeView{Notice: NoticeBookingOK})

	case ReviewSubmitted:
		if e.Err != nil {
			return s, render(NoticeView{Notice: NoticeReviewError})
		}
		return s.reset(), []Effect{
			Render{View: NoticeView{Notice: NoticeReviewOK}},
			Render{View: MainMenuView{Greeting: GreetingNext}},
		}

	case QuestionSubmitted:
		if e.Err != nil {
			return s, render(NoticeView{Notice: NoticeQuestionError})
		}
		return s.reset(), []Effect{
			Render{View: NoticeView{Notice: NoticeQuestionOK}},
			Render{View: MainMenuView{Greeting: GreetingNext}},
		}
	}

	return s, m.rerender(s)
}

// stepMenuSelect starts a section. The browsing state is entered only
// once the section's first fetch succeeds; support needs no fetch and
// transitions immediately.
func (m *Machine) stepMenuSelect(s Session, e MenuSelect) (Session, []Effect) {
	if s.State != StateRoot {
		return s, m.rerender(s)
	}
	switch e.Section {
	case SectionSupport:
		s = s.reset()
		s.State = StateAwaitingSupportMessage
		return s, render(PromptView{Prompt: PromptSupport})
	case SectionGuides:
		return s, []Effect{LoadList{Kind: KindGuide}}
	case SectionCities, SectionQuests, SectionLocations, SectionReviews:
		return s, []Effect{LoadFilterOptions{Section: e.Section}}
	}
	return s, m.rerender(s)
}

func (m *Machine) stepFreeText(s Session, e FreeText) (Session, []Effect) {
	body := strings.TrimSpace(e.Body)

	switch s.State {
	case StateAwaitingSupportMessage:
		if body == "" {
			return s, render(PromptView{Prompt: PromptSupport})
		}
		return s, []Effect{SubmitQuestion{Text: body}}

	case StateReviewEnterRating:
		if s.Draft == nil {
			return s, render(NoticeView{Notice: NoticeStale})
		}
		rating, err := strconv.Atoi(body)
		if err != nil {
			return s, render(PromptView{Prompt: PromptRatingNumber})
		}
		if rating < 1 || rating > 5 {
			return s, render(PromptView{Prompt: PromptRatingRange})
		}
		draft := *s.Draft
		draft.Rating = rating
		s.Draft = &draft
		s.State = StateReviewEnterComment
		return s, render(PromptView{Prompt: PromptComment})

	case StateReviewEnterComment:
		if s.Draft == nil {
			return s, render(NoticeView{Notice: NoticeStale})
		}
		if body == "" {
			return s, render(PromptView{Prompt: PromptComment})
		}
		return s, []Effect{SubmitReview{
			QuestID: s.Draft.QuestID,
			Rating:  s.Draft.Rating,
			Comment: body,
		}}
	}

	return s, m.rerender(s)
}

func (m *Machine) stepListLoaded(s Session, e ListLoaded) (Session, []Effect) {
	if e.Err != nil {
		if errors.Is(e.Err, ErrFilterUnmatched) {
			return s, render(NoticeView{Notice: NoticeCityNotFound})
		}
		return s, render(NoticeView{Notice: NoticeGatewayError})
	}

	s.State = browsingState(e.Kind)
	s.Text = nil
	if len(e.Items) == 0 {
		s.List = nil
		return s, render(NoticeView{Notice: NoticeEmptyList})
	}

	pages := pager.Items(e.Items, m.PageSize)
	s.List = &ListContext{Kind: e.Kind, Pages: pages}
	return s, render(ListPageView{
		Kind:  e.Kind,
		Items: pages[0],
		Page:  0,
		Pages: len(pages),
	})
}

func (m *Machine) stepDetailLoaded(s Session, e DetailLoaded) (Session, []Effect) {
	if e.Err != nil {
		return s, render(NoticeView{Notice: NoticeGatewayError})
	}

	// Guides and reviews fit one card; the rest paginate their description.
	switch e.Kind {
	case KindGuide, KindReview:
		return s, render(CardView{Kind: e.Kind, Text: e.Body})
	}

	chunks := pager.Text(e.Body, m.ChunkSize)
	s.Text = &TextContext{Title: e.Title, Chunks: chunks}
	effects := render(TextPageView{
		Title: e.Title,
		Chunk: chunks[0],
		Page:  0,
		Pages: len(chunks),
	})
	if e.Kind == KindQuest {
		effects = append(effects, Render{View: QuestActionsView{QuestID: e.ID}})
	}
	return s, effects
}

// rerender rebuilds the current view for inputs that do not apply.
func (m *Machine) rerender(s Session) []Effect {
	switch {
	case s.List != nil:
		return render(ListPageView{
			Kind:  s.List.Kind,
			Items: s.List.Pages[s.List.Page],
			Page:  s.List.Page,
			Pages: len(s.List.Pages),
		})
	case s.Text != nil:
		return render(TextPageView{
			Title: s.Text.Title,
			Chunk: s.Text.Chunks[s.Text.Page],
			Page:  s.Text.Page,
			Pages: len(s.Text.Chunks),
		})
	case s.State == StateAwaitingSupportMessage:
		return render(PromptView{Prompt: PromptSupport})
	case s.State == StateReviewEnterRating:
		return render(PromptView{Prompt: PromptRating})
	case s.State == StateReviewEnterComment:
		return render(PromptView{Prompt: PromptComment})
	}
	return render(MainMenuView{Greeting: GreetingNext})
}

func render(v View) []Effect {
	return []Effect{Render{View: v}}
}
