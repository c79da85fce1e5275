package flow

import "errors"

// ErrFilterUnmatched reports a filter value that resolved to no entity,
// such as a city name the content API does not know.
var ErrFilterUnmatched = errors.New("flow: filter value unmatched")

// Event is a typed input to the machine. Inbound events come from parsed
// Telegram updates; result events are produced by the effect executor
// after a gateway call finishes.
type Event interface {
	isEvent()
}

// --- inbound events -------------------------------------------------------

// Start is the /start command.
type Start struct {
	FirstName string
	LastName  string
}

// Home returns to the main menu from any state.
type Home struct{}

// MenuSelect picks a main menu section.
type MenuSelect struct {
	Section Section
}

// FilterChosen picks a filter value for the section being browsed.
// An empty Value means "show all".
type FilterChosen struct {
	Kind  Kind
	Value string
}

// PageNav moves through a list, one page per press.
type PageNav struct {
	Kind  Kind
	Delta int
}

// TextPageNav moves through a paginated description.
type TextPageNav struct {
	Delta int
}

// ItemSelected opens an entity's detail view.
type ItemSelected struct {
	Kind Kind
	ID   int64
}

// BookQuest books the quest from its detail view.
type BookQuest struct {
	ID int64
}

// AddReview starts the review authoring sub-flow.
type AddReview struct{}

// QuestPicked selects the quest a new review is about.
type QuestPicked struct {
	ID int64
}

// FreeText is a plain text message; its meaning depends on the state.
type FreeText struct {
	Body string
}

func (Start) isEvent()        {}
func (Home) isEvent()         {}
func (MenuSelect) isEvent()   {}
func (FilterChosen) isEvent() {}
func (PageNav) isEvent()      {}
func (TextPageNav) isEvent()  {}
func (ItemSelected) isEvent() {}
func (BookQuest) isEvent()    {}
func (AddReview) isEvent()    {}
func (QuestPicked) isEvent()  {}
func (FreeText) isEvent()     {}

// --- result events --------------------------------------------------------

// ParticipantResolved reports the outcome of EnsureParticipant.
type ParticipantResolved struct {
	ID  int64
	New bool
	Err error
}

// FilterOptionsLoaded carries the values offered on a filter prompt.
type FilterOptionsLoaded struct {
	Section Section
	Options []FilterOption
	Err     error
}

// ListLoaded carries a fetched entity list, already reduced to items.
type ListLoaded struct {
	Kind  Kind
	Items []Item
	Err   error
}

// DetailLoaded carries one entity's rendered detail text.
type DetailLoaded struct {
	Kind  Kind
	ID    int64
	Title string
	Body  string
	Err   error
}

// QuestChoicesLoaded carries the quests offered to a review author.
type QuestChoicesLoaded struct {
	Options []FilterOption
	Err     error
}

// BookingSubmitted reports the outcome of SubmitBooking.
type BookingSubmitted struct {
	Err error
}

// ReviewSubmitted reports the outcome of SubmitReview.
type ReviewSubmitted struct {
	Err error
}

// QuestionSubmitted reports the outcome of SubmitQuestion.
type QuestionSubmitted struct {
	Err error
}

func (ParticipantResolved) isEvent() {}
func (FilterOptionsLoaded) isEvent() {}
func (ListLoaded) isEvent()          {}
func (DetailLoaded) isEvent()        {}
func (QuestChoicesLoaded) isEvent()  {}
func (BookingSubmitted) isEvent()    {}
func (ReviewSubmitted) isEvent()     {}
func (QuestionSubmitted) isEvent()   {}
