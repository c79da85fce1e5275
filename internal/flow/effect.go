package flow

// Effect is an instruction the machine hands back to its caller. Gateway
// effects resolve into result events on the next Step; Render effects go
// straight to the chat.
type Effect interface {
	isEffect()
}

// EnsureParticipant resolves or registers the current Telegram user.
type EnsureParticipant struct {
	FirstName string
	LastName  string
}

// LoadFilterOptions fetches the values for a section's filter prompt.
type LoadFilterOptions struct {
	Section Section
}

// LoadList fetches a filtered entity list. Filter carries the raw chosen
// value ("" for all); the executor resolves it per kind.
type LoadList struct {
	Kind   Kind
	Filter string
}

// LoadDetail fetches one entity and formats its detail text.
type LoadDetail struct {
	Kind Kind
	ID   int64
}

// LoadQuestChoices fetches the quests a review can be written about.
type LoadQuestChoices struct{}

// SubmitBooking enrolls the user into a quest.
type SubmitBooking struct {
	QuestID int64
}

// SubmitReview publishes a finished review draft.
type SubmitReview struct {
	QuestID int64
	Rating  int
	Comment string
}

// SubmitQuestion forwards a support question.
type SubmitQuestion struct {
	Text string
}

// Render emits a view to the chat.
type Render struct {
	View View
}

func (EnsureParticipant) isEffect() {}
func (LoadFilterOptions) isEffect() {}
func (LoadList) isEffect()          {}
func (LoadDetail) isEffect()        {}
func (LoadQuestChoices) isEffect()  {}
func (SubmitBooking) isEffect()     {}
func (SubmitReview) isEffect()      {}
func (SubmitQuestion) isEffect()    {}
func (Render) isEffect()            {}

// --- views ----------------------------------------------------------------

// View describes what to show; the bot layer owns wording and keyboards.
type View interface {
	isView()
}

// Greeting selects the main menu header line.
type Greeting string

const (
	GreetingWelcomeBack Greeting = "welcome_back"
	GreetingRegistered  Greeting = "registered"
	GreetingHome        Greeting = "home"
	GreetingNext        Greeting = "next"
)

// FilterOption is one selectable filter value. Value travels inside the
// callback token; Label is what the button shows.
type FilterOption struct {
	Value string
	Label string
}

// MainMenuView shows the six-section main menu.
type MainMenuView struct {
	Greeting Greeting
}

// FilterPromptView offers the filter values for a section, plus "all".
type FilterPromptView struct {
	Section Section
	Options []FilterOption
}

// ListPageView shows one page of an entity list.
type ListPageView struct {
	Kind  Kind
	Items []Item
	Page  int
	Pages int
	// Edit asks for an in-place message edit instead of a new message.
	Edit bool
}

// TextPageView shows one chunk of a paginated description.
type TextPageView struct {
	Title string
	Chunk string
	Page  int
	Pages int
	Edit  bool
}

// QuestActionsView offers booking and navigation under a quest detail.
type QuestActionsView struct {
	QuestID int64
}

// CardView shows a short, unpaginated detail card (guides, reviews).
type CardView struct {
	Kind Kind
	Text string
}

// QuestPickerView offers the quests a new review can target.
type QuestPickerView struct {
	Options []FilterOption
}

// Prompt identifies a free-text input request.
type Prompt string

const (
	PromptSupport      Prompt = "support"
	PromptRating       Prompt = "rating"
	PromptRatingRange  Prompt = "rating_range"
	PromptRatingNumber Prompt = "rating_number"
	PromptComment      Prompt = "comment"
)

// PromptView asks the user to type something.
type PromptView struct {
	Prompt Prompt
}

// Notice identifies a one-line outcome message.
type Notice string

const (
	NoticeGatewayError      Notice = "gateway_error"
	NoticeRegistrationError Notice = "registration_error"
	NoticeBookingOK         Notice = "booking_ok"
	NoticeBookingError      Notice = "booking_error"
	NoticeReviewOK          Notice = "review_ok"
	NoticeReviewError       Notice = "review_error"
	NoticeQuestionOK        Notice = "question_ok"
	NoticeQuestionError     Notice = "question_error"
	NoticeEmptyList         Notice = "empty_list"
	NoticeStale             Notice = "stale"
	NoticeCityNotFound      Notice = "city_not_found"
)

// NoticeView shows a one-line outcome message.
type NoticeView struct {
	Notice Notice
}

func (MainMenuView) isView()     {}
func (FilterPromptView) isView() {}
func (ListPageView) isView()     {}
func (TextPageView) isView()     {}
func (QuestActionsView) isView() {}
func (CardView) isView()         {}
func (QuestPickerView) isView()  {}
func (PromptView) isView()       {}
func (NoticeView) isView()       {}
