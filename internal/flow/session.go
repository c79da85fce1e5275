package flow

// Item is a compact reference to a listed entity: enough to render a
// button and to build the selection token.
type Item struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// ListContext is the pagination state of the entity list being browsed.
// Pages are recomputed from scratch on every filter change, never mutated.
type ListContext struct {
	Kind  Kind     `json:"kind"`
	Pages [][]Item `json:"pages"`
	Page  int      `json:"page"`
}

// TextContext is the pagination state of a long entity description.
// Page edits anchor on the callback's own message, so no message id is
// tracked here.
type TextContext struct {
	Title  string   `json:"title"`
	Chunks []string `json:"chunks"`
	Page   int      `json:"page"`
}

// ReviewDraft accumulates the review-authoring sub-flow fields. It is only
// populated while the session is in one of the review authoring states.
type ReviewDraft struct {
	QuestID int64 `json:"quest_id"`
	Rating  int   `json:"rating"`
}

// Session is the per-user conversation state. The invariant
// 0 <= List.Page < len(List.Pages) holds whenever List is set, and
// likewise for Text.
type Session struct {
	State      State        `json:"state"`
	Registered bool         `json:"registered"`
	List       *ListContext `json:"list,omitempty"`
	Text       *TextContext `json:"text,omitempty"`
	Draft      *ReviewDraft `json:"draft,omitempty"`
}

// NewSession returns the default session: main menu, empty context.
func NewSession() Session {
	return Session{State: StateRoot}
}

// reset returns the session to the main menu with empty context,
// keeping only the first-contact marker.
func (s Session) reset() Session {
	return Session{State: StateRoot, Registered: s.Registered}
}
