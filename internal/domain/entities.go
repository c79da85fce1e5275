// Package domain defines the content entities exchanged with the remote
// content API. Field names mirror the API's JSON payloads exactly and are
// round-tripped without interpretation.
package domain

// Participant is a registered bot user on the content API side.
type Participant struct {
	ParticipantID  int64  `json:"ParticipantID"`
	FirstName      string `json:"FirstName"`
	LastName       string `json:"LastName"`
	TelegramUserID int64  `json:"TelegramUserID"`
}

// City is a touristic city with a long-form description.
type City struct {
	CityID      int64  `json:"CityID"`
	CityName    string `json:"CityName"`
	Country     string `json:"Country"`
	Description string `json:"Description"`
}

// Quest is a bookable city quest.
type Quest struct {
	QuestID     int64  `json:"QuestID"`
	QuestName   string `json:"QuestName"`
	CityID      int64  `json:"CityID"`
	Description string `json:"Description"`
}

// Location is a point of interest inside a city.
type Location struct {
	LocationID   int64  `json:"LocationID"`
	LocationName string `json:"LocationName"`
	CityID       int64  `json:"CityID"`
	Description  string `json:"Description"`
}

// Guide leads quests.
type Guide struct {
	GuideID    int64  `json:"GuideID"`
	FirstName  string `json:"FirstName"`
	LastName   string `json:"LastName"`
	Phone      string `json:"Phone"`
	Email      string `json:"Email"`
	Experience int    `json:"Experience"`
}

// Review is a participant's rating of a quest.
type Review struct {
	ReviewID      int64  `json:"ReviewID"`
	QuestID       int64  `json:"QuestID"`
	ParticipantID int64  `json:"ParticipantID"`
	Rating        int    `json:"Rating"`
	Comment       string `json:"Comment"`
	ReviewDate    string `json:"ReviewDate"`
}

// RegisterParticipantRequest captures the fields sent on first contact.
type RegisterParticipantRequest struct {
	FirstName      string `json:"FirstName"`
	LastName       string `json:"LastName"`
	TelegramUserID int64  `json:"TelegramUserID"`
}

// BookingRequest enrolls a participant into a quest.
type BookingRequest struct {
	QuestID       int64 `json:"QuestID"`
	ParticipantID int64 `json:"ParticipantID"`
}

// ReviewRequest submits a new review for a quest.
type ReviewRequest struct {
	QuestID       int64  `json:"QuestID"`
	ParticipantID int64  `json:"ParticipantID"`
	Rating        int    `json:"Rating"`
	Comment       string `json:"Comment"`
}

// QuestionRequest submits a support question.
type QuestionRequest struct {
	ParticipantID int64  `json:"ParticipantID"`
	QuestionText  string `json:"QuestionText"`
}
