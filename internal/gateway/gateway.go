// Package gateway talks to the remote content API. The rest of the bot
// depends only on the Content capability interface so the state machine
// stays free of network concerns.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderquest/questbot/internal/domain"
)

// ErrNotFound reports a missing entity (HTTP 404). Only first-contact
// participant lookup distinguishes it; everywhere else callers treat it
// like any other gateway failure.
var ErrNotFound = errors.New("gateway: not found")

// StatusError reports a non-2xx response from the content API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: %s %s: status %d", e.Method, e.Path, e.Code)
}

// CityFilter narrows city listings.
type CityFilter struct {
	Country string
}

// QuestFilter narrows quest listings.
type QuestFilter struct {
	CityID int64
}

// LocationFilter narrows location listings.
type LocationFilter struct {
	CityID int64
}

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	QuestID int64
}

// Content is the capability surface the bot core depends on. Every call
// applies a bounded timeout and reports transport errors and non-2xx
// statuses as ordinary errors.
type Content interface {
	FindParticipantByTelegramID(ctx context.Context, telegramID int64) (domain.Participant, error)
	RegisterParticipant(ctx context.Context, req domain.RegisterParticipantRequest) (domain.Participant, error)
	GetParticipant(ctx context.Context, id int64) (domain.Participant, error)

	ListCities(ctx context.Context, filter CityFilter) ([]domain.City, error)
	ListQuests(ctx context.Context, filter QuestFilter) ([]domain.Quest, error)
	ListLocations(ctx context.Context, filter LocationFilter) ([]domain.Location, error)
	ListGuides(ctx context.Context) ([]domain.Guide, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]domain.Review, error)

	GetCity(ctx context.Context, id int64) (domain.City, error)
	GetQuest(ctx context.Context, id int64) (domain.Quest, error)
	GetLocation(ctx context.Context, id int64) (domain.Location, error)
	GetGuide(ctx context.Context, id int64) (domain.Guide, error)
	GetReview(ctx context.Context, id int64) (domain.Review, error)

	CreateBooking(ctx context.Context, req domain.BookingRequest) error
	CreateReview(ctx context.Context, req domain.ReviewRequest) error
	CreateQuestion(ctx context.Context, req domain.QuestionRequest) error
}
