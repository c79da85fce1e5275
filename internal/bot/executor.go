package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/wanderquest/questbot/core/logger"
	"github.com/wanderquest/questbot/internal/domain"
	"github.com/wanderquest/questbot/internal/flow"
	"github.com/wanderquest/questbot/internal/gateway"
	"log/slog"
)

// Executor resolves gateway effects into result events. It owns every
// content API round trip the state machine asks for; the machine itself
// never touches the network.
type Executor struct {
	content gateway.Content
}

// NewExecutor builds an executor over the content gateway.
func NewExecutor(content gateway.Content) *Executor {
	return &Executor{content: content}
}

// Resolve executes one gateway effect on behalf of a Telegram user and
// returns the result event to feed back into the machine. Render effects
// are not resolved here and report false.
func (e *Executor) Resolve(ctx context.Context, userID int64, eff flow.Effect) (flow.Event, bool) {
	switch ef := eff.(type) {
	case flow.EnsureParticipant:
		return e.ensureParticipant(ctx, userID, ef), true
	case flow.LoadFilterOptions:
		return e.loadFilterOptions(ctx, ef.Section), true
	case flow.LoadList:
		return e.loadList(ctx, ef), true
	case flow.LoadDetail:
		return e.loadDetail(ctx, ef), true
	case flow.LoadQuestChoices:
		return e.loadQuestChoices(ctx), true
	case flow.SubmitBooking:
		return flow.BookingSubmitted{Err: e.submitBooking(ctx, userID, ef)}, true
	case flow.SubmitReview:
		return flow.ReviewSubmitted{Err: e.submitReview(ctx, userID, ef)}, true
	case flow.SubmitQuestion:
		return flow.QuestionSubmitted{Err: e.submitQuestion(ctx, userID, ef)}, true
	}
	return nil, false
}

func (e *Executor) ensureParticipant(ctx context.Context, userID int64, ef flow.EnsureParticipant) flow.ParticipantResolved {
	p, err := e.content.FindParticipantByTelegramID(ctx, userID)
	if err == nil {
		return flow.ParticipantResolved{ID: p.ParticipantID}
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return flow.ParticipantResolved{Err: err}
	}

	p, err = e.content.RegisterParticipant(ctx, domain.RegisterParticipantRequest{
		FirstName:      ef.FirstName,
		LastName:       ef.LastName,
		TelegramUserID: userID,
	})
	if err != nil {
		return flow.ParticipantResolved{Err: err}
	}
	logger.Info(ctx, "gw", "participant.registered",
		slog.Int64("participant_id", p.ParticipantID),
	)
	return flow.ParticipantResolved{ID: p.ParticipantID, New: true}
}

func (e *Executor) loadFilterOptions(ctx context.Context, sec flow.Section) flow.FilterOptionsLoaded {
	switch sec {
	case flow.SectionCities:
		values, err := e.uniqueCityField(ctx, func(c domain.City) string { return c.Country })
		return flow.FilterOptionsLoaded{Section: sec, Options: values, Err: err}
	case flow.SectionQuests, flow.SectionLocations:
		values, err := e.uniqueCityField(ctx, func(c domain.City) string { return c.CityName })
		return flow.FilterOptionsLoaded{Section: sec, Options: values, Err: err}
	case flow.SectionReviews:
		options, err := e.questOptions(ctx)
		return flow.FilterOptionsLoaded{Section: sec, Options: options, Err: err}
	}
	return flow.FilterOptionsLoaded{Section: sec, Err: fmt.Errorf("bot: no filter options for section %q", sec)}
}

// uniqueCityField collects distinct values of one city attribute, sorted
// so the keyboard is stable between fetches.
func (e *Executor) uniqueCityField(ctx context.Context, field func(domain.City) string) ([]flow.FilterOption, error) {
	cities, err := e.content.ListCities(ctx, gateway.CityFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(cities))
	values := make([]string, 0, len(cities))
	for _, c := range cities {
		v := field(c)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)

	options := make([]flow.FilterOption, 0, len(values))
	for _, v := range values {
		options = append(options, flow.FilterOption{Value: v, Label: v})
	}
	return options, nil
}

func (e *Executor) questOptions(ctx context.Context) ([]flow.FilterOption, error) {
	quests, err := e.content.ListQuests(ctx, gateway.QuestFilter{})
	if err != nil {
		return nil, err
	}
	options := make([]flow.FilterOption, 0, len(quests))
	for _, q := range quests {
		options = append(options, flow.FilterOption{
			Value: strconv.FormatInt(q.QuestID, 10),
			Label: q.QuestName,
		})
	}
	return options, nil
}

func (e *Executor) loadQuestChoices(ctx context.Context) flow.QuestChoicesLoaded {
	options, err := e.questOptions(ctx)
	return flow.QuestChoicesLoaded{Options: options, Err: err}
}

func (e *Executor) loadList(ctx context.Context, ef flow.LoadList) flow.ListLoaded {
	items, err := e.fetchList(ctx, ef.Kind, ef.Filter)
	return flow.ListLoaded{Kind: ef.Kind, Items: items, Err: err}
}

func (e *Executor) fetchList(ctx context.Context, kind flow.Kind, filter string) ([]flow.Item, error) {
	switch kind {
	case flow.KindCity:
		cities, err := e.content.ListCities(ctx, gateway.CityFilter{Country: filter})
		if err != nil {
			return nil, err
		}
		items := make([]flow.Item, 0, len(cities))
		for _, c := range cities {
			items = append(items, flow.Item{ID: c.CityID, Label: c.CityName})
		}
		return items, nil

	case flow.KindQuest:
		var qf gateway.QuestFilter
		if filter != "" {
			cityID, err := e.resolveCityID(ctx, filter)
			if err != nil {
				return nil, err
			}
			qf.CityID = cityID
		}
		quests, err := e.content.ListQuests(ctx, qf)
		if err != nil {
			return nil, err
		}
		items := make([]flow.Item, 0, len(quests))
		for _, q := range quests {
			items = append(items, flow.Item{ID: q.QuestID, Label: q.QuestName})
		}
		return items, nil

	case flow.KindLocation:
		var lf gateway.LocationFilter
		if filter != "" {
			cityID, err := e.resolveCityID(ctx, filter)
			if err != nil {
				return nil, err
			}
			lf.CityID = cityID
		}
		locations, err := e.content.ListLocations(ctx, lf)
		if err != nil {
			return nil, err
		}
		items := make([]flow.Item, 0, len(locations))
		for _, l := range locations {
			items = append(items, flow.Item{ID: l.LocationID, Label: l.LocationName})
		}
		return items, nil

	case flow.KindGuide:
		guides, err := e.content.ListGuides(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]flow.Item, 0, len(guides))
		for _, g := range guides {
			items = append(items, flow.Item{ID: g.GuideID, Label: g.FirstName + " " + g.LastName})
		}
		return items, nil

	case flow.KindReview:
		var rf gateway.ReviewFilter
		if filter != "" {
			questID, err := strconv.ParseInt(filter, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bot: bad quest filter %q: %w", filter, err)
			}
			rf.QuestID = questID
		}
		reviews, err := e.content.ListReviews(ctx, rf)
		if err != nil {
			return nil, err
		}
		items := make([]flow.Item, 0, len(reviews))
		for _, r := range reviews {
			items = append(items, flow.Item{
				ID:    r.ReviewID,
				Label: fmt.Sprintf("%s (Рейтинг: %d)", r.Comment, r.Rating),
			})
		}
		return items, nil
	}
	return nil, fmt.Errorf("bot: unknown list kind %q", kind)
}

// resolveCityID maps a chosen city name onto its id. Filter values carry
// names, the API filters by id.
func (e *Executor) resolveCityID(ctx context.Context, name string) (int64, error) {
	cities, err := e.content.ListCities(ctx, gateway.CityFilter{})
	if err != nil {
		return 0, err
	}
	for _, c := range cities {
		if c.CityName == name {
			return c.CityID, nil
		}
	}
	return 0, fmt.Errorf("%w: city %q", flow.ErrFilterUnmatched, name)
}

func (e *Executor) loadDetail(ctx context.Context, ef flow.LoadDetail) flow.DetailLoaded {
	out := flow.DetailLoaded{Kind: ef.Kind, ID: ef.ID}
	switch ef.Kind {
	case flow.KindCity:
		city, err := e.content.GetCity(ctx, ef.ID)
		out.Title, out.Body, out.Err = city.CityName, city.Description, err
	case flow.KindQuest:
		quest, err := e.content.GetQuest(ctx, ef.ID)
		out.Title, out.Body, out.Err = quest.QuestName, quest.Description, err
	case flow.KindLocation:
		loc, err := e.content.GetLocation(ctx, ef.ID)
		out.Title, out.Body, out.Err = loc.LocationName, loc.Description, err
	case flow.KindGuide:
		guide, err := e.content.GetGuide(ctx, ef.ID)
		if err != nil {
			out.Err = err
			break
		}
		out.Title = guide.FirstName + " " + guide.LastName
		out.Body = fmt.Sprintf(
			"Имя: %s\nФамилия: %s\nТелефон: %s\nEmail: %s\nОпыт: %d лет",
			guide.FirstName, guide.LastName, guide.Phone, guide.Email, guide.Experience,
		)
	case flow.KindReview:
		out = e.loadReviewDetail(ctx, ef.ID)
	default:
		out.Err = fmt.Errorf("bot: unknown detail kind %q", ef.Kind)
	}
	return out
}

// loadReviewDetail assembles the review card from three entities: the
// review itself, its author and the quest it is about.
func (e *Executor) loadReviewDetail(ctx context.Context, id int64) flow.DetailLoaded {
	out := flow.DetailLoaded{Kind: flow.KindReview, ID: id}

	review, err := e.content.GetReview(ctx, id)
	if err != nil {
		out.Err = err
		return out
	}
	participant, err := e.content.GetParticipant(ctx, review.ParticipantID)
	if err != nil {
		out.Err = err
		return out
	}
	quest, err := e.content.GetQuest(ctx, review.QuestID)
	if err != nil {
		out.Err = err
		return out
	}

	out.Title = quest.QuestName
	out.Body = fmt.Sprintf(
		"Отзыв от: %s %s\nКвест: %s\nРейтинг: %d\nКомментарий: %s\nДата: %s",
		participant.FirstName, participant.LastName,
		quest.QuestName, review.Rating, review.Comment, review.ReviewDate,
	)
	return out
}

// participantID resolves the caller to a registered participant. Writes
// always re-resolve rather than trusting session state; registration may
// have happened from another device.
func (e *Executor) participantID(ctx context.Context, userID int64) (int64, error) {
	p, err := e.content.FindParticipantByTelegramID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return p.ParticipantID, nil
}

func (e *Executor) submitBooking(ctx context.Context, userID int64, ef flow.SubmitBooking) error {
	participantID, err := e.participantID(ctx, userID)
	if err != nil {
		return err
	}
	return e.content.CreateBooking(ctx, domain.BookingRequest{
		QuestID:       ef.QuestID,
		ParticipantID: participantID,
	})
}

func (e *Executor) submitReview(ctx context.Context, userID int64, ef flow.SubmitReview) error {
	participantID, err := e.participantID(ctx, userID)
	if err != nil {
		return err
	}
	return e.content.CreateReview(ctx, domain.ReviewRequest{
		QuestID:       ef.QuestID,
		ParticipantID: participantID,
		Rating:        ef.Rating,
		Comment:       ef.Comment,
	})
}

func (e *Executor) submitQuestion(ctx context.Context, userID int64, ef flow.SubmitQuestion) error {
	participantID, err := e.participantID(ctx, userID)
	if err != nil {
		return err
	}
	return e.content.CreateQuestion(ctx, domain.QuestionRequest{
		ParticipantID: participantID,
		QuestionText:  ef.Text,
	})
}
