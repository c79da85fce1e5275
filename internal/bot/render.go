package bot

import (
	"fmt"

	"github.com/wanderquest/questbot/core/telegram/keyboard"
	"github.com/wanderquest/questbot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// User-facing texts. The wording is part of the bot's contract with its
// audience; change with care.
const (
	textGreetingHome        = "🏠 Вы вернулись в главное меню."
	textGreetingWelcomeBack = "👋 Добро пожаловать обратно! Выберите действие:"
	textGreetingRegistered  = "🎉 Добро пожаловать! Вы были успешно зарегистрированы. Выберите действие:"
	textGreetingNext        = "🏠 Выберите следующее действие:"

	textQuestActions = "Выберите действие:"
	textQuestPicker  = "📝 Выберите квест, для которого хотите оставить отзыв:"

	textPromptSupport      = "📩 Напишите ваш вопрос:"
	textPromptRating       = "📊 Введите рейтинг от 1 до 5:"
	textPromptRatingRange  = "📊 Рейтинг должен быть от 1 до 5. Попробуйте ещё раз."
	textPromptRatingNumber = "📊 Пожалуйста, введите число от 1 до 5."
	textPromptComment      = "📝 Введите комментарий к отзыву:"

	textNoticeGatewayError      = "❌ Произошла ошибка. Попробуйте позже."
	textNoticeRegistrationError = "❌ Произошла ошибка при регистрации. Попробуйте позже."
	textNoticeBookingOK         = "✅ Вы успешно записаны на квест!"
	textNoticeBookingError      = "❌ Произошла ошибка при записи на квест. Попробуйте позже."
	textNoticeReviewOK          = "✅ Отзыв успешно добавлен!"
	textNoticeReviewError       = "❌ Произошла ошибка при добавлении отзыва. Попробуйте позже."
	textNoticeQuestionOK        = "📩 Спасибо за ваш вопрос! Мы свяжемся с вами в ближайшее время."
	textNoticeQuestionError     = "❌ Произошла ошибка при отправке вопроса. Попробуйте позже."
	textNoticeEmptyList         = "🤷 Ничего не найдено. Попробуйте другой фильтр."
	textNoticeStale             = "❌ Данные недоступны. Попробуйте ещё раз."
	textNoticeCityNotFound      = "❌ Город не найден."

	textBtnHome      = "🏠 Назад в главное меню"
	textBtnPrev      = "⬅️ Назад"
	textBtnNext      = "Вперед ➡️"
	textBtnBook      = "📝 Записаться на квест"
	textBtnAddReview = "📝 Добавить отзыв"
)

// sectionPrompt introduces a section's filter keyboard.
var sectionPrompt = map[flow.Section]string{
	flow.SectionCities:    "🌍 Выберите страну для фильтрации городов:",
	flow.SectionQuests:    "🔍 Выберите город для фильтрации квестов:",
	flow.SectionLocations: "📍 Выберите город для фильтрации локаций:",
	flow.SectionReviews:   "📝 Выберите квест для фильтрации отзывов или добавьте новый отзыв:",
}

// sectionAllLabel captions the unfiltered choice.
var sectionAllLabel = map[flow.Section]string{
	flow.SectionCities:    "🌍 Показать все города",
	flow.SectionQuests:    "🌍 Показать все квесты",
	flow.SectionLocations: "🌍 Показать все локации",
	flow.SectionReviews:   "🌍 Показать все отзывы",
}

// sectionFilterPrefix is the callback prefix carrying a chosen filter value.
var sectionFilterPrefix = map[flow.Section]string{
	flow.SectionCities:    prefixCountry,
	flow.SectionQuests:    prefixQuestCity,
	flow.SectionLocations: prefixLocationCity,
	flow.SectionReviews:   prefixReviewQuest,
}

var greetingText = map[flow.Greeting]string{
	flow.GreetingHome:        textGreetingHome,
	flow.GreetingWelcomeBack: textGreetingWelcomeBack,
	flow.GreetingRegistered:  textGreetingRegistered,
	flow.GreetingNext:        textGreetingNext,
}

var noticeText = map[flow.Notice]string{
	flow.NoticeGatewayError:      textNoticeGatewayError,
	flow.NoticeRegistrationError: textNoticeRegistrationError,
	flow.NoticeBookingOK:         textNoticeBookingOK,
	flow.NoticeBookingError:      textNoticeBookingError,
	flow.NoticeReviewOK:          textNoticeReviewOK,
	flow.NoticeReviewError:       textNoticeReviewError,
	flow.NoticeQuestionOK:        textNoticeQuestionOK,
	flow.NoticeQuestionError:     textNoticeQuestionError,
	flow.NoticeEmptyList:         textNoticeEmptyList,
	flow.NoticeStale:             textNoticeStale,
	flow.NoticeCityNotFound:      textNoticeCityNotFound,
}

var promptText = map[flow.Prompt]string{
	flow.PromptSupport:      textPromptSupport,
	flow.PromptRating:       textPromptRating,
	flow.PromptRatingRange:  textPromptRatingRange,
	flow.PromptRatingNumber: textPromptRatingNumber,
	flow.PromptComment:      textPromptComment,
}

// mainMenuMarkup is the persistent reply keyboard with the six sections.
func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{"🏙️ Города", "🔍 Квесты", "📍 Локации"},
		[]string{"👤 Гиды", "📝 Отзывы", "🆘 Поддержка"},
	)
}

func homeButton() keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: textBtnHome, Data: tokenHome}
}

func homeMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{homeButton()})
}

// outgoing is a rendered view ready for delivery.
type outgoing struct {
	text   string
	markup *tele.ReplyMarkup
	edit   bool
}

// renderView maps a view to its text and keyboard.
func renderView(v flow.View) outgoing {
	switch view := v.(type) {
	case flow.MainMenuView:
		return outgoing{text: greetingText[view.Greeting], markup: mainMenuMarkup()}

	case flow.FilterPromptView:
		prefix := sectionFilterPrefix[view.Section]
		buttons := make([]keyboard.InlineBtn, 0, len(view.Options)+2)
		for _, opt := range view.Options {
			buttons = append(buttons, keyboard.InlineBtn{Text: opt.Label, Data: prefix + opt.Value})
		}
		buttons = append(buttons, keyboard.InlineBtn{Text: sectionAllLabel[view.Section], Data: prefix + filterAll})
		if view.Section == flow.SectionReviews {
			buttons = append(buttons, keyboard.InlineBtn{Text: textBtnAddReview, Data: tokenAddReview})
		}
		return outgoing{text: sectionPrompt[view.Section], markup: keyboard.InlineButtons(buttons)}

	case flow.ListPageView:
		rows := make([][]keyboard.InlineBtn, 0, len(view.Items)+2)
		for _, item := range view.Items {
			rows = append(rows, []keyboard.InlineBtn{{
				Text: item.Label,
				Data: fmt.Sprintf("%s_%d", view.Kind, item.ID),
			}})
		}
		rows = append(rows, []keyboard.InlineBtn{
			{Text: textBtnPrev, Data: string(view.Kind) + suffixPrevPage},
			{Text: textBtnNext, Data: string(view.Kind) + suffixNextPage},
		})
		rows = append(rows, []keyboard.InlineBtn{homeButton()})
		return outgoing{
			text:   fmt.Sprintf("Выберите %s:", view.Kind),
			markup: keyboard.InlineButtonsRows(rows...),
			edit:   view.Edit,
		}

	case flow.TextPageView:
		var rows [][]keyboard.InlineBtn
		if view.Page > 0 {
			rows = append(rows, []keyboard.InlineBtn{{Text: textBtnPrev, Data: tokenTextPrev}})
		}
		if view.Page < view.Pages-1 {
			rows = append(rows, []keyboard.InlineBtn{{Text: textBtnNext, Data: tokenTextNext}})
		}
		rows = append(rows, []keyboard.InlineBtn{homeButton()})
		return outgoing{
			text:   view.Title + "\n\n" + view.Chunk,
			markup: keyboard.InlineButtonsRows(rows...),
			edit:   view.Edit,
		}

	case flow.QuestActionsView:
		return outgoing{
			text: textQuestActions,
			markup: keyboard.InlineButtons([]keyboard.InlineBtn{
				{Text: textBtnBook, Data: fmt.Sprintf("%s%d", prefixBookQuest, view.QuestID)},
				homeButton(),
			}),
		}

	case flow.CardView:
		return outgoing{text: view.Text, markup: homeMarkup()}

	case flow.QuestPickerView:
		buttons := make([]keyboard.InlineBtn, 0, len(view.Options))
		for _, opt := range view.Options {
			buttons = append(buttons, keyboard.InlineBtn{Text: opt.Label, Data: prefixSelectQuest + opt.Value})
		}
		return outgoing{text: textQuestPicker, markup: keyboard.InlineButtons(buttons)}

	case flow.PromptView:
		return outgoing{text: promptText[view.Prompt]}

	case flow.NoticeView:
		out := outgoing{text: noticeText[view.Notice]}
		if view.Notice == flow.NoticeBookingOK {
			out.markup = homeMarkup()
		}
		return out
	}

	return outgoing{text: textNoticeGatewayError}
}
