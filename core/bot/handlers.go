// Package bot binds the conversation flow to Telegram endpoints: it maps
// inbound updates to flow events and flow replies to outbound messages.
package bot

import (
	"context"
	"fmt"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
	"github.com/stepankuzmin/BarmaidBot/core/flow"
	"github.com/stepankuzmin/BarmaidBot/core/logger"
	"github.com/stepankuzmin/BarmaidBot/core/session"
	"github.com/stepankuzmin/BarmaidBot/core/telegram"
	tghelpers "github.com/stepankuzmin/BarmaidBot/core/telegram/helpers"
	"github.com/stepankuzmin/BarmaidBot/core/telegram/keyboard"
)

const (
	welcomeText        = "Hi sweetie! What woud you like to drink?"
	clarifyText        = "I didn't catch what you said, sweetie. What woud you like to drink?"
	locationButtonText = "Yes, please"
)

func ackText(emoji string) string {
	return fmt.Sprintf("So you want some %s, huh?", emoji)
}

func notFoundText(emoji string) string {
	return fmt.Sprintf("I'm sorry, sweetheart, but I couldn't find %s near you", emoji)
}

// App owns handler wiring for the barmaid conversation.
type App struct {
	machine *flow.Machine
}

// New constructs an App around a flow machine.
func New(machine *flow.Machine) *App {
	return &App{machine: machine}
}

// Routes returns the bot endpoints: the start command, free text, and
// shared locations.
func (a *App) Routes() []telegram.Route {
	return []telegram.Route{
		{Endpoint: "/start", Handler: a.handleStart},
		{Endpoint: "/help", Handler: a.handleStart},
		{Endpoint: tele.OnText, Handler: a.handleText},
		{Endpoint: tele.OnLocation, Handler: a.handleLocation},
	}
}

func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := a.machine.Handle(ctx, conversationKey(c), flow.Event{Kind: flow.KindStart})
	return a.respond(c, ctx, reply, err)
}

func (a *App) handleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := a.machine.Handle(ctx, conversationKey(c), flow.Event{
		Kind: flow.KindText,
		Text: c.Text(),
	})
	return a.respond(c, ctx, reply, err)
}

func (a *App) handleLocation(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	loc := c.Message().Location
	if loc == nil {
		return nil
	}
	reply, err := a.machine.Handle(ctx, conversationKey(c), flow.Event{
		Kind: flow.KindLocation,
		Lat:  float64(loc.Lat),
		Lng:  float64(loc.Lng),
	})
	return a.respond(c, ctx, reply, err)
}

// respond sends the decided reply. Errors from the machine are logged and
// swallowed: a failed event never takes the process down, and the next event
// starts from a clean read of the session store.
func (a *App) respond(c tele.Context, ctx context.Context, reply flow.Reply, err error) error {
	if err != nil {
		logger.Error(ctx, "bot", "event.failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}

	switch reply.Kind {
	case flow.ReplyNone:
		return nil
	case flow.ReplyWelcome:
		return c.Send(welcomeText, emojiKeyboard())
	case flow.ReplyAskLocation:
		return c.Send(ackText(reply.Emoji), keyboard.LocationRequest(locationButtonText))
	case flow.ReplyClarify:
		return c.Send(clarifyText, emojiKeyboard())
	case flow.ReplyNotFound:
		return c.Send(notFoundText(reply.Emoji), emojiKeyboard())
	case flow.ReplyVenue:
		v := reply.Venue
		return c.Send(&tele.Venue{
			Location:     tele.Location{Lat: float32(v.Lat), Lng: float32(v.Lng)},
			Title:        fmt.Sprintf("%s %s", reply.Emoji, v.Name),
			Address:      v.Address,
			FoursquareID: v.ID,
		}, emojiKeyboard())
	default:
		return nil
	}
}

func emojiKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(catalog.Emojis())
}

func conversationKey(c tele.Context) session.Key {
	var key session.Key
	if u := c.Sender(); u != nil {
		key.UserID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		key.ChatID = ch.ID
	}
	return key
}
