package telegram

import (
	"context"
	"downalert/internal/broker"
	"downalert/internal/config"
	"downalert/internal/lib/sl"
	"downalert/internal/model"
	"downalert/internal/notifier"
	"downalert/internal/service"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v4"
)

var _ notifier.Notifier = &TGBot{}

type Screenshotter interface {
	Capture(ctx context.Context, sites []model.Site, fn func(site model.Site, path string) error) error
}

type TGBot struct {
	bot     *telebot.Bot
	broker  broker.MessageBroker
	sites   *service.SitesService
	screens Screenshotter
	limiter *rate.Limiter
	config  config.TelegramBotConfig
}

// New registers the command handlers. broker may be nil, in which case alerts
// only arrive through Notify.
func New(
	broker broker.MessageBroker,
	sites *service.SitesService,
	screens Screenshotter,
	config config.TelegramBotConfig,
) (*TGBot, error) {
	settings := telebot.Settings{
		Token:  config.BotToken(),
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}
	return newTGBot(settings, broker, sites, screens, config)
}

func newTGBot(
	settings telebot.Settings,
	broker broker.MessageBroker,
	sites *service.SitesService,
	screens Screenshotter,
	config config.TelegramBotConfig,
) (*TGBot, error) {
	bot, err := telebot.NewBot(settings)
	if err != nil {
		return nil, err
	}

	t := &TGBot{
		bot:     bot,
		broker:  broker,
		sites:   sites,
		screens: screens,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSec), 1),
		config:  config,
	}

	bot.Handle("/start", t.startCommand)
	bot.Handle("/help", t.startCommand)
	bot.Handle("/add", t.addSiteCommand)
	bot.Handle("/list", t.listCommand)
	bot.Handle("/remove", t.removeSiteCommand)
	bot.Handle("/screens", t.screensCommand)
	bot.Handle("/admin", t.adminCommand)

	return t, nil
}

// Start polls for updates until ctx is cancelled.
func (t *TGBot) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if t.broker != nil {
		alerts, err := t.broker.ConsumeAlerts(ctx)
		if err != nil {
			return fmt.Errorf("failed to register a consumer for alerts: %w", err)
		}
		g.Go(func() error {
			return t.handleAlerts(ctx, alerts)
		})
	}

	g.Go(func() error {
		slog.Info("starting telegram bot", slog.String("username", t.bot.Me.Username))
		t.bot.Start()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		t.bot.Stop()
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (t *TGBot) handleAlerts(ctx context.Context, alerts <-chan model.Alert) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case alert, ok := <-alerts:
			if !ok {
				return errors.New("queue with alerts was closed")
			}
			if err := t.Notify(ctx, alert); err != nil {
				slog.Error("failed to deliver alert", sl.Alert(alert), sl.Error(err))
			}
		}
	}
}

// Notify sends the down alert to the chat of the site owner.
func (t *TGBot) Notify(ctx context.Context, alert model.Alert) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	slog.Info("sending alert", sl.Alert(alert))
	_, err := t.bot.Send(telebot.ChatID(alert.OwnerId), alertMessage(alert.Url), telebot.ModeMarkdown)
	if err != nil {
		return fmt.Errorf("failed to send alert to chat: %w", err)
	}
	return nil
}

func (t *TGBot) reply(c telebot.Context, text string) (*telebot.Message, error) {
	if err := t.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}
	return t.bot.Reply(c.Message(), text)
}

func (t *TGBot) send(to telebot.Recipient, what any) error {
	if err := t.limiter.Wait(context.Background()); err != nil {
		return err
	}
	_, err := t.bot.Send(to, what)
	return err
}

func (t *TGBot) startCommand(c telebot.Context) error {
	slog.Info("start command", slog.Int64("chat_id", c.Chat().ID))
	return t.send(c.Chat(), startMessage)
}

func (t *TGBot) addSiteCommand(c telebot.Context) error {
	ownerId := c.Sender().ID
	slog.Info("add site command", slog.Int64("owner_id", ownerId), slog.String("payload", c.Message().Payload))

	url, ok := parseAddArgs(c.Args())
	if !ok {
		_, err := t.reply(c, invalidAddMessage)
		return err
	}

	site, err := t.sites.AddSite(context.Background(), ownerId, url)
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		_, err = t.reply(c, invalidURLMessage)
		return err
	case errors.Is(err, service.ErrAlreadyWatched):
		_, err = t.reply(c, alreadyWatchedMessage)
		return err
	case err != nil:
		slog.Error("failed to add site", slog.String("command", "add"), sl.Error(err))
		_, err = t.reply(c, failureMessage)
		return err
	}

	slog.Info("site added", sl.Site(site))
	_, err = t.reply(c, addedMessage)
	return err
}

func (t *TGBot) listCommand(c telebot.Context) error {
	ownerId := c.Sender().ID
	slog.Info("list command", slog.Int64("owner_id", ownerId))

	ctx := context.Background()
	sites, err := t.sites.GetAllSitesByOwnerId(ctx, ownerId)
	if err != nil {
		slog.Error("failed to get sites of owner", slog.String("command", "list"), sl.Error(err))
		_, err = t.reply(c, failureMessage)
		return err
	}
	if len(sites) == 0 {
		_, err = t.reply(c, emptyWatchlistMessage)
		return err
	}

	msg, err := t.reply(c, pendingList(sites))
	if err != nil {
		return err
	}

	statuses := t.sites.CheckSites(ctx, sites)
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = t.bot.Edit(msg, statusList(statuses))
	return err
}

func (t *TGBot) removeSiteCommand(c telebot.Context) error {
	ownerId := c.Sender().ID
	slog.Info("remove site command", slog.Int64("owner_id", ownerId), slog.String("payload", c.Message().Payload))

	siteId, ok := parseRemoveArgs(c.Args())
	if !ok {
		_, err := t.reply(c, invalidRemoveMessage)
		return err
	}

	err := t.sites.DeleteSiteFromOwner(context.Background(), ownerId, siteId)
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		_, err = t.reply(c, notFoundMessage)
		return err
	case err != nil:
		slog.Error("failed to remove site", slog.String("command", "remove"), sl.Error(err))
		_, err = t.reply(c, failureMessage)
		return err
	}

	_, err = t.reply(c, removedMessage)
	return err
}

func (t *TGBot) screensCommand(c telebot.Context) error {
	slog.Info("screens command", slog.Int64("chat_id", c.Chat().ID))

	ctx := context.Background()
	sites, err := t.sites.GetAllSites(ctx)
	if err != nil {
		slog.Error("failed to get all sites", slog.String("command", "screens"), sl.Error(err))
		_, err = t.reply(c, failureMessage)
		return err
	}

	return t.screens.Capture(ctx, sites, func(site model.Site, path string) error {
		photo := &telebot.Photo{File: telebot.FromDisk(path), Caption: site.Url}
		return t.send(c.Chat(), photo)
	})
}

func (t *TGBot) adminCommand(c telebot.Context) error {
	sender := c.Sender()
	slog.Info("admin command", slog.Int64("user_id", sender.ID), slog.String("username", sender.Username))

	urls, err := t.sites.GetAllUrlsForAdmin(context.Background(), sender.ID, sender.Username)
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		_, err = t.reply(c, notAdminMessage)
		return err
	case err != nil:
		slog.Error("failed to get all sites", slog.String("command", "admin"), sl.Error(err))
		_, err = t.reply(c, failureMessage)
		return err
	}

	return t.send(c.Chat(), adminList(urls))
}
