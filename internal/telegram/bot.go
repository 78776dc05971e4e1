package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/gateway"
	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/repositories/users"
	"github.com/dmitrijs2005/planbot/internal/services"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

// Noticer surfaces parked delivery-failure notices on the user's next
// interaction.
type Noticer interface {
	TakeNotice(userID int64) (string, bool)
}

// Scheduler is the subset of the trigger scheduler the front end needs:
// entries are resynced on first interaction and on timezone changes.
type Scheduler interface {
	SyncUser(ctx context.Context, user *models.User, now time.Time) error
}

// transport is the Bot API surface the front end drives.
type transport interface {
	GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Update, error)
	Send(ctx context.Context, msg gateway.Message) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Bot polls for updates and dispatches commands and button presses.
type Bot struct {
	client      transport
	users       users.Repository
	tasks       tasks.Repository
	focus       *services.FocusService
	stats       *services.StatsService
	scheduler   Scheduler
	notices     Noticer
	log         logging.Logger
	defaultTZ   string
	pollTimeout time.Duration
}

func NewBot(client *Client, users users.Repository, tasks tasks.Repository,
	focus *services.FocusService, stats *services.StatsService,
	scheduler Scheduler, notices Noticer, log logging.Logger,
	defaultTZ string, pollTimeout time.Duration) *Bot {
	return &Bot{
		client:      client,
		users:       users,
		tasks:       tasks,
		focus:       focus,
		stats:       stats,
		scheduler:   scheduler,
		notices:     notices,
		log:         log,
		defaultTZ:   defaultTZ,
		pollTimeout: pollTimeout,
	}
}

// Run polls until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	offset := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			b.log.Warn(ctx, "getUpdates failed", "error", err.Error())
			time.Sleep(2 * time.Second)
			continue
		}
		for _, upd := range updates {
			offset = upd.UpdateID + 1
			switch {
			case upd.Callback != nil:
				if err := b.handleCallback(ctx, upd.Callback); err != nil {
					b.log.Error(ctx, "handling callback failed", "error", err.Error())
				}
			case upd.Message != nil && upd.Message.Text != "":
				if err := b.handleMessage(ctx, upd.Message); err != nil {
					b.log.Error(ctx, "handling message failed", "error", err.Error())
				}
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *InboundMsg) error {
	if msg.From == nil {
		return nil
	}
	command, args := parseCommand(msg.Text)
	if command == "" {
		return nil
	}

	user, err := b.ensureUser(ctx, msg.From.ID)
	if err != nil {
		_ = b.reply(ctx, msg.Chat.ID, "Something went wrong, please try again.")
		return err
	}

	b.surfaceNotice(ctx, user.ID)

	return b.dispatch(ctx, user, command, args)
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) error {
	if cb.From == nil {
		return nil
	}
	if err := b.client.AnswerCallback(ctx, cb.ID); err != nil {
		b.log.Warn(ctx, "answering callback failed", "error", err.Error())
	}

	user, err := b.ensureUser(ctx, cb.From.ID)
	if err != nil {
		return err
	}

	b.surfaceNotice(ctx, user.ID)

	action, arg, _ := strings.Cut(cb.Data, "|")
	switch action {
	case "quickadd":
		return b.addTask(ctx, user, arg, 0)
	case "newtask":
		return b.reply(ctx, user.ID, "Usage: /add Finish module #study !high @18:00")
	case "done":
		return b.completeTask(ctx, user, arg, models.TaskDone)
	case "cancel":
		return b.completeTask(ctx, user, arg, models.TaskCancelled)
	}
	return nil
}

func (b *Bot) dispatch(ctx context.Context, user *models.User, command, args string) error {
	switch command {
	case "start":
		return b.send(ctx, gateway.Message{
			UserID:  user.ID,
			Text:    welcomeText(user.Timezone),
			Buttons: quickAddButtons(),
		})
	case "help":
		return b.reply(ctx, user.ID, helpText())
	case "add":
		if strings.TrimSpace(args) == "" {
			return b.reply(ctx, user.ID, "Usage: /add Finish module #study !high @18:00")
		}
		return b.addTask(ctx, user, args, 0)
	case "tomorrow":
		if strings.TrimSpace(args) == "" {
			return b.reply(ctx, user.ID, "Usage: /tomorrow Gym @07:00")
		}
		return b.addTask(ctx, user, args, 1)
	case "list":
		return b.listToday(ctx, user)
	case "done":
		return b.completeTask(ctx, user, strings.TrimSpace(args), models.TaskDone)
	case "cancel":
		return b.completeTask(ctx, user, strings.TrimSpace(args), models.TaskCancelled)
	case "tz":
		return b.setTimezone(ctx, user, strings.TrimSpace(args))
	case "focus":
		if _, err := b.focus.Start(ctx, user.ID, time.Now()); err != nil {
			return err
		}
		return b.reply(ctx, user.ID, "⏱️ Focus started: 25 minutes. I'll ping you when time's up!")
	case "stop":
		stopped, err := b.focus.Stop(ctx, user.ID)
		if err != nil {
			return err
		}
		if !stopped {
			return b.reply(ctx, user.ID, "No focus session running.")
		}
		return b.reply(ctx, user.ID, "🛑 Focus stopped.")
	case "week":
		stats, err := b.stats.Weekly(ctx, user.ID, b.today(user))
		if err != nil {
			return err
		}
		return b.reply(ctx, user.ID, formatWeekly(stats))
	default:
		return b.reply(ctx, user.ID, "Unknown command, /help lists what I can do.")
	}
}

func (b *Bot) addTask(ctx context.Context, user *models.User, args string, dayOffset int) error {
	title, tags, priority, due, err := parseTaskArgs(args)
	if err != nil {
		return b.reply(ctx, user.ID, "Please include a task title. Example: /add Finish module")
	}

	bucket := b.today(user).AddDays(dayOffset)
	task := &models.Task{
		UserID:   user.ID,
		Text:     title,
		Priority: priority,
		Tags:     tags,
		DueTime:  due,
		Status:   models.TaskPending,
		Bucket:   bucket.String(),
	}
	if _, err := b.tasks.Create(ctx, task); err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	if dayOffset > 0 {
		return b.reply(ctx, user.ID, fmt.Sprintf("Queued for tomorrow: %s", title))
	}
	return b.reply(ctx, user.ID, fmt.Sprintf("Added for today: %s", title))
}

func (b *Bot) listToday(ctx context.Context, user *models.User) error {
	list, err := b.tasks.ListByBucket(ctx, user.ID, b.today(user).String())
	if err != nil {
		return fmt.Errorf("listing today: %w", err)
	}
	if len(list) == 0 {
		return b.send(ctx, gateway.Message{
			UserID:  user.ID,
			Text:    "No tasks for today. Use /add or the buttons below.",
			Buttons: quickAddButtons(),
		})
	}

	var open []*models.Task
	for _, t := range list {
		if t.Status == models.TaskPending {
			open = append(open, t)
		}
	}
	return b.send(ctx, gateway.Message{
		UserID:  user.ID,
		Text:    formatTaskList(list),
		Buttons: taskActionButtons(open),
	})
}

func (b *Bot) completeTask(ctx context.Context, user *models.User, ref string, status models.TaskStatus) error {
	if ref == "" {
		return b.reply(ctx, user.ID, "Usage: /done <id>")
	}
	task, err := b.resolveTask(ctx, user, ref)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return b.reply(ctx, user.ID, "Task not found. /list shows today's ids.")
		}
		return err
	}
	// Done and cancelled are final; status never moves between them.
	if task.Status != models.TaskPending {
		return b.reply(ctx, user.ID, "That task is already closed. /list shows what's still open.")
	}
	if err := b.tasks.SetStatus(ctx, task.ID, status); err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	if status == models.TaskCancelled {
		return b.reply(ctx, user.ID, fmt.Sprintf("Cancelled: %s", task.Text))
	}
	return b.reply(ctx, user.ID, "Nice! Marked ✅")
}

// resolveTask matches a full id or the short prefix shown in lists,
// looking through today's and tomorrow's buckets.
func (b *Bot) resolveTask(ctx context.Context, user *models.User, ref string) (*models.Task, error) {
	today := b.today(user)
	for _, bucket := range []string{today.String(), today.AddDays(1).String()} {
		list, err := b.tasks.ListByBucket(ctx, user.ID, bucket)
		if err != nil {
			return nil, err
		}
		for _, t := range list {
			if t.ID == ref || shortID(t.ID) == ref {
				return t, nil
			}
		}
	}
	return nil, common.ErrorNotFound
}

func (b *Bot) setTimezone(ctx context.Context, user *models.User, tz string) error {
	if tz == "" {
		return b.reply(ctx, user.ID, "Usage: /tz Continent/City  (e.g., /tz America/Los_Angeles)")
	}
	if _, err := tzx.Resolve(tz); err != nil {
		return b.reply(ctx, user.ID, "That timezone isn't recognized. Try like America/New_York or Asia/Kathmandu")
	}
	if err := b.users.SetTimezone(ctx, user.ID, tz, false); err != nil {
		return fmt.Errorf("setting timezone: %w", err)
	}
	if !user.Active {
		if err := b.users.SetActive(ctx, user.ID, true); err != nil {
			return fmt.Errorf("reactivating user: %w", err)
		}
	}

	updated, err := b.users.Get(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("reloading user: %w", err)
	}
	if err := b.scheduler.SyncUser(ctx, updated, time.Now()); err != nil {
		return fmt.Errorf("rescheduling user: %w", err)
	}
	return b.reply(ctx, user.ID, fmt.Sprintf("Timezone set to %s. I'll schedule reminders accordingly.", tz))
}

// ensureUser loads the user or creates one with the configured default
// timezone. New users are scheduled immediately.
func (b *Bot) ensureUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := b.users.Get(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	user, err = b.users.Create(ctx, &models.User{
		ID:        id,
		Timezone:  b.defaultTZ,
		DefaultTZ: true,
		Active:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if err := b.scheduler.SyncUser(ctx, user, time.Now()); err != nil {
		b.log.Error(ctx, "scheduling new user failed", "user_id", user.ID, "error", err.Error())
	}
	b.log.Info(ctx, "user created", "user_id", user.ID, "tz", user.Timezone)
	return user, nil
}

func (b *Bot) surfaceNotice(ctx context.Context, userID int64) {
	if notice, ok := b.notices.TakeNotice(userID); ok {
		if err := b.reply(ctx, userID, notice); err != nil {
			b.log.Warn(ctx, "delivering parked notice failed", "user_id", userID, "error", err.Error())
		}
	}
}

func (b *Bot) today(user *models.User) tzx.Day {
	loc, err := tzx.Resolve(user.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return tzx.DayOf(tzx.NowIn(time.Now(), loc))
}

func (b *Bot) reply(ctx context.Context, userID int64, text string) error {
	return b.send(ctx, gateway.Message{UserID: userID, Text: text})
}

func (b *Bot) send(ctx context.Context, msg gateway.Message) error {
	return b.client.Send(ctx, msg)
}

func parseCommand(text string) (string, string) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	cmd := strings.TrimPrefix(parts[0], "/")
	if idx := strings.Index(cmd, "@"); idx >= 0 {
		cmd = cmd[:idx]
	}
	cmd = strings.ToLower(cmd)
	if len(parts) == 1 {
		return cmd, ""
	}
	return cmd, strings.TrimSpace(parts[1])
}

// parseTaskArgs splits the add grammar: plain words form the title, #words
// are tags, !low/!med/!high sets priority, @HH:MM sets the due time.
func parseTaskArgs(args string) (title string, tags []string, priority models.TaskPriority, due string, err error) {
	priority = models.PriorityMedium
	var words []string
	for _, tok := range strings.Fields(args) {
		switch {
		case strings.HasPrefix(tok, "#") && len(tok) > 1:
			tags = append(tags, tok)
		case strings.HasPrefix(tok, "!"):
			switch strings.ToLower(tok[1:]) {
			case "low":
				priority = models.PriorityLow
			case "high":
				priority = models.PriorityHigh
			case "med", "medium":
				priority = models.PriorityMedium
			}
		case strings.HasPrefix(tok, "@") && looksLikeTime(tok[1:]):
			due = tok[1:]
		default:
			words = append(words, tok)
		}
	}
	title = strings.Join(words, " ")
	if title == "" {
		return "", nil, "", "", errors.New("empty title")
	}
	return title, tags, priority, due, nil
}

func looksLikeTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 2 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s[:2] <= "23" && s[3:] <= "59"
}
