package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// sendInterval throttles Gmail API requests to respect rate limits
const sendInterval = 3 * time.Second

// UserDirectory resolves volunteer ids to email addresses. Identity is owned
// upstream; the dispatcher only needs an address to deliver to.
type UserDirectory interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

// StaticDirectory is a fixed userID -> email mapping, typically loaded from
// the config file.
type StaticDirectory map[string]string

func (d StaticDirectory) EmailFor(_ context.Context, userID string) (string, error) {
	email, ok := d[userID]
	if !ok {
		return "", fmt.Errorf("no email address on record for user %s", userID)
	}
	return email, nil
}

// GmailDispatcher delivers transition events as email via the Gmail API.
// Failures are logged and swallowed; a missed notification never rolls back
// engine state.
type GmailDispatcher struct {
	service   *gmail.Service
	sender    string
	directory UserDirectory
	logger    *zap.Logger

	sendMutex    sync.Mutex
	lastSendTime time.Time
}

// NewGmailDispatcher creates a dispatcher backed by the Gmail API
func NewGmailDispatcher(ctx context.Context, tokenSource oauth2.TokenSource, sender string, directory UserDirectory, logger *zap.Logger) (*GmailDispatcher, error) {
	httpClient := oauth2.NewClient(ctx, tokenSource)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &GmailDispatcher{
		service:   service,
		sender:    sender,
		directory: directory,
		logger:    logger,
	}, nil
}

func (d *GmailDispatcher) Dispatch(ctx context.Context, event Event) {
	if event.UserID == "" {
		// Shift-level event with no affected volunteer; nothing to mail
		d.logger.Debug("Skipping mail for shift-level event", zap.String("type", string(event.Type)))
		return
	}

	to, err := d.directory.EmailFor(ctx, event.UserID)
	if err != nil {
		d.logger.Warn("Failed to resolve notification recipient",
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return
	}

	subject, body := renderEvent(event)
	if err := d.send(to, subject, body); err != nil {
		d.logger.Warn("Failed to deliver notification",
			zap.String("type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return
	}

	d.logger.Debug("Notification delivered",
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID))
}

// send sends an email with the specified subject and body, throttling
// requests to respect Gmail API rate limits.
func (d *GmailDispatcher) send(to, subject, body string) error {
	d.sendMutex.Lock()
	defer d.sendMutex.Unlock()

	if !d.lastSendTime.IsZero() {
		elapsed := time.Since(d.lastSendTime)
		if elapsed < sendInterval {
			time.Sleep(sendInterval - elapsed)
		}
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", d.sender, to, subject, body)
	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(message)),
	}

	if _, err := d.service.Users.Messages.Send("me", gmailMessage).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	d.lastSendTime = time.Now()
	return nil
}

func renderEvent(event Event) (subject, body string) {
	switch event.Type {
	case EventShiftCancelled:
		return "Shift cancelled",
			fmt.Sprintf("A shift you signed up for (%s) has been cancelled.", event.ShiftID)
	case EventRSVPConfirmed:
		return "Shift sign-up confirmed",
			fmt.Sprintf("Your sign-up for shift %s has been confirmed.", event.ShiftID)
	case EventRSVPDeclined:
		return "Shift sign-up cancelled",
			fmt.Sprintf("Your sign-up for shift %s has been cancelled.", event.ShiftID)
	case EventRSVPZoneLeadChanged:
		return "Zone lead assignment",
			fmt.Sprintf("You are now the zone lead for shift %s.", event.ShiftID)
	default:
		return fmt.Sprintf("Shift update: %s", event.Type),
			fmt.Sprintf("Update for shift %s: %s.", event.ShiftID, event.Type)
	}
}
