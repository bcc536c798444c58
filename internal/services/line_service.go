package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/config"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/line"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const connectHint = "To receive notifications here, send: connect <your username>"

type LineServiceInterface interface {
	PushToUser(ctx context.Context, lineUserID string, messages ...line.Message) error
	PushToAdminGroup(ctx context.Context, messages ...line.Message) error
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type LineService struct {
	client    line.ClientInterface
	txManager repositories.TxManagerInterface
	userRepo  repositories.UserRepositoryInterface
	cfg       config.LineConfig
	dedup     *line.Deduplicator
	logger    *zap.Logger
}

type LineServiceOption func(*LineService)

// WithDeduplicator drops webhook events whose id was already handled.
func WithDeduplicator(d *line.Deduplicator) LineServiceOption {
	return func(s *LineService) { s.dedup = d }
}

func NewLineService(
	client line.ClientInterface,
	txManager repositories.TxManagerInterface,
	userRepo repositories.UserRepositoryInterface,
	cfg config.LineConfig,
	logger *zap.Logger,
	opts ...LineServiceOption,
) LineServiceInterface {
	s := &LineService{client: client, txManager: txManager, userRepo: userRepo, cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LineService) PushToUser(ctx context.Context, lineUserID string, messages ...line.Message) error {
	if lineUserID == "" || !s.client.Enabled() {
		return nil
	}
	return s.push(ctx, lineUserID, messages)
}

func (s *LineService) PushToAdminGroup(ctx context.Context, messages ...line.Message) error {
	if s.cfg.AdminGroupID == "" || !s.client.Enabled() {
		return nil
	}
	return s.push(ctx, s.cfg.AdminGroupID, messages)
}

func (s *LineService) push(ctx context.Context, to string, messages []line.Message) error {
	if s.cfg.PushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PushTimeout)
		defer cancel()
	}
	if err := s.client.PushMessage(ctx, to, messages...); err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	return nil
}

// HandleWebhook verifies the body signature and links accounts for every
// "connect <username>" text message. Per-event failures are logged only.
func (s *LineService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !line.VerifySignature(s.cfg.ChannelSecret, body, signature) {
		return apperrors.ErrInvalidSignature
	}

	var payload line.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	for _, ev := range payload.Events {
		if ev.Type != "message" || ev.Message == nil || ev.Message.Type != "text" {
			continue
		}
		if s.dedup != nil && !s.dedup.TryAcquire(ev.WebhookEventID) {
			s.logger.Debug("line webhook event already handled", zap.String("eventID", ev.WebhookEventID))
			continue
		}
		reply := s.handleText(ctx, ev.Source, ev.Message.Text)
		if reply == "" || ev.ReplyToken == "" {
			continue
		}
		if err := s.client.ReplyMessage(ctx, ev.ReplyToken, line.NewTextMessage(reply)); err != nil {
			s.logger.Warn("line reply failed", zap.Error(err))
		}
	}
	return nil
}

func (s *LineService) handleText(ctx context.Context, source line.EventSource, text string) string {
	username, ok := line.ParseConnectCommand(text)
	if !ok {
		// Group chatter is not addressed to the bot.
		if source.Type != "user" {
			return ""
		}
		return connectHint
	}
	lineUserID := source.UserID
	if lineUserID == "" {
		return "Please send the command from a one-to-one chat with the bot."
	}

	var user *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		user, err = s.userRepo.LinkLineUser(ctx, tx, username, lineUserID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info("line connect for unknown user", zap.String("username", username))
			return fmt.Sprintf("No active account named %q was found.", username)
		}
		s.logger.Error("line connect failed", zap.String("username", username), zap.Error(err))
		return "Something went wrong, please try again later."
	}

	s.logger.Info("line account linked", zap.String("userID", user.ID))
	return fmt.Sprintf("Connected! %s will now receive notifications here.", user.FullName)
}
