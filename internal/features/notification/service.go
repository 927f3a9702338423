package notification

import (
	"context"
	"time"

	"anchor-sync/internal/config"
	"anchor-sync/internal/features/report"
	"anchor-sync/internal/features/webhook"

	"go.uber.org/zap"
)

type NotificationService interface {
	NotifyCredentialExpired(ctx context.Context, anchorName string) error
	// NotifyCommissionDigest reports whether a message went out; it is
	// skipped when the channel is unconfigured or there is no data.
	NotifyCommissionDigest(ctx context.Context) (bool, error)
}

type NotificationServiceImpl struct {
	channel webhook.WebhookService
	reports report.ReportService
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

func NewNotificationService(channel webhook.WebhookService, reports report.ReportService, cfg *config.Config, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		channel: channel,
		reports: reports,
		loc:     cfg.Location(),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *NotificationServiceImpl) NotifyCredentialExpired(ctx context.Context, anchorName string) error {
	if !s.channel.Enabled() {
		s.logger.Info("DingTalk not configured, skipping cookie expiry notice", zap.String("anchor", anchorName))
		return nil
	}
	return s.channel.Send(ctx, CredentialExpiredMessage(anchorName, s.now().In(s.loc)))
}

func (s *NotificationServiceImpl) NotifyCommissionDigest(ctx context.Context) (bool, error) {
	if !s.channel.Enabled() {
		s.logger.Info("DingTalk not configured, skipping commission digest")
		return false, nil
	}

	now := s.now().In(s.loc)
	rows, err := s.reports.CommissionDigest(ctx, now.Format("2006-01-02"), now.Format("2006-01"))
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		s.logger.Info("No commission data, skipping commission digest")
		return false, nil
	}

	if err := s.channel.Send(ctx, CommissionDigestMessage(rows, now)); err != nil {
		return false, err
	}
	return true, nil
}
