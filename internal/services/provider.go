package services

import "context"

// Provider is the messaging-provider surface consumed by the scheduler and
// the attendance handlers. The production implementation is
// internal/slack.Client; tests inject fakes.
type Provider interface {
	OpenDirectChannel(ctx context.Context, subjectID string) (string, error)
	ScheduleMessage(ctx context.Context, channelID, text string, atEpochSeconds int64) (string, error)
	CancelScheduledMessage(ctx context.Context, channelID, messageHandle string) error
	PostMessage(ctx context.Context, channelID, text string) error
	LookupDisplayName(ctx context.Context, subjectID string) (string, error)
	ListChannelMembers(ctx context.Context, channelID string) ([]string, error)
}
