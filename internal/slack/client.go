package slack

import (
	"context"
	"fmt"
	"strconv"

	"github.com/slack-go/slack"
)

// Client wraps the Slack web API behind the handful of calls this service
// needs. It is constructed once at startup and injected into consumers.
type Client struct {
	api *slack.Client
}

// NewClient creates a Slack client authenticated with the given bot token.
func NewClient(botToken string) *Client {
	return &Client{api: slack.New(botToken)}
}

// OpenDirectChannel opens (or resumes) a DM conversation with the user and
// returns its channel id.
func (c *Client) OpenDirectChannel(ctx context.Context, subjectID string) (string, error) {
	channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{subjectID},
	})
	if err != nil {
		return "", fmt.Errorf("open dm channel for %s: %w", subjectID, err)
	}
	return channel.ID, nil
}

// ScheduleMessage asks Slack to deliver text into the channel at the given
// epoch second and returns the scheduled-message handle used to cancel it.
func (c *Client) ScheduleMessage(ctx context.Context, channelID, text string, atEpochSeconds int64) (string, error) {
	_, handle, err := c.api.ScheduleMessageContext(ctx, channelID, strconv.FormatInt(atEpochSeconds, 10),
		slack.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("schedule message in %s: %w", channelID, err)
	}
	return handle, nil
}

// CancelScheduledMessage deletes a pending scheduled message. Slack rejects
// the call if the message already fired; callers treat that as best-effort.
func (c *Client) CancelScheduledMessage(ctx context.Context, channelID, messageHandle string) error {
	_, err := c.api.DeleteScheduledMessageContext(ctx, &slack.DeleteScheduledMessageParameters{
		Channel:            channelID,
		ScheduledMessageID: messageHandle,
	})
	if err != nil {
		return fmt.Errorf("cancel scheduled message %s in %s: %w", messageHandle, channelID, err)
	}
	return nil
}

// PostMessage posts text into a channel immediately.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post message to %s: %w", channelID, err)
	}
	return nil
}

// LookupDisplayName resolves a user's display name, preferring the profile
// display name, then real name, then the account name.
func (c *Client) LookupDisplayName(ctx context.Context, subjectID string) (string, error) {
	user, err := c.api.GetUserInfoContext(ctx, subjectID)
	if err != nil {
		return "", fmt.Errorf("look up user %s: %w", subjectID, err)
	}
	if user.Profile.DisplayName != "" {
		return user.Profile.DisplayName, nil
	}
	if user.RealName != "" {
		return user.RealName, nil
	}
	return user.Name, nil
}

// ListChannelMembers returns every member of the channel, following
// pagination cursors until Slack reports no more pages.
func (c *Client) ListChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	var members []string
	cursor := ""
	for {
		page, next, err := c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     200,
		})
		if err != nil {
			return nil, fmt.Errorf("list members of %s: %w", channelID, err)
		}
		members = append(members, page...)
		if next == "" {
			return members, nil
		}
		cursor = next
	}
}
