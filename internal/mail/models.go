// Package mail implements mailbox monitoring over IMAP and outbound
// delivery over SMTP or SES.
package mail

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMailConnection = errors.New("MAIL_CONNECTION_FAILED")
	ErrMailFetch      = errors.New("MAIL_FETCH_FAILED")
	ErrMessageParse   = errors.New("MESSAGE_PARSE_FAILED")
	ErrMailSend       = errors.New("MAIL_SEND_FAILED")
)

// Email is one parsed inbound message. Immutable once constructed.
type Email struct {
	From      string
	To        string
	Subject   string
	Body      string
	Date      time.Time
	MessageID string
}

// Fetcher retrieves unread messages and marks them consumed upstream.
type Fetcher interface {
	FetchUnread(ctx context.Context) ([]Email, error)
}

// Sender delivers one outbound plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
