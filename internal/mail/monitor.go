package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"mail-assistant/internal/common/config"
	"mail-assistant/internal/common/logger"
)

// Monitor polls one IMAP mailbox for unread messages. Each poll is a full
// session: dial, login, select, search, fetch, mark seen, logout. The
// processed set is in-memory only and lost on restart.
type Monitor struct {
	config    config.MailboxConfig
	logger    logger.Logger
	processed map[string]struct{}
}

func NewMonitor(cfg config.MailboxConfig, log logger.Logger) *Monitor {
	return &Monitor{
		config: cfg,
		logger: log.With(map[string]interface{}{
			"component": "monitor",
			"mailbox":   cfg.Username,
		}),
		processed: make(map[string]struct{}),
	}
}

func (m *Monitor) connect() (*client.Client, error) {
	c, err := client.DialTLS(m.config.GetAddress(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrMailConnection, m.config.GetAddress(), err)
	}
	if err := c.Login(m.config.Username, m.config.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("%w: login: %v", ErrMailConnection, err)
	}
	return c, nil
}

// CheckConnection verifies that the mailbox is reachable and the credentials
// are accepted. Used at startup.
func (m *Monitor) CheckConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrMailConnection, err)
	}
	c, err := m.connect()
	if err != nil {
		return err
	}
	return c.Logout()
}

// FetchUnread returns all unseen messages from the configured folder, marks
// them \Seen upstream, and records their ids in the processed set. A
// malformed message is logged and skipped without aborting the batch.
func (m *Monitor) FetchUnread(ctx context.Context) ([]Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailConnection, err)
	}

	c, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Logout() }()

	if _, err := c.Select(m.config.Folder, false); err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrMailFetch, m.config.Folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrMailFetch, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var emails []Email
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			m.logger.Warn("message fetched without body section", map[string]interface{}{
				"seqNum": msg.SeqNum,
			})
			continue
		}

		email, err := ParseMessage(body)
		if err != nil {
			m.logger.WithError(err).Warn("skipping unparseable message", map[string]interface{}{
				"seqNum": msg.SeqNum,
			})
			continue
		}

		if _, seen := m.processed[email.MessageID]; seen && email.MessageID != "" {
			continue
		}
		if email.MessageID != "" {
			m.processed[email.MessageID] = struct{}{}
		}
		emails = append(emails, email)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", ErrMailFetch, err)
	}

	// Mark the batch consumed upstream
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := c.Store(seqset, item, flags, nil); err != nil {
		return nil, fmt.Errorf("%w: store seen flags: %v", ErrMailFetch, err)
	}

	m.logger.Info("fetched unread messages", map[string]interface{}{
		"count": len(emails),
	})

	return emails, nil
}
