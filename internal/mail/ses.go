package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"mail-assistant/internal/common/logger"
)

// SESSender delivers replies through AWS SES.
type SESSender struct {
	client *ses.Client
	from   string
	logger logger.Logger
}

func NewSESSender(ctx context.Context, region, from string, log logger.Logger) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrMailConnection, err)
	}
	return &SESSender{
		client: ses.NewFromConfig(cfg),
		from:   from,
		logger: log.With(map[string]interface{}{
			"component": "ses-sender",
			"region":    region,
		}),
	}, nil
}

func (s *SESSender) Send(ctx context.Context, to, subject, body string) error {
	if !isValidEmail(to) {
		return fmt.Errorf("%w: invalid 'to' address: %s", ErrMailSend, to)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}

	s.logger.Info("reply sent", map[string]interface{}{
		"to":        to,
		"subject":   subject,
		"messageId": aws.ToString(out.MessageId),
	})

	return nil
}
