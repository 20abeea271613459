package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// buildSESInput converts the envelope into a SES v2 SendEmail request.
func buildSESInput(m *Message) *sesv2.SendEmailInput {
	body := &types.Body{}
	content := &types.Content{Data: aws.String(m.Body)}
	if m.HTML {
		body.Html = content
	} else {
		body.Text = content
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.From),
		Destination: &types.Destination{
			ToAddresses:  m.To,
			CcAddresses:  m.Cc,
			BccAddresses: m.Bcc,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(m.Subject)},
				Body:    body,
			},
		},
	}
}

// sendSES delivers one message through Amazon SES and returns the message
// id assigned by the provider.
func sendSES(ctx context.Context, region string, m *Message) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return "", fmt.Errorf("loading aws config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	out, err := client.SendEmail(ctx, buildSESInput(m))
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
