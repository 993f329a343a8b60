package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("html and text", func(t *testing.T) {
		client := &fakeSES{}
		m := newSESMailer(client, "noreply@ourdays.app", "우리의 날들")
		require.NoError(t, m.Send(ctx, "bob@example.com", "새 메시지", "<p>안녕</p>", "안녕"))

		in := client.input
		assert.Equal(t, "우리의 날들 <noreply@ourdays.app>", aws.ToString(in.Source))
		assert.Equal(t, []string{"bob@example.com"}, in.Destination.ToAddresses)
		assert.Equal(t, "새 메시지", aws.ToString(in.Message.Subject.Data))
		assert.Equal(t, "<p>안녕</p>", aws.ToString(in.Message.Body.Html.Data))
		assert.Equal(t, "안녕", aws.ToString(in.Message.Body.Text.Data))
	})

	t.Run("text only without sender name", func(t *testing.T) {
		client := &fakeSES{}
		m := newSESMailer(client, "noreply@ourdays.app", "")
		require.NoError(t, m.Send(ctx, "bob@example.com", "s", "", "t"))
		assert.Equal(t, "noreply@ourdays.app", aws.ToString(client.input.Source))
		assert.Nil(t, client.input.Message.Body.Html)
	})

	t.Run("client error", func(t *testing.T) {
		boom := errors.New("throttled")
		m := newSESMailer(&fakeSES{err: boom}, "noreply@ourdays.app", "")
		require.ErrorIs(t, m.Send(ctx, "bob@example.com", "s", "", "t"), boom)
	})
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"})
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), "a@b.com", "s", "h", "t"))

	_, err = NewMailer(MailerConfig{Provider: "ses", SES: SESConfig{Region: "ap-northeast-2"}})
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "noreply@ourdays.app", SES: SESConfig{Region: "ap-northeast-2"}})
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "pigeon"})
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
}
