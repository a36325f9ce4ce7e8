package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	smtplib "github.com/eduline/course-platform/internal/lib/smtp"
	"github.com/eduline/course-platform/internal/models"
)

// fakeClient собирает письмо в буфер вместо реальной отправки.
type fakeClient struct {
	from    string
	rcpts   []string
	data    bytes.Buffer
	failOn  string
	quitted bool
}

type fakeWriteCloser struct{ c *fakeClient }

func (w *fakeWriteCloser) Write(p []byte) (int, error) { return w.c.data.Write(p) }
func (w *fakeWriteCloser) Close() error                { return nil }

func (c *fakeClient) Mail(from string) error {
	if c.failOn == "mail" {
		return assert.AnError
	}
	c.from = from
	return nil
}
func (c *fakeClient) Rcpt(to string) error {
	if c.failOn == "rcpt" {
		return assert.AnError
	}
	c.rcpts = append(c.rcpts, to)
	return nil
}
func (c *fakeClient) Data() (io.WriteCloser, error) { return &fakeWriteCloser{c: c}, nil }
func (c *fakeClient) Quit() error {
	c.quitted = true
	return nil
}
func (c *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (smtplib.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}
func (t *fakeTransport) Sender() string { return "noreply@edu.example.com" }
func (t *fakeTransport) From() string {
	return `"Course Platform" <noreply@edu.example.com>`
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSenderService_SendVerificationEmail(t *testing.T) {
	client := &fakeClient{}
	svc := NewSenderService(newNoopLogger(), &fakeTransport{client: client})

	body, err := json.Marshal(models.VerificationEmail{
		Email:    "student@example.com",
		Username: "student",
		Code:     "483920",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendVerificationEmail(body))
	assert.Equal(t, "noreply@edu.example.com", client.from)
	assert.Equal(t, []string{"student@example.com"}, client.rcpts)
	assert.Contains(t, client.data.String(), "483920")
	assert.Contains(t, client.data.String(), "Subject: Confirm your email address")
	assert.Contains(t, client.data.String(), `From: "Course Platform" <noreply@edu.example.com>`)
	assert.True(t, client.quitted)
}

func TestSenderService_SendPaymentReceipt(t *testing.T) {
	client := &fakeClient{}
	svc := NewSenderService(newNoopLogger(), &fakeTransport{client: client})

	body, err := json.Marshal(models.PaymentReceipt{
		Email:        "student@example.com",
		Username:     "student",
		ProductTitle: "Ground School Package",
		AmountCents:  180000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendPaymentReceipt(body))
	assert.Contains(t, client.data.String(), "$1,800.00")
	assert.Contains(t, client.data.String(), "Ground School Package")
}

func TestSenderService_BadPayload(t *testing.T) {
	svc := NewSenderService(newNoopLogger(), &fakeTransport{client: &fakeClient{}})
	err := svc.SendVerificationEmail([]byte("{not json"))
	require.Error(t, err)
}

func TestSenderService_ConnectError(t *testing.T) {
	svc := NewSenderService(newNoopLogger(), &fakeTransport{connectErr: assert.AnError})
	body, _ := json.Marshal(models.VerificationEmail{Email: "a@b.c"})
	err := svc.SendVerificationEmail(body)
	require.Error(t, err)
}
