package notification

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func TestSend_EmailRecipient(t *testing.T) {
	ml := &mockMailer{}
	sms := &mockSMSSender{}
	ml.On("SendEmail", "alice@school.edu", "Subject", "Body").Return(nil)

	NewService(ml, sms, zerolog.Nop()).Send(context.Background(), "alice@school.edu", "Subject", "Body")

	ml.AssertExpectations(t)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_PhoneRecipientGoesToSMS(t *testing.T) {
	ml := &mockMailer{}
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, "+15550001111", "Subject\nBody").Return(nil)

	NewService(ml, sms, zerolog.Nop()).Send(context.Background(), "+15550001111", "Subject", "Body")

	sms.AssertExpectations(t)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_PhoneWithoutSMSSenderIsDropped(t *testing.T) {
	var buf bytes.Buffer
	ml := &mockMailer{}

	NewService(ml, nil, zerolog.New(&buf)).Send(context.Background(), "+15550001111", "Subject", "Body")

	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, buf.String(), "notification dropped")
}

func TestSend_FailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	ml := &mockMailer{}
	ml.On("SendEmail", "alice@school.edu", "Subject", "Body").Return(errors.New("connection refused"))

	NewService(ml, nil, zerolog.New(&buf)).Send(context.Background(), "alice@school.edu", "Subject", "Body")

	assert.Contains(t, buf.String(), "email delivery failed")
	assert.Contains(t, buf.String(), "connection refused")
}
