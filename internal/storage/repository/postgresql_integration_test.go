package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduline/course-platform/internal/models"
)

func TestStorage_RegisterAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	expires := time.Now().Add(24 * time.Hour).UTC()
	uid, err := storage.RegisterUser(context.Background(), models.User{
		Email:                 "student@example.com",
		Username:              "student",
		PasswordHash:          "hashedpassword",
		Role:                  "user",
		VerificationCode:      "123456",
		VerificationExpiresAt: &expires,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUserByUsername(context.Background(), "student")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "student@example.com", got.Email)
	assert.False(t, got.IsVerified)
	assert.Equal(t, "123456", got.VerificationCode)
	require.NotNil(t, got.VerificationExpiresAt)

	_, err = storage.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_MarkUserVerified(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "verifyme", "verify@example.com", "hash", "user", false)

	err := storage.MarkUserVerified(context.Background(), userUID)
	require.NoError(t, err)

	got, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Empty(t, got.VerificationCode)
	assert.Nil(t, got.VerificationExpiresAt)

	err = storage.MarkUserVerified(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ExamsCRUDAndSearch(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	id, err := storage.CreateExam(context.Background(), models.Exam{
		Code:            "CPL-101",
		Title:           "Commercial Pilot License Theory",
		Provider:        "FAA",
		PriceCents:      38000,
		DurationMinutes: 120,
		IsActive:        true,
	})
	require.NoError(t, err)

	got, err := storage.ReadExam(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "CPL-101", got.Code)

	found, err := storage.SearchExams(context.Background(), "pilot", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)

	n, err := storage.RemoveExam(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// После деактивации экзамен не попадает в выдачу поиска
	found, err = storage.SearchExams(context.Background(), "pilot", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStorage_CertificatesByCodeAndExpiring(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "holder", "holder@example.com", "hash", "user", true)
	examID := factory.CreateExam(t, "ATPL-201", "Airline Transport Pilot Theory", "EASA", 180000, 180, true)

	soon := time.Now().Add(10 * 24 * time.Hour).UTC()
	code := factory.CreateCertificate(t, userUID, examID, "John Holder", &soon, false)

	cert, err := storage.GetCertificateByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "John Holder", cert.HolderName)
	assert.Equal(t, "Airline Transport Pilot Theory", cert.ExamTitle)
	assert.False(t, cert.Revoked)

	_, err = storage.GetCertificateByCode(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	reminders, err := storage.FindCertificatesExpiringSoon(context.Background(), time.Now(), 30*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "holder@example.com", reminders[0].Email)
	assert.Equal(t, code, reminders[0].Code)
}

func TestStorage_AlertsWindow(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now().UTC()
	factory.CreateAlert(t, "Maintenance window tonight", "warning", now.Add(-time.Hour), now.Add(time.Hour), true)
	factory.CreateAlert(t, "Old news", "info", now.Add(-48*time.Hour), now.Add(-24*time.Hour), true)

	active, err := storage.ListActiveAlerts(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Maintenance window tonight", active[0].Message)

	n, err := storage.DeactivateExpiredAlerts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStorage_PaymentsLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "buyer", "buyer@example.com", "hash", "user", true)
	productID := factory.CreateProduct(t, "COURSE1", "Ground School Package", 180000, 6, true)

	_, err := storage.CreatePayment(context.Background(), models.Payment{
		ProviderPaymentID: "prov-123",
		UserUID:           userUID,
		ProductID:         productID,
		AmountCents:       180000,
		Status:            models.PaymentStatusPending,
	})
	require.NoError(t, err)

	updated, err := storage.UpdatePaymentStatus(context.Background(), "prov-123", models.PaymentStatusSucceeded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, updated.Status)
	assert.Equal(t, userUID, updated.UserUID)

	list, err := storage.ListPayments(context.Background(), userUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "prov-123", list[0].ProviderPaymentID)

	_, err = storage.UpdatePaymentStatus(context.Background(), "missing", models.PaymentStatusCanceled)
	assert.ErrorIs(t, err, ErrNotFound)
}
