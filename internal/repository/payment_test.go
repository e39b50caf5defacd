package repository

import (
	"context"
	"testing"
	"time"

	"airtecs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepositoryOnePerRequest(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	req := insertRequest(t, db, models.RequestStatusCompleted, 3)

	first := &models.Payment{
		RequestID:    req.ID,
		TechnicianID: 7,
		Amount:       850,
		Method:       models.PaymentMethodCash,
		Status:       models.PaymentStatusPending,
		Reference:    "ref_1",
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.Payment{
		RequestID: req.ID,
		Amount:    850,
		Method:    models.PaymentMethodCard,
		Status:    models.PaymentStatusConfirmed,
	}
	assert.Error(t, repo.Create(ctx, dup), "request_id is unique")
}

func TestPaymentRepositoryUpdateStatusCAS(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	req := insertRequest(t, db, models.RequestStatusCompleted, 3)
	payment := &models.Payment{
		RequestID:    req.ID,
		TechnicianID: 7,
		Amount:       850,
		Method:       models.PaymentMethodCash,
		Status:       models.PaymentStatusPending,
		Reference:    "ref_1",
	}
	require.NoError(t, repo.Create(ctx, payment))

	now := time.Now()
	ok, err := repo.UpdateStatus(ctx, payment.ID, models.PaymentStatusPending, models.PaymentStatusConfirmed, "ref_1", &now)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetByRequestID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.PaymentStatusConfirmed, stored.Status)
	require.NotNil(t, stored.PaidAt)

	// Confirming twice does not apply.
	ok, err = repo.UpdateStatus(ctx, payment.ID, models.PaymentStatusPending, models.PaymentStatusConfirmed, "ref_1", &now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPaymentRepositoryListConfirmedByTechnician(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	confirmedReq := insertRequest(t, db, models.RequestStatusPaid, 3)
	now := time.Now()
	require.NoError(t, repo.Create(ctx, &models.Payment{
		RequestID:    confirmedReq.ID,
		TechnicianID: 7,
		Amount:       850,
		Method:       models.PaymentMethodCard,
		Status:       models.PaymentStatusConfirmed,
		PaidAt:       &now,
	}))

	pendingReq := insertRequest(t, db, models.RequestStatusCompleted, 4)
	require.NoError(t, repo.Create(ctx, &models.Payment{
		RequestID:    pendingReq.ID,
		TechnicianID: 7,
		Amount:       700,
		Method:       models.PaymentMethodCash,
		Status:       models.PaymentStatusPending,
	}))

	list, err := repo.ListConfirmedByTechnician(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, confirmedReq.ID, list[0].RequestID)

	list, err = repo.ListConfirmedByTechnician(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, list)
}
