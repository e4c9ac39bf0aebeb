package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"resume-analyzer/internal/domain"

	"github.com/google/uuid"
)

func TestAppendWithoutDatabaseFails(t *testing.T) {
	repo := NewPaymentsRepo(nil)

	err := repo.Append(context.Background(), domain.PaymentRecord{
		ID:        uuid.New(),
		UserID:    "user-1",
		IntentID:  "pi_1",
		Amount:    500,
		Status:    domain.PaymentSucceeded,
		CreatedAt: time.Now().UTC(),
	})

	if !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("a confirmed charge must not be reported as recorded without a store, got %v", err)
	}
}

func TestListWithoutDatabaseFails(t *testing.T) {
	repo := NewPaymentsRepo(nil)

	if _, err := repo.List(context.Background(), "user-1"); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
}
