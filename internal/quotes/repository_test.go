package quote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printhuis/quoteportal-backend/pkg/db/models"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
)

func testQuoteRecord(t *testing.T, clientRef string) *models.QuoteRecord {
	t.Helper()

	options, err := json.Marshal(OptionsInput{TextileType: enums.TextileTypeLight, ColorCount: 2, LocationCount: 1})
	if err != nil {
		t.Fatalf("marshal options: %v", err)
	}

	return &models.QuoteRecord{
		ClientRef:      clientRef,
		Status:         enums.QuoteStatusDraft,
		DelayType:      enums.DelayTypeStandard,
		WorkingDays:    10,
		DeliveryMode:   enums.DeliveryModePickup,
		ServicesTotal:  dec("210"),
		ShippingCost:   decimal.Zero,
		GrandTotal:     dec("210"),
		IndicationDate: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		DeliveryDate:   time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
		Items: []models.QuoteItemRecord{
			{
				Position:         1,
				ProductRef:       "HOOD-3",
				Technique:        enums.TechniqueScreenPrint,
				TechniqueOptions: options,
				TotalQuantity:    20,
				UnitPrice:        dec("8.00"),
				FixedFees:        dec("50"),
				LineTotal:        dec("210"),
			},
			{
				Position:         0,
				ProductRef:       "TS-100",
				Technique:        enums.TechniqueScreenPrint,
				TechniqueOptions: options,
				TotalQuantity:    50,
				UnitPrice:        dec("3.20"),
				FixedFees:        dec("50"),
				LineTotal:        dec("210"),
			},
		},
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	created, err := repo.Create(ctx, testQuoteRecord(t, "ACME-042"))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated quote id")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find quote: %v", err)
	}
	if found.ClientRef != "ACME-042" || found.Status != enums.QuoteStatusDraft {
		t.Fatalf("unexpected record %+v", found)
	}
	if len(found.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(found.Items))
	}
	// Items come back in position order regardless of insert order.
	if found.Items[0].Position != 0 || found.Items[1].Position != 1 {
		t.Fatalf("items out of order: %d, %d", found.Items[0].Position, found.Items[1].Position)
	}

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestRepositoryListByClientRef(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := repo.Create(ctx, testQuoteRecord(t, "ACME-042")); err != nil {
			t.Fatalf("create quote %d: %v", i, err)
		}
	}
	if _, err := repo.Create(ctx, testQuoteRecord(t, "OTHER-1")); err != nil {
		t.Fatalf("create quote: %v", err)
	}

	records, err := repo.ListByClientRef(ctx, "ACME-042")
	if err != nil {
		t.Fatalf("list quotes: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(records))
	}
	for _, record := range records {
		if record.ClientRef != "ACME-042" {
			t.Fatalf("foreign quote in listing: %s", record.ClientRef)
		}
	}
}

func TestRepositoryMarkSubmitted(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	created, err := repo.Create(ctx, testQuoteRecord(t, "ACME-042"))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	submittedAt := time.Now().UTC().Truncate(time.Second)
	changed, err := repo.MarkSubmitted(ctx, created.ID, submittedAt)
	if err != nil {
		t.Fatalf("mark submitted: %v", err)
	}
	if !changed {
		t.Fatal("draft must be submittable")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find quote: %v", err)
	}
	if found.Status != enums.QuoteStatusSubmitted {
		t.Fatalf("status = %s, want submitted", found.Status)
	}
	if found.SubmittedAt == nil {
		t.Fatal("submitted_at must be set")
	}

	// Second submit does not flip anything.
	changed, err = repo.MarkSubmitted(ctx, created.ID, time.Now())
	if err != nil {
		t.Fatalf("mark submitted again: %v", err)
	}
	if changed {
		t.Fatal("already-submitted quote must not change again")
	}
}
