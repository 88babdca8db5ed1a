package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&DetectionRecord{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestDetectionRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewDetectionRepository(newTestDB(t))

	record := &DetectionRecord{
		RequestID:            "req-1",
		FingerprintHex:       "abcd1234",
		Language:             "english",
		Classification:       "AI_GENERATED",
		Confidence:           0.8231,
		AudioDurationSeconds: 1.56,
		ProcessingTimeMs:     2.4,
		PayloadBytes:         1600,
		Explanation:          datatypes.JSON([]byte(`{"primary_indicators":[]}`)),
	}

	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := repo.FindByRequestID(ctx, "req-1")
	if err != nil {
		t.Fatalf("FindByRequestID error: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Classification != "AI_GENERATED" {
		t.Errorf("expected classification AI_GENERATED, got %s", got.Classification)
	}
	if got.Confidence != 0.8231 {
		t.Errorf("expected confidence 0.8231, got %f", got.Confidence)
	}
}

func TestDetectionRepository_FindByRequestID_Missing(t *testing.T) {
	ctx := context.Background()
	repo := NewDetectionRepository(newTestDB(t))

	got, err := repo.FindByRequestID(ctx, "absent")
	if err != nil {
		t.Fatalf("FindByRequestID error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing record, got %+v", got)
	}
}

func TestDetectionRepository_FindRecentAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewDetectionRepository(newTestDB(t))

	for i := 0; i < 5; i++ {
		label := "HUMAN_SPEECH"
		if i%2 == 0 {
			label = "AI_GENERATED"
		}
		err := repo.Save(ctx, &DetectionRecord{
			RequestID:      fmt.Sprintf("req-%d", i),
			Language:       "tamil",
			Classification: label,
		})
		if err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	records, err := repo.FindRecent(ctx, 3)
	if err != nil {
		t.Fatalf("FindRecent error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}

	aiCount, err := repo.CountByClassification(ctx, "AI_GENERATED")
	if err != nil {
		t.Fatalf("CountByClassification error: %v", err)
	}
	if aiCount != 3 {
		t.Errorf("expected 3 AI_GENERATED records, got %d", aiCount)
	}
}
