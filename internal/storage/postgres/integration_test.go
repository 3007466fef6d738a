package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/storage"
)

// TestStore_Integration runs against a real database.
// Example: SALESOPS_POSTGRES_TEST_URL="postgres://salesops@localhost:5432/salesops_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("SALESOPS_POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("SALESOPS_POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Profile", func(t *testing.T) {
		want := models.Profile{
			Username: "ana",
			Role:     constants.RoleSeller,
			Channels: []models.Channel{{ID: 2, Name: "Varejo"}},
			SellerID: "15",
		}
		if err := store.SaveProfile(want); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}
		got, err := store.GetProfile()
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if got.Username != want.Username || got.Role != want.Role || len(got.Channels) != 1 {
			t.Errorf("GetProfile() = %+v", got)
		}
		if err := store.ClearProfile(); err != nil {
			t.Fatalf("ClearProfile failed: %v", err)
		}
		if _, err := store.GetProfile(); !errors.Is(err, storage.ErrNoProfile) {
			t.Errorf("GetProfile() after clear error = %v", err)
		}
	})

	t.Run("Activity", func(t *testing.T) {
		now := time.Now()
		if err := store.RecordActivity(models.Activity{Kind: constants.ActivityTrigger, PartnerID: 3, CreatedAt: now}); err != nil {
			t.Fatalf("RecordActivity failed: %v", err)
		}
		if err := store.RecordActivity(models.Activity{ID: "not-a-uuid", Kind: constants.ActivityTrigger}); err == nil {
			t.Error("RecordActivity should reject a non-uuid id")
		}
		got, err := store.ListActivity(1)
		if err != nil {
			t.Fatalf("ListActivity failed: %v", err)
		}
		if len(got) != 1 || got[0].PartnerID != 3 {
			t.Errorf("ListActivity(1) = %+v", got)
		}
	})
}
