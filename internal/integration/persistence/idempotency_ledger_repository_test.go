package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	"github.com/fitness-tracker/companion/internal/integration/persistence/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func entry(key string) entity.IdempotencyEntry {
	return entity.IdempotencyEntry{EffectKey: key, FiredAt: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
}

// ledgerContract runs the behaviour every IdempotencyLedger must honour.
func ledgerContract(t *testing.T, newLedger func(t *testing.T) adapter.IdempotencyLedger) {
	ctx := context.Background()

	t.Run("insert is first-writer-wins", func(t *testing.T) {
		l := newLedger(t)

		inserted, err := l.Insert(ctx, entry("goal|g1|completed"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !inserted {
			t.Error("expected first insert to succeed")
		}

		inserted, err = l.Insert(ctx, entry("goal|g1|completed"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inserted {
			t.Error("expected duplicate insert to be rejected")
		}

		exists, err := l.Exists(ctx, "goal|g1|completed")
		if err != nil || !exists {
			t.Errorf("expected key to exist, got %v (err %v)", exists, err)
		}
		exists, _ = l.Exists(ctx, "goal|g2|completed")
		if exists {
			t.Error("expected unknown key not to exist")
		}
	})

	t.Run("generations start at zero and advance by one", func(t *testing.T) {
		l := newLedger(t)

		gen, err := l.Generation(ctx, "water|2026-10-16")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gen != 0 {
			t.Errorf("expected generation 0, got %d", gen)
		}

		for want := int64(1); want <= 3; want++ {
			got, err := l.AdvanceGeneration(ctx, "water|2026-10-16")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Errorf("expected generation %d, got %d", want, got)
			}
		}

		if gen, _ := l.Generation(ctx, "water|2026-10-17"); gen != 0 {
			t.Errorf("expected scopes to be independent, got %d", gen)
		}
	})

	t.Run("concurrent inserts of one key succeed once", func(t *testing.T) {
		l := newLedger(t)

		var wg sync.WaitGroup
		var wins atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, err := l.Insert(ctx, entry("water|2026-10-16|threshold-crossing|0")); err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		if got := wins.Load(); got != 1 {
			t.Errorf("expected exactly 1 successful insert, got %d", got)
		}
	})
}

func TestMemoryLedger(t *testing.T) {
	ledgerContract(t, func(*testing.T) adapter.IdempotencyLedger {
		return NewMemoryLedger()
	})
}

func TestIdempotencyLedgerRepository(t *testing.T) {
	ledgerContract(t, func(t *testing.T) adapter.IdempotencyLedger {
		return NewIdempotencyLedgerRepository(openTestDB(t), "account-1", nil)
	})

	t.Run("entries survive a new repository on the same database", func(t *testing.T) {
		ctx := context.Background()
		db := openTestDB(t)

		first := NewIdempotencyLedgerRepository(db, "account-1", nil)
		if ok, _ := first.Insert(ctx, entry("goal|g1|completed")); !ok {
			t.Fatal("expected insert to succeed")
		}
		if _, err := first.AdvanceGeneration(ctx, "water|2026-10-16"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		restarted := NewIdempotencyLedgerRepository(db, "account-1", nil)
		if ok, _ := restarted.Insert(ctx, entry("goal|g1|completed")); ok {
			t.Error("expected key recorded before restart to be rejected")
		}
		if gen, _ := restarted.Generation(ctx, "water|2026-10-16"); gen != 1 {
			t.Errorf("expected generation 1 after restart, got %d", gen)
		}
	})

	t.Run("generation updates are stamped by the injected clock", func(t *testing.T) {
		ctx := context.Background()
		db := openTestDB(t)
		stamp := time.Date(2026, 10, 16, 21, 30, 0, 0, time.UTC)
		repo := NewIdempotencyLedgerRepository(db, "account-1", adapter.ClockFunc(func() time.Time { return stamp }))

		for i := 0; i < 2; i++ {
			if _, err := repo.AdvanceGeneration(ctx, "water|2026-10-16"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		var row model.LedgerGenerationModel
		if err := db.Where("namespace = ? AND scope = ?", "account-1", "water|2026-10-16").First(&row).Error; err != nil {
			t.Fatalf("failed to read generation row: %v", err)
		}
		if !row.UpdatedAt.Equal(stamp) {
			t.Errorf("expected updated_at %v, got %v", stamp, row.UpdatedAt)
		}
		if row.Generation != 2 {
			t.Errorf("expected generation 2, got %d", row.Generation)
		}
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		ctx := context.Background()
		db := openTestDB(t)

		a := NewIdempotencyLedgerRepository(db, "account-a", nil)
		b := NewIdempotencyLedgerRepository(db, "account-b", nil)

		if ok, _ := a.Insert(ctx, entry("goal|g1|completed")); !ok {
			t.Fatal("expected insert in namespace a to succeed")
		}
		if ok, _ := b.Insert(ctx, entry("goal|g1|completed")); !ok {
			t.Error("expected the same key in namespace b to succeed")
		}
	})
}
