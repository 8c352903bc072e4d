package persist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/yac28938-hash/invdash/internal/ledger"
)

func TestFileLoadMissingReturnsNil(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	st, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st != nil {
		t.Fatalf("expected nil state for missing file")
	}
}

func TestFileSaveLoadRoundTrip(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "data", "snapshot.json"))
	want := ledger.Seed(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	if err := f.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatalf("load returned nil state")
	}
	if len(got.Products) != len(want.Products) || len(got.ARRecords) != len(want.ARRecords) {
		t.Fatalf("round trip lost entities: %d products, %d ar records",
			len(got.Products), len(got.ARRecords))
	}
	if got.Products[0] != want.Products[0] {
		t.Fatalf("product mismatch: %+v != %+v", got.Products[0], want.Products[0])
	}
	if got.Customers[0].ARBalance != want.Customers[0].ARBalance {
		t.Fatalf("arBalance mismatch")
	}
}

func TestFileSaveOverwrites(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "snapshot.json"))
	st := ledger.Seed(time.Now())

	if err := f.Save(context.Background(), st); err != nil {
		t.Fatalf("save: %v", err)
	}
	st.Products[0].Stock = 7
	if err := f.Save(context.Background(), st); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Products[0].Stock != 7 {
		t.Fatalf("stock = %v, want overwritten value 7", got.Products[0].Stock)
	}
}
