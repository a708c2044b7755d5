package rdb

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vlatan/storytime/internal/models"
)

func TestGetVersionedData(t *testing.T) {

	versionKey, cacheKey := "stories:version:test", "stories:test"
	t.Cleanup(func() {
		testRdb.Client.Del(
			baseCtx,
			versionKey,
			versionedKey(cacheKey, 0),
			versionedKey(cacheKey, 1),
		)
	})

	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := models.Stories{{ID: "first", Title: "first", CreatedAt: day}}
	second := models.StorySummary{ID: "second", Title: "second", CreatedAt: day.Add(time.Hour)}

	// The reader loads the table, then a writer inserts
	// and bumps the version before the reader caches its copy
	stale, err := GetVersionedData(baseCtx, testRdb, versionKey, cacheKey, time.Minute,
		func() (models.Stories, error) {
			snapshot := slices.Clone(table)
			table = append(models.Stories{second}, table...)
			testRdb.Bump(baseCtx, versionKey, cacheKey)
			return snapshot, nil
		},
	)

	if err != nil {
		t.Fatal(err)
	}

	if len(stale) != 1 {
		t.Fatalf("got %d stories, want 1", len(stale))
	}

	// The next read misses the stale entry and sees the insert
	calls := 0
	load := func() (models.Stories, error) {
		calls++
		return slices.Clone(table), nil
	}

	for range 2 {
		got, err := GetVersionedData(baseCtx, testRdb, versionKey, cacheKey, time.Minute, load)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(table, got); diff != "" {
			t.Errorf("stories mismatch (-want +got):\n%s", diff)
		}
	}

	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestGetVersionedDataFallback(t *testing.T) {

	errorRdb, err := New(testCfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err = errorRdb.Client.Close(); err != nil {
		t.Fatal(err)
	}

	want := models.Stories{{ID: "direct"}}
	load := func() (models.Stories, error) { return want, nil }

	tests := []struct {
		name string
		rdb  *Service
	}{
		{"nil rdb", nil},
		{"closed client", errorRdb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetVersionedData(baseCtx, tt.rdb, "version", "key", time.Minute, load)
			if err != nil {
				t.Fatalf("got error = %v, want nil", err)
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("stories mismatch (-want +got):\n%s", diff)
			}

			// Must not panic
			tt.rdb.Bump(baseCtx, "version", "key")
		})
	}

	if _, err := GetVersionedData(noCtx, testRdb, "version", "key", time.Minute, load); !errors.Is(err, noCtx.Err()) {
		t.Errorf("got error = %v, want a cancelled context error", err)
	}
}
