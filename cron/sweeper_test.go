package cron

import (
	"context"
	"errors"
	"testing"

	memoryRepo "relocare/database/repository/memory"
	"relocare/models"
	"relocare/services/catalog"

	"go.uber.org/zap"
)

type failingSweeper struct{ calls int }

func (f *failingSweeper) SweepOrphanSubServices(context.Context) (int64, error) {
	f.calls++
	return 0, errors.New("store offline")
}

func TestSweepOnceRemovesOrphans(t *testing.T) {
	store := memoryRepo.NewCatalogStore()
	store.PutSubService(models.SubService{ID: "sub-1", ServiceID: "gone", Name: "Studio", Price: 90})
	store.PutSubService(models.SubService{ID: "sub-2", ServiceID: "gone", Name: "Loft", Price: 120})
	svc := catalog.NewDefaultCatalogService(store, nil)

	SweepOnce(context.Background(), svc, zap.NewNop())

	orphans, err := store.FindOrphanSubServices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orphans) != 0 {
		t.Fatalf("expected no orphans after sweep, got %d", len(orphans))
	}
}

func TestSweepOnceSurvivesErrors(t *testing.T) {
	f := &failingSweeper{}
	SweepOnce(context.Background(), f, zap.NewNop())
	if f.calls != 1 {
		t.Fatalf("expected one call, got %d", f.calls)
	}
}

func TestStartOrphanSweeperRejectsBadSchedule(t *testing.T) {
	if _, err := StartOrphanSweeper("every tuesday", &failingSweeper{}, nil); err == nil {
		t.Fatal("expected an error for a malformed schedule")
	}

	c, err := StartOrphanSweeper("@every 1h", &failingSweeper{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one scheduled entry, got %d", len(c.Entries()))
	}
	c.Stop()
}
