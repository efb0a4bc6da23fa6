package memoryRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"relocare/database/repository"
	"relocare/models"
)

func TestBookingStoreCreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()

	if err := s.Create(ctx, &models.Booking{BookingID: "BK-1", Status: models.BookingPending}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.Create(ctx, &models.Booking{BookingID: "BK-1", Status: models.BookingPending})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 booking, got %d", s.Len())
	}
}

func TestBookingStoreListNewestFirstWithStatusFilter(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewBookingStore()
	s.Put(models.Booking{BookingID: "A", Status: models.BookingPending, CreatedAt: base})
	s.Put(models.Booking{BookingID: "B", Status: models.BookingCompleted, CreatedAt: base.Add(time.Hour)})
	s.Put(models.Booking{BookingID: "C", Status: models.BookingPending, CreatedAt: base.Add(2 * time.Hour)})

	all, _ := s.List(context.Background(), models.BookingStoreFilter{})
	if got := ids(all); got != "CBA" {
		t.Fatalf("expected CBA, got %s", got)
	}
	pending, _ := s.List(context.Background(), models.BookingStoreFilter{Status: models.BookingPending})
	if got := ids(pending); got != "CA" {
		t.Fatalf("expected CA, got %s", got)
	}
}

func TestBookingStoreUpdateKeepsCreationFields(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewBookingStore()
	s.Put(models.Booking{BookingID: "X", FormType: models.FormQuick, Status: models.BookingPending, CreatedAt: created, SubmittedAt: created})

	updated, err := s.Update(ctx, &models.Booking{BookingID: "X", Status: models.BookingConfirmed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.BookingConfirmed || updated.FormType != models.FormQuick {
		t.Fatalf("unexpected booking after update: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created) || !updated.SubmittedAt.Equal(created) {
		t.Fatalf("creation timestamps changed: %+v", updated)
	}

	if _, err := s.Update(ctx, &models.Booking{BookingID: "missing"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingStoreDoesNotSharePricePointers(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		// mutate receives the store holding BK-1 at price 100 and returns
		// a pointer obtained from a store call, which the test then scribbles over.
		mutate func(t *testing.T, s *BookingStore) *float64
	}{
		{"caller pointer after create", func(t *testing.T, s *BookingStore) *float64 {
			return nil
		}},
		{"booking returned by get", func(t *testing.T, s *BookingStore) *float64 {
			b, err := s.GetByBookingID(ctx, "BK-1")
			if err != nil {
				t.Fatal(err)
			}
			return b.SubServicePrice
		}},
		{"booking returned by list", func(t *testing.T, s *BookingStore) *float64 {
			all, _ := s.List(ctx, models.BookingStoreFilter{})
			return all[0].SubServicePrice
		}},
		{"caller and result of update", func(t *testing.T, s *BookingStore) *float64 {
			p := 100.0
			in := &models.Booking{BookingID: "BK-1", Status: models.BookingConfirmed, SubServicePrice: &p}
			out, err := s.Update(ctx, in)
			if err != nil {
				t.Fatal(err)
			}
			*in.SubServicePrice = -1
			return out.SubServicePrice
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewBookingStore()
			price := 100.0
			if err := s.Create(ctx, &models.Booking{BookingID: "BK-1", Status: models.BookingPending, SubServicePrice: &price}); err != nil {
				t.Fatal(err)
			}
			price = -1
			if p := tc.mutate(t, s); p != nil {
				*p = -1
			}

			got, err := s.GetByBookingID(ctx, "BK-1")
			if err != nil {
				t.Fatal(err)
			}
			if got.SubServicePrice == nil || *got.SubServicePrice != 100 {
				t.Fatalf("stored price changed: %v", got.SubServicePrice)
			}
		})
	}
}

func TestBookingStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	s.Put(models.Booking{BookingID: "X"})

	if err := s.Delete(ctx, "X"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "X"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCatalogStoreCascadeAndOrphans(t *testing.T) {
	ctx := context.Background()
	s := NewCatalogStore()

	movers := &models.Service{Name: "Removals", NameKey: "removals", IsActive: true}
	cleaning := &models.Service{Name: "Cleaning", NameKey: "cleaning", IsActive: true}
	if err := s.CreateService(ctx, movers); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateService(ctx, cleaning); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := s.CreateSubService(ctx, &models.SubService{ServiceID: movers.ID, Name: "van", Price: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateSubService(ctx, &models.SubService{ServiceID: cleaning.ID, Name: "deep"}); err != nil {
		t.Fatal(err)
	}
	s.PutSubService(models.SubService{ServiceID: "gone", Name: "stray"})

	removed, err := s.DeleteServiceCascade(ctx, movers.ID)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 sub-services removed, got %d", removed)
	}
	left, _ := s.ListSubServices(ctx, "", false)
	if len(left) != 2 {
		t.Fatalf("expected 2 sub-services left, got %d", len(left))
	}

	orphans, _ := s.FindOrphanSubServices(ctx)
	if len(orphans) != 1 || orphans[0].Name != "stray" {
		t.Fatalf("expected the stray orphan, got %+v", orphans)
	}
	n, _ := s.DeleteSubServices(ctx, []string{orphans[0].ID, "unknown"})
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}

	if _, err := s.DeleteServiceCascade(ctx, movers.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogStoreNameKeyUnique(t *testing.T) {
	ctx := context.Background()
	s := NewCatalogStore()
	a := &models.Service{Name: "Packing", NameKey: "packing"}
	b := &models.Service{Name: "Storage", NameKey: "storage"}
	_ = s.CreateService(ctx, a)
	_ = s.CreateService(ctx, b)

	if err := s.CreateService(ctx, &models.Service{Name: "PACKING", NameKey: "packing"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on create, got %v", err)
	}
	b.NameKey = "packing"
	if err := s.UpdateService(ctx, b); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on rename, got %v", err)
	}
	exists, _ := s.ServiceNameExists(ctx, "packing", a.ID)
	if exists {
		t.Fatal("a service should not clash with itself")
	}
}

func TestUserStoreEmailAndRole(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	u := &models.User{Name: "Ada", Email: " Ada@Example.com "}
	if err := s.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	if u.Role != models.RoleUser {
		t.Fatalf("expected default role user, got %s", u.Role)
	}
	if err := s.Create(ctx, &models.User{Email: "ada@example.com"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	found, err := s.GetByEmail(ctx, "ADA@example.com")
	if err != nil || found.ID != u.ID {
		t.Fatalf("lookup by email failed: %v %+v", err, found)
	}
	updated, err := s.UpdateRole(ctx, u.ID, models.RoleAdmin)
	if err != nil || !updated.IsAdmin() {
		t.Fatalf("role update failed: %v %+v", err, updated)
	}
}

func ids(bookings []models.Booking) string {
	out := ""
	for _, b := range bookings {
		out += b.BookingID
	}
	return out
}
