package catalog

import (
	"context"
	"testing"

	memoryRepo "relocare/database/repository/memory"
	"relocare/models"
	"relocare/utils"
)

func newTestCatalog() (*DefaultCatalogService, *memoryRepo.CatalogStore) {
	store := memoryRepo.NewCatalogStore()
	return NewDefaultCatalogService(store, nil), store
}

func ptrF(v float64) *float64 { return &v }
func ptrS(v string) *string   { return &v }
func ptrB(v bool) *bool       { return &v }

func mustService(t *testing.T, svc *DefaultCatalogService, name string) *models.Service {
	t.Helper()
	created, err := svc.CreateService(context.Background(), models.ServiceInput{Name: name, Description: name + " description"})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return created
}

func TestCreateServiceDefaults(t *testing.T) {
	svc, _ := newTestCatalog()
	created := mustService(t, svc, "  House Removals ")

	if created.Name != "House Removals" || created.Title != "House Removals" {
		t.Fatalf("unexpected name/title: %q / %q", created.Name, created.Title)
	}
	if created.PriceType != models.PriceFixed || !created.IsActive {
		t.Fatalf("unexpected defaults: %+v", created)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("generated fields missing: %+v", created)
	}
}

func TestCreateServiceValidation(t *testing.T) {
	svc, _ := newTestCatalog()
	cases := []models.ServiceInput{
		{Name: "", Description: "x"},
		{Name: "Packing", Description: "  "},
		{Name: "Packing", Description: "x", PriceType: "per_box"},
		{Name: "Packing", Description: "x", BasePrice: ptrF(-5)},
	}
	for i, in := range cases {
		if _, err := svc.CreateService(context.Background(), in); !utils.IsKind(err, utils.KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestServiceNameUniqueCaseInsensitive(t *testing.T) {
	svc, _ := newTestCatalog()
	mustService(t, svc, "Pest Control")
	other := mustService(t, svc, "Storage")

	_, err := svc.CreateService(context.Background(), models.ServiceInput{Name: "PEST control", Description: "dup"})
	if !utils.IsKind(err, utils.KindConflict) {
		t.Fatalf("expected conflict on create, got %v", err)
	}
	_, err = svc.UpdateService(context.Background(), other.ID, models.ServicePatch{Name: ptrS(" pest CONTROL")})
	if !utils.IsKind(err, utils.KindConflict) {
		t.Fatalf("expected conflict on rename, got %v", err)
	}
	if _, err := svc.UpdateService(context.Background(), other.ID, models.ServicePatch{Name: ptrS("STORAGE")}); err != nil {
		t.Fatalf("renaming to own name in another case should pass: %v", err)
	}
}

func TestUpdateServiceTitleFollowsRename(t *testing.T) {
	svc, _ := newTestCatalog()
	created := mustService(t, svc, "Cleaning")

	updated, err := svc.UpdateService(context.Background(), created.ID, models.ServicePatch{Name: ptrS("End of Lease Cleaning")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "End of Lease Cleaning" {
		t.Fatalf("title should follow rename, got %q", updated.Title)
	}

	_, _ = svc.UpdateService(context.Background(), created.ID, models.ServicePatch{Title: ptrS("Bond Cleaning")})
	updated, _ = svc.UpdateService(context.Background(), created.ID, models.ServicePatch{Name: ptrS("Vacate Cleaning")})
	if updated.Title != "Bond Cleaning" {
		t.Fatalf("custom title should be kept, got %q", updated.Title)
	}

	_, err = svc.UpdateService(context.Background(), created.ID, models.ServicePatch{Description: ptrS("")})
	if !utils.IsKind(err, utils.KindValidation) {
		t.Fatalf("expected validation error for empty description, got %v", err)
	}
	_, err = svc.UpdateService(context.Background(), "missing", models.ServicePatch{Category: ptrS("x")})
	if !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteServiceCascades(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()
	parent := mustService(t, svc, "Removals")
	keep := mustService(t, svc, "Storage")

	var subIDs []string
	for _, name := range []string{"1 bedroom", "2 bedroom", "3 bedroom", "4 bedroom"} {
		sub, err := svc.CreateSubService(ctx, parent.ID, models.SubServiceInput{Name: name, Price: ptrF(100)})
		if err != nil {
			t.Fatal(err)
		}
		subIDs = append(subIDs, sub.ID)
	}
	kept, _ := svc.CreateSubService(ctx, keep.ID, models.SubServiceInput{Name: "unit", Price: ptrF(0)})

	removed, err := svc.DeleteService(ctx, parent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if removed != int64(len(subIDs)) {
		t.Fatalf("expected %d removed, got %d", len(subIDs), removed)
	}
	for _, id := range subIDs {
		if _, err := svc.GetSubService(ctx, parent.ID, id); !utils.IsKind(err, utils.KindNotFound) {
			t.Fatalf("sub-service %s survived: %v", id, err)
		}
	}
	if _, err := svc.GetSubService(ctx, keep.ID, kept.ID); err != nil {
		t.Fatalf("unrelated sub-service removed: %v", err)
	}
	if _, err := svc.DeleteService(ctx, parent.ID); !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSubServiceScopedToParent(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()
	a := mustService(t, svc, "A")
	other := mustService(t, svc, "B")

	sub, err := svc.CreateSubService(ctx, a.ID, models.SubServiceInput{
		Name:     "Van",
		Price:    ptrF(0),
		Features: []string{" two movers ", "", "blankets"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Features) != 2 || sub.Features[0] != "two movers" {
		t.Fatalf("features not cleaned: %v", sub.Features)
	}
	if _, err := svc.GetSubService(ctx, other.ID, sub.ID); !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("expected not found under wrong parent, got %v", err)
	}
	if err := svc.DeleteSubService(ctx, other.ID, sub.ID); !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("expected not found deleting under wrong parent, got %v", err)
	}
	if _, err := svc.CreateSubService(ctx, "missing", models.SubServiceInput{Name: "x", Price: ptrF(1)}); !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("expected not found for missing parent, got %v", err)
	}
	if _, err := svc.CreateSubService(ctx, a.ID, models.SubServiceInput{Name: "x"}); !utils.IsKind(err, utils.KindValidation) {
		t.Fatalf("expected validation error for missing price, got %v", err)
	}

	updated, err := svc.UpdateSubService(ctx, a.ID, sub.ID, models.SubServicePatch{Price: ptrF(250), IsActive: ptrB(false)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price != 250 || updated.IsActive || updated.Name != "Van" {
		t.Fatalf("unexpected update: %+v", updated)
	}
}

func TestPublicCatalogHidesInactive(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()
	active := mustService(t, svc, "Active")
	hidden, _ := svc.CreateService(ctx, models.ServiceInput{Name: "Hidden", Description: "d", IsActive: ptrB(false)})

	_, _ = svc.CreateSubService(ctx, active.ID, models.SubServiceInput{Name: "on", Price: ptrF(1)})
	_, _ = svc.CreateSubService(ctx, active.ID, models.SubServiceInput{Name: "off", Price: ptrF(2), IsActive: ptrB(false)})

	list, err := svc.ListPublicServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != active.ID || len(list[0].SubServices) != 1 {
		t.Fatalf("unexpected public catalogue: %+v", list)
	}
	if _, err := svc.GetPublicService(ctx, hidden.ID); !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("inactive service should be hidden, got %v", err)
	}

	all, _ := svc.ListServices(ctx)
	if len(all) != 2 {
		t.Fatalf("admin listing should include inactive services, got %d", len(all))
	}
}

func TestSweepOrphanSubServices(t *testing.T) {
	svc, store := newTestCatalog()
	ctx := context.Background()
	parent := mustService(t, svc, "Parent")
	_, _ = svc.CreateSubService(ctx, parent.ID, models.SubServiceInput{Name: "child", Price: ptrF(1)})
	store.PutSubService(models.SubService{ServiceID: "deleted-1", Name: "orphan a"})
	store.PutSubService(models.SubService{ServiceID: "deleted-2", Name: "orphan b"})

	removed, err := svc.SweepOrphanSubServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 orphans removed, got %d", removed)
	}
	again, _ := svc.SweepOrphanSubServices(ctx)
	if again != 0 {
		t.Fatalf("second sweep should find nothing, got %d", again)
	}
	subs, _ := svc.ListSubServices(ctx, parent.ID)
	if len(subs) != 1 {
		t.Fatalf("live sub-service should remain, got %d", len(subs))
	}
}
