package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	memoryRepo "relocare/database/repository/memory"
	"relocare/handlers"
	"relocare/middleware"
	"relocare/models"
	"relocare/services/booking"
	"relocare/services/catalog"
	"relocare/services/user"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const secret = "routes-test-secret"

type testEnv struct {
	router      *gin.Engine
	bookings    *memoryRepo.BookingStore
	users       *memoryRepo.UserStore
	admin       *models.User
	member      *models.User
	adminToken  string
	memberToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bookingStore := memoryRepo.NewBookingStore()
	catalogStore := memoryRepo.NewCatalogStore()
	userStore := memoryRepo.NewUserStore()

	bookingSvc := booking.NewDefaultBookingService(bookingStore, nil, booking.Options{})
	catalogSvc := catalog.NewDefaultCatalogService(catalogStore, nil)
	userSvc := user.NewDefaultUserService(userStore, nil)

	env := &testEnv{bookings: bookingStore, users: userStore}
	env.admin = &models.User{Name: "Admin", Email: "admin@relocare.test", Role: models.RoleAdmin}
	env.member = &models.User{Name: "Member", Email: "member@relocare.test"}
	for _, u := range []*models.User{env.admin, env.member} {
		if err := userSvc.CreateUser(context.Background(), u); err != nil {
			t.Fatal(err)
		}
	}
	env.adminToken, _ = utils.GenerateToken(secret, env.admin.ID, env.admin.Email, time.Hour)
	env.memberToken, _ = utils.GenerateToken(secret, env.member.ID, env.member.Email, time.Hour)

	hb := &handlers.HandlerBundle{
		UserRepo:          userStore,
		JWTSecret:         secret,
		MaxRequestsPerMin: 6000,
		AllowedOrigins:    []string{"*"},
		Bookings:          handlers.NewBookingHandler(bookingSvc),
		Admin:             handlers.NewAdminHandler(bookingSvc, userSvc, time.UTC),
		Catalog:           handlers.NewCatalogHandler(catalogSvc),
		Session:           handlers.NewSessionHandler(userSvc),
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(zap.NewNop()), utils.ErrorHandler())
	Setup(r, hb)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q", method, path, w.Body.String())
		}
	}
	return w, out
}

func janeDoe() map[string]any {
	return map[string]any{
		"fullName":     "Jane Doe",
		"emailAddress": "jane@x.com",
		"phoneNumber":  "0400000000",
		"serviceId":    "S1",
		"serviceName":  "House Removals",
		"details":      "Need a 3-bedroom house moved next week",
	}
}

func TestCreateBookingIsPublicAndForcedPending(t *testing.T) {
	env := newTestEnv(t)
	body := janeDoe()
	body["status"] = "completed"
	body["submittedAt"] = "2025-05-01T08:30:00Z"

	w, resp := env.do(t, http.MethodPost, "/api/bookings", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	id, _ := resp["bookingId"].(string)
	if !strings.HasPrefix(id, "BK-") {
		t.Fatalf("unexpected booking id %q", id)
	}
	stored, err := env.bookings.GetByBookingID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.BookingPending {
		t.Fatalf("expected pending, got %s", stored.Status)
	}

	b := resp["booking"].(map[string]any)
	if b["submittedAt"] != "2025-05-01T08:30:00Z" {
		t.Fatalf("submittedAt not canonical: %v", b["submittedAt"])
	}
	if _, err := time.Parse(time.RFC3339Nano, b["createdAt"].(string)); err != nil {
		t.Fatalf("createdAt not ISO-8601: %v", b["createdAt"])
	}
}

func TestCreateBookingValidationEnvelope(t *testing.T) {
	env := newTestEnv(t)
	body := janeDoe()
	delete(body, "fullName")
	body["emailAddress"] = "nope"

	w, resp := env.do(t, http.MethodPost, "/api/bookings", "", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp["success"] != false || resp["error"] == "" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
	fields := fmt.Sprint(resp["fields"])
	if !strings.Contains(fields, "fullName") || !strings.Contains(fields, "emailAddress") {
		t.Fatalf("expected offending fields, got %v", fields)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/bookings"},
		{http.MethodPut, "/api/bookings/BK-1"},
		{http.MethodDelete, "/api/bookings/BK-1"},
		{http.MethodGet, "/api/admin/bookings"},
		{http.MethodGet, "/api/admin/bookings/stats"},
		{http.MethodPost, "/api/admin/services"},
		{http.MethodDelete, "/api/admin/services/abc"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPut, "/api/admin/users/abc/role"},
		{http.MethodPost, "/api/admin/maintenance/orphan-sub-services"},
	}
	for _, p := range paths {
		if w, _ := env.do(t, p.method, p.path, "", nil); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without session: expected 401, got %d", p.method, p.path, w.Code)
		}
		if w, _ := env.do(t, p.method, p.path, env.memberToken, nil); w.Code != http.StatusForbidden {
			t.Fatalf("%s %s as member: expected 403, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestAdminBookingsStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		status := []models.BookingStatus{models.BookingPending, models.BookingConfirmed, models.BookingCompleted}[i%3]
		if i < 3 {
			status = models.BookingCancelled
		}
		env.bookings.Put(models.Booking{
			BookingID:   fmt.Sprintf("BK-%02d", i),
			FullName:    fmt.Sprintf("Customer %d", i),
			Status:      status,
			SubmittedAt: base.Add(time.Duration(i) * time.Hour),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}

	w, resp := env.do(t, http.MethodGet, "/api/admin/bookings?status=cancelled", env.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := resp["bookings"].([]any)
	if len(list) != 3 {
		t.Fatalf("expected 3 cancelled bookings, got %d", len(list))
	}
	for _, item := range list {
		if item.(map[string]any)["status"] != "cancelled" {
			t.Fatalf("unexpected booking in result: %v", item)
		}
	}
	pagination := resp["pagination"].(map[string]any)
	if pagination["total"].(float64) != 3 {
		t.Fatalf("unexpected pagination: %v", pagination)
	}

	_, resp = env.do(t, http.MethodGet, "/api/admin/bookings?search=customer%207", env.adminToken, nil)
	if got := len(resp["bookings"].([]any)); got != 1 {
		t.Fatalf("expected 1 search hit, got %d", got)
	}
	_, resp = env.do(t, http.MethodGet, "/api/admin/bookings?limit=4&page=3", env.adminToken, nil)
	if got := len(resp["bookings"].([]any)); got != 2 {
		t.Fatalf("expected 2 bookings on the last page, got %d", got)
	}

	if w, _ := env.do(t, http.MethodGet, "/api/admin/bookings?status=archived", env.adminToken, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status filter, got %d", w.Code)
	}
	if w, _ := env.do(t, http.MethodGet, "/api/admin/bookings?page=zero", env.adminToken, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page, got %d", w.Code)
	}

	_, resp = env.do(t, http.MethodGet, "/api/admin/bookings/stats", env.adminToken, nil)
	stats := resp["stats"].(map[string]any)
	sum := 0.0
	for _, k := range []string{"pending", "confirmed", "inProgress", "completed", "cancelled"} {
		sum += stats[k].(float64)
	}
	if sum != stats["totalBookings"].(float64) || sum != 10 {
		t.Fatalf("stats do not add up: %v", stats)
	}
}

func TestBookingStatusLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	_, created := env.do(t, http.MethodPost, "/api/bookings", "", janeDoe())
	id := created["bookingId"].(string)
	path := "/api/bookings/" + id

	for _, status := range []string{"confirmed", "completed"} {
		w, resp := env.do(t, http.MethodPut, path, env.adminToken, map[string]any{"status": status})
		if w.Code != http.StatusOK || resp["success"] != true {
			t.Fatalf("PUT %s: %d %v", status, w.Code, resp)
		}
	}

	w, resp := env.do(t, http.MethodPut, path, env.adminToken, map[string]any{"status": "lost"})
	if w.Code != http.StatusBadRequest || resp["success"] != false {
		t.Fatalf("expected 400 for invalid status, got %d %v", w.Code, resp)
	}

	// The public status endpoint ignores contact fields.
	_, _ = env.do(t, http.MethodPut, path, env.adminToken, map[string]any{"notes": "done", "fullName": "Someone Else"})
	_, resp = env.do(t, http.MethodGet, path, env.adminToken, nil)
	b := resp["booking"].(map[string]any)
	if b["status"] != "completed" || b["notes"] != "done" || b["fullName"] != "Jane Doe" {
		t.Fatalf("unexpected booking state: %v", b)
	}

	// The admin edit does accept them.
	w, _ = env.do(t, http.MethodPut, "/api/admin/bookings/"+id, env.adminToken, map[string]any{"fullName": "Jane Smith"})
	if w.Code != http.StatusOK {
		t.Fatalf("admin edit: %d", w.Code)
	}
	_, resp = env.do(t, http.MethodGet, "/api/admin/bookings/"+id, env.adminToken, nil)
	if resp["booking"].(map[string]any)["fullName"] != "Jane Smith" {
		t.Fatalf("admin edit not applied: %v", resp)
	}

	w, resp = env.do(t, http.MethodDelete, path, env.adminToken, nil)
	if w.Code != http.StatusOK || resp["bookingId"] != id {
		t.Fatalf("delete: %d %v", w.Code, resp)
	}
	if w, _ := env.do(t, http.MethodGet, path, env.adminToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestServiceCrudAndCascadeOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	w, resp := env.do(t, http.MethodPost, "/api/admin/services", env.adminToken, map[string]any{
		"name":        "House Removals",
		"description": "Whole-house moves",
		"category":    "moving",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create service: %d %s", w.Code, w.Body.String())
	}
	svcID := resp["service"].(map[string]any)["id"].(string)

	if w, _ := env.do(t, http.MethodPost, "/api/admin/services", env.adminToken, map[string]any{
		"name": "house removals", "description": "dup",
	}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d", w.Code)
	}

	var subIDs []string
	for i := 0; i < 3; i++ {
		w, resp := env.do(t, http.MethodPost, "/api/admin/services/"+svcID+"/sub-services", env.adminToken, map[string]any{
			"name":     fmt.Sprintf("%d bedroom", i+1),
			"price":    100 * (i + 1),
			"features": []string{"truck", "two movers"},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create sub-service: %d %s", w.Code, w.Body.String())
		}
		subIDs = append(subIDs, resp["subService"].(map[string]any)["id"].(string))
	}

	_, resp = env.do(t, http.MethodGet, "/api/services", "", nil)
	services := resp["services"].([]any)
	if len(services) != 1 || len(services[0].(map[string]any)["subServices"].([]any)) != 3 {
		t.Fatalf("unexpected public catalogue: %v", resp)
	}

	w, resp = env.do(t, http.MethodDelete, "/api/admin/services/"+svcID, env.adminToken, nil)
	if w.Code != http.StatusOK || resp["subServicesRemoved"].(float64) != 3 {
		t.Fatalf("cascade delete: %d %v", w.Code, resp)
	}
	for _, id := range subIDs {
		if w, _ := env.do(t, http.MethodGet, "/api/admin/services/"+svcID+"/sub-services/"+id, env.adminToken, nil); w.Code != http.StatusNotFound {
			t.Fatalf("sub-service %s still reachable: %d", id, w.Code)
		}
	}

	w, resp = env.do(t, http.MethodPost, "/api/admin/maintenance/orphan-sub-services", env.adminToken, nil)
	if w.Code != http.StatusOK || resp["removed"].(float64) != 0 {
		t.Fatalf("orphan sweep: %d %v", w.Code, resp)
	}
}

func TestUserRoleRoutes(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPut, "/api/admin/users/"+env.admin.ID+"/role", env.adminToken, map[string]any{"role": "user"})
	if w.Code != http.StatusBadRequest || resp["error"] != "you cannot remove your own admin role" {
		t.Fatalf("expected self-demotion to be rejected, got %d %v", w.Code, resp)
	}
	stored, _ := env.users.GetByID(context.Background(), env.admin.ID)
	if stored.Role != models.RoleAdmin {
		t.Fatalf("admin role changed to %s", stored.Role)
	}

	w, _ = env.do(t, http.MethodPut, "/api/admin/users/"+env.member.ID+"/role", env.adminToken, map[string]any{"role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("promotion failed: %d", w.Code)
	}
	_, resp = env.do(t, http.MethodGet, "/api/auth/session", env.memberToken, nil)
	if resp["isAdmin"] != true {
		t.Fatalf("promoted member should be admin: %v", resp)
	}

	_, resp = env.do(t, http.MethodGet, "/api/admin/users", env.adminToken, nil)
	if len(resp["users"].([]any)) != 2 {
		t.Fatalf("expected 2 users: %v", resp)
	}
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv(t)
	utils.RunHealthChecks(context.Background(), map[string]utils.HealthCheck{
		"store": func(context.Context) error { return nil },
	})
	w, resp := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", w.Code, resp)
	}
}
