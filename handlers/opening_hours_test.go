package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storehub-backend/models"

	"github.com/google/uuid"
)

func TestCreateOpeningHours(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohcreate@test.com", "customer")

	payload := map[string]interface{}{"weekday": 4, "from_hour": "10:00", "to_hour": "18:30"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/openinghours", payload, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["weekday"] != float64(4) {
		t.Errorf("expected weekday 4, got %v", resp["weekday"])
	}
	if resp["from_hour"] != "10:00:00" || resp["to_hour"] != "18:30:00" {
		t.Errorf("expected normalized hours, got %v", resp)
	}
}

func TestCreateOpeningHoursInvalidInterval(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohbad@test.com", "customer")

	payload := map[string]interface{}{"weekday": 4, "from_hour": "18:00", "to_hour": "10:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/openinghours", payload, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateOpeningHoursInvalidWeekday(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohbadday@test.com", "customer")

	payload := map[string]interface{}{"weekday": 0, "from_hour": "08:00", "to_hour": "17:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/openinghours", payload, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateOpeningHoursUnparseableTime(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohbadtime@test.com", "customer")

	payload := map[string]interface{}{"weekday": 1, "from_hour": "not a time", "to_hour": "17:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/openinghours", payload, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateDuplicateOpeningHoursFails(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohdup@test.com", "customer")

	seedOpeningHours(db, 4, "10:00:00", "18:00:00")

	// Same triple after normalization.
	payload := map[string]interface{}{"weekday": 4, "from_hour": "10:00", "to_hour": "18:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/openinghours", payload, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.OpeningHours{}).Count(&count)
	if count != 1 {
		t.Errorf("expected single row, got %d", count)
	}
}

func TestGetOpeningHours(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohget@test.com", "customer")

	hours := seedOpeningHours(db, 2, "09:00:00", "12:00:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", fmt.Sprintf("/api/openinghours/%s", hours.ID), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["weekday"] != float64(2) || resp["from_hour"] != "09:00:00" {
		t.Errorf("unexpected response %v", resp)
	}
}

func TestGetNonExistentOpeningHours(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "oh404@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", fmt.Sprintf("/api/openinghours/%s", uuid.New()), nil, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListOpeningHoursSorted(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohlist@test.com", "customer")

	seedOpeningHours(db, 5, "08:00:00", "12:00:00")
	seedOpeningHours(db, 1, "13:00:00", "17:00:00")
	seedOpeningHours(db, 1, "08:00:00", "12:00:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/openinghours", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	results := resultsOf(parseResponse(w))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := [][2]interface{}{
		{float64(1), "08:00:00"},
		{float64(1), "13:00:00"},
		{float64(5), "08:00:00"},
	}
	for i, r := range results {
		entry := r.(map[string]interface{})
		got := [2]interface{}{entry["weekday"], entry["from_hour"]}
		if got != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got)
		}
	}
}

func TestUpdateOpeningHours(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohupdate@test.com", "customer")

	hours := seedOpeningHours(db, 2, "09:00:00", "12:00:00")

	payload := map[string]interface{}{"weekday": 3, "from_hour": "10:00", "to_hour": "14:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/openinghours/%s", hours.ID), payload, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.OpeningHours
	db.First(&reloaded, "id = ?", hours.ID)
	if reloaded.Weekday != 3 || reloaded.FromHour != "10:00:00" || reloaded.ToHour != "14:00:00" {
		t.Errorf("unexpected row after update: %+v", reloaded)
	}
}

func TestUpdateOpeningHoursConflict(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohconflict@test.com", "customer")

	seedOpeningHours(db, 1, "08:00:00", "17:00:00")
	target := seedOpeningHours(db, 2, "08:00:00", "17:00:00")

	// Would collide with the first row's triple.
	payload := map[string]interface{}{"weekday": 1, "from_hour": "08:00", "to_hour": "17:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/openinghours/%s", target.ID), payload, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.OpeningHours
	db.First(&reloaded, "id = ?", target.ID)
	if reloaded.Weekday != 2 {
		t.Errorf("expected row unchanged, got weekday %d", reloaded.Weekday)
	}
}

func TestUpdateOpeningHoursSameTripleAllowed(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohsame@test.com", "customer")

	hours := seedOpeningHours(db, 2, "08:00:00", "17:00:00")

	// Writing a row's own triple back is not a conflict.
	payload := map[string]interface{}{"weekday": 2, "from_hour": "08:00", "to_hour": "17:00"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/openinghours/%s", hours.ID), payload, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteOpeningHoursDetachesStores(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohdelete@test.com", "customer")

	hours := seedOpeningHours(db, 6, "10:00:00", "14:00:00")
	store := seedStore(db, "Weekend Shop", nil)
	attachOpeningHours(db, store, hours)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/openinghours/%s", hours.ID), nil, token))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
	}

	var pool, links, stores int64
	db.Model(&models.OpeningHours{}).Count(&pool)
	db.Table("store_opening_hours").Count(&links)
	db.Model(&models.Store{}).Count(&stores)

	if pool != 0 {
		t.Errorf("expected interval deleted, found %d", pool)
	}
	if links != 0 {
		t.Errorf("expected association rows removed, found %d", links)
	}
	if stores != 1 {
		t.Errorf("expected store to survive, found %d", stores)
	}
}

func TestDeleteNonExistentOpeningHours(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)
	_, token := seedTestUser(db, "ohdel404@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/openinghours/%s", uuid.New()), nil, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOpeningHoursEndpointsRequireToken(t *testing.T) {
	db := freshDB()
	router := setupOpeningHoursRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/openinghours", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}
