package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/db"
	"prixfinance-backend-go/internal/middleware"
)

type testServer struct {
	router   *gin.Engine
	services *core.Services
	store    *db.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := db.NewMemoryStore()
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	services := core.NewServices(store, nil, zap.NewNop(), core.ServiceOptions{
		ActivityAsync:        false,
		ActivityWriteTimeout: time.Second,
		Clock: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	logger := zap.NewNop()
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(logger))
	SetupRoutes(r, logger, services, middleware.NewMetrics(logger))
	return &testServer{router: r, services: services, store: store}
}

func (s *testServer) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload string
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = string(raw)
	}
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createUser(t *testing.T, email string) string {
	t.Helper()
	w := s.post(t, "/users/create", map[string]interface{}{"email": email})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decodeObject(t, w)["userId"].(string)
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode object %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list %q: %v", w.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	if got := decodeObject(t, w)["error"]; got != message {
		t.Fatalf("expected error %q, got %q", message, got)
	}
}

func activityFor(t *testing.T, s *testServer, email string) []string {
	t.Helper()
	w := s.post(t, "/activity/list", map[string]interface{}{"email": email})
	if w.Code != http.StatusOK {
		t.Fatalf("activity list: %d %s", w.Code, w.Body.String())
	}
	var out []string
	for _, e := range decodeList(t, w) {
		out = append(out, e["activityDescription"].(string))
	}
	return out
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestUsers(t *testing.T) {
	s := newTestServer(t)
	userID := s.createUser(t, "ana@example.com")

	expectError(t, s.post(t, "/users/create", map[string]interface{}{"email": "ana@example.com"}),
		http.StatusBadRequest, "A user with that email already exists.")
	expectError(t, s.post(t, "/users/create", nil),
		http.StatusBadRequest, "Email is required to create a user.")
	expectError(t, s.post(t, "/users/get", map[string]interface{}{"email": "zed@example.com"}),
		http.StatusNotFound, "User with email 'zed@example.com' not found.")

	w := s.post(t, "/users/update", map[string]interface{}{"email": "ana@example.com", "displayName": "Ana"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeObject(t, w); body["message"] != "User updated" || body["userId"] != userID {
		t.Fatalf("unexpected update body %v", body)
	}

	w = s.post(t, "/users/get", map[string]interface{}{"email": "ana@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	user := decodeObject(t, w)
	if user["id"] != userID || user["displayName"] != "Ana" || user["email"] != "ana@example.com" {
		t.Fatalf("unexpected user %v", user)
	}
	if _, ok := user["createdAt"]; !ok {
		t.Fatal("expected createdAt in user document")
	}

	if !contains(activityFor(t, s, "ana@example.com"), "Updated user profile") {
		t.Fatal("expected profile update to be recorded")
	}
}

func TestSettings(t *testing.T) {
	s := newTestServer(t)
	userID := s.createUser(t, "ana@example.com")

	expectError(t, s.post(t, "/users/settings/get", map[string]interface{}{"email": "ana@example.com"}),
		http.StatusNotFound, "No settings found for this user.")
	expectError(t, s.post(t, "/users/settings/update", map[string]interface{}{"email": "x@example.com", "theme": "dark"}),
		http.StatusNotFound, "User with email 'x@example.com' not found.")

	w := s.post(t, "/users/settings/update", map[string]interface{}{"email": "ana@example.com", "theme": "dark"})
	if w.Code != http.StatusOK || decodeObject(t, w)["message"] != "Settings updated" {
		t.Fatalf("settings update: %d %s", w.Code, w.Body.String())
	}
	w = s.post(t, "/users/settings/get", map[string]interface{}{"email": "ana@example.com"})
	settings := decodeObject(t, w)
	if settings["id"] != userID || settings["theme"] != "dark" {
		t.Fatalf("unexpected settings %v", settings)
	}
	if _, ok := settings["email"]; ok {
		t.Fatal("expected email not to be stored in settings")
	}
}

func TestBudgets(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "ana@example.com")
	create := map[string]interface{}{
		"email": "ana@example.com", "category": "Food", "amount": "300",
		"startDate": "2024-01-01", "endDate": "2024-01-31",
	}

	w := s.post(t, "/budgets/create", create)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeObject(t, w); body["message"] != "Budget created" || body["id"] == "" {
		t.Fatalf("unexpected create body %v", body)
	}
	expectError(t, s.post(t, "/budgets/create", create),
		http.StatusBadRequest, `A budget with category "Food" already exists for this user.`)
	expectError(t, s.post(t, "/budgets/create", map[string]interface{}{"email": "ana@example.com", "category": "Rent"}),
		http.StatusBadRequest, "Missing required fields.")
	expectError(t, s.post(t, "/budgets/create", map[string]interface{}{
		"email": "ana@example.com", "category": "Rent", "amount": "a lot", "startDate": "2024-01-01", "endDate": "2024-01-31",
	}), http.StatusBadRequest, `Field "amount" must be numeric.`)

	w = s.post(t, "/budgets/update", map[string]interface{}{"email": "ana@example.com", "category": "Food", "amount": 350})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	w = s.post(t, "/budgets/get", map[string]interface{}{"email": "ana@example.com", "category": "Food"})
	budget := decodeObject(t, w)
	if budget["amount"] != float64(350) {
		t.Fatalf("expected amount 350, got %v", budget["amount"])
	}
	if budget["startDate"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("expected startDate to be kept, got %v", budget["startDate"])
	}

	w = s.post(t, "/budgets/update", map[string]interface{}{"email": "ana@example.com", "category": "Food", "amount": nil, "startDate": nil})
	if w.Code != http.StatusOK {
		t.Fatalf("null update: %d %s", w.Code, w.Body.String())
	}
	w = s.post(t, "/budgets/get", map[string]interface{}{"email": "ana@example.com", "category": "Food"})
	budget = decodeObject(t, w)
	if budget["amount"] != float64(350) || budget["startDate"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("expected null fields to be ignored, got amount=%v startDate=%v", budget["amount"], budget["startDate"])
	}

	w = s.post(t, "/budgets/list", map[string]interface{}{"email": "ana@example.com"})
	if got := decodeList(t, w); len(got) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(got))
	}

	w = s.post(t, "/budgets/delete", map[string]interface{}{"email": "ana@example.com", "category": "Food"})
	if w.Code != http.StatusOK || decodeObject(t, w)["message"] != "Budget deleted" {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	expectError(t, s.post(t, "/budgets/get", map[string]interface{}{"email": "ana@example.com", "category": "Food"}),
		http.StatusNotFound, `No budget found for category "Food"`)
	expectError(t, s.post(t, "/budgets/delete", map[string]interface{}{"email": "ana@example.com", "category": "Food"}),
		http.StatusNotFound, `No budget found for category "Food"`)

	activity := activityFor(t, s, "ana@example.com")
	for _, want := range []string{
		"Created a new budget for category: Food",
		"Updated budget for category: Food",
		"Deleted budget for category: Food",
	} {
		if !contains(activity, want) {
			t.Fatalf("expected activity %q in %v", want, activity)
		}
	}
}

func TestTransactions(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "ana@example.com")

	for _, tx := range []map[string]interface{}{
		{"email": "ana@example.com", "category": "Food", "amount": 12.5, "transactionDate": "2024-01-15"},
		{"email": "ana@example.com", "category": "Food", "amount": 8, "transactionDate": "2024-01-16"},
		{"email": "ana@example.com", "category": "Rent", "amount": 900, "transactionDate": "2024-01-01"},
	} {
		if w := s.post(t, "/transactions/create", tx); w.Code != http.StatusCreated {
			t.Fatalf("create: %d %s", w.Code, w.Body.String())
		}
	}
	expectError(t, s.post(t, "/transactions/create", map[string]interface{}{
		"email": "ana@example.com", "category": "Food", "amount": 1, "transactionDate": "2024-01-15",
	}), http.StatusBadRequest, `A transaction already exists for category "Food" on date "2024-01-15"`)

	w := s.post(t, "/transactions/list-by-category", map[string]interface{}{"email": "ana@example.com", "category": "Food"})
	if got := decodeList(t, w); len(got) != 2 {
		t.Fatalf("expected 2 food transactions, got %d", len(got))
	}
	w = s.post(t, "/transactions/list", map[string]interface{}{"email": "ana@example.com"})
	if got := decodeList(t, w); len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}

	expectError(t, s.post(t, "/transactions/update", map[string]interface{}{
		"email": "ana@example.com", "category": "Food", "transactionDate": "2024-01-15", "newDate": "2024-01-16", "amount": 99,
	}), http.StatusBadRequest, `A transaction already exists with category "Food" on date "2024-01-16"`)
	w = s.post(t, "/transactions/get", map[string]interface{}{"email": "ana@example.com", "category": "Food", "transactionDate": "2024-01-15"})
	if tx := decodeObject(t, w); tx["amount"] != 12.5 {
		t.Fatalf("expected conflicting update to leave amount untouched, got %v", tx["amount"])
	}

	w = s.post(t, "/transactions/update", map[string]interface{}{
		"email": "ana@example.com", "category": "Food", "transactionDate": "2024-01-15", "newCategory": "Groceries",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rekey: %d %s", w.Code, w.Body.String())
	}
	expectError(t, s.post(t, "/transactions/get", map[string]interface{}{"email": "ana@example.com", "category": "Food", "transactionDate": "2024-01-15"}),
		http.StatusNotFound, `No transaction found for category "Food" on date "2024-01-15"`)
	w = s.post(t, "/transactions/get", map[string]interface{}{"email": "ana@example.com", "category": "Groceries", "transactionDate": "2024-01-15T00:00:00Z"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected transaction under new category: %d %s", w.Code, w.Body.String())
	}

	expectError(t, s.post(t, "/transactions/get", map[string]interface{}{"email": "ana@example.com", "category": "Food"}),
		http.StatusBadRequest, "Email, category, transactionDate are required.")

	w = s.post(t, "/transactions/delete", map[string]interface{}{"email": "ana@example.com", "category": "Rent", "transactionDate": "2024-01-01"})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	activity := activityFor(t, s, "ana@example.com")
	for _, want := range []string{
		"Created transaction: Food @ 2024-01-15",
		"Updated transaction Food @ 2024-01-15",
		"Deleted transaction Rent @ 2024-01-01",
	} {
		if !contains(activity, want) {
			t.Fatalf("expected activity %q in %v", want, activity)
		}
	}
}

func TestGoals(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "ana@example.com")

	w := s.post(t, "/goals/create", map[string]interface{}{
		"email": "ana@example.com", "goalName": "Vacation", "targetAmount": "1000", "targetDate": "2025-12-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = s.post(t, "/goals/get", map[string]interface{}{"email": "ana@example.com", "goalName": "Vacation"})
	goal := decodeObject(t, w)
	if goal["targetAmount"] != float64(1000) || goal["currentAmount"] != float64(0) || goal["status"] != "In Progress" {
		t.Fatalf("unexpected goal %v", goal)
	}
	if _, ok := goal["createdAt"]; !ok {
		t.Fatal("expected createdAt")
	}

	if w := s.post(t, "/goals/create", map[string]interface{}{
		"email": "ana@example.com", "goalName": "House", "targetAmount": 50000, "targetDate": "2030-01-01", "status": "Paused",
	}); w.Code != http.StatusCreated {
		t.Fatalf("create house: %d %s", w.Code, w.Body.String())
	}
	expectError(t, s.post(t, "/goals/create", map[string]interface{}{
		"email": "ana@example.com", "goalName": "House", "targetAmount": 1, "targetDate": "2030-01-01",
	}), http.StatusBadRequest, `A goal named "House" already exists.`)

	expectError(t, s.post(t, "/goals/update", map[string]interface{}{
		"email": "ana@example.com", "goalName": "Vacation", "newGoalName": "House",
	}), http.StatusBadRequest, `Goal "House" already exists.`)

	w = s.post(t, "/goals/list-by-status", map[string]interface{}{"email": "ana@example.com", "status": "Paused"})
	if got := decodeList(t, w); len(got) != 1 || got[0]["goalName"] != "House" {
		t.Fatalf("unexpected paused goals %v", got)
	}

	w = s.post(t, "/goals/update", map[string]interface{}{
		"email": "ana@example.com", "goalName": "Vacation", "newGoalName": "Trip", "currentAmount": "250",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rename: %d %s", w.Code, w.Body.String())
	}
	w = s.post(t, "/goals/get", map[string]interface{}{"email": "ana@example.com", "goalName": "Trip"})
	trip := decodeObject(t, w)
	if trip["currentAmount"] != float64(250) || trip["targetAmount"] != float64(1000) {
		t.Fatalf("unexpected renamed goal %v", trip)
	}
	if trip["updatedAt"] == goal["updatedAt"] {
		t.Fatal("expected updatedAt to advance")
	}

	w = s.post(t, "/goals/list", map[string]interface{}{"email": "ana@example.com"})
	if got := decodeList(t, w); len(got) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(got))
	}
	if w := s.post(t, "/goals/delete", map[string]interface{}{"email": "ana@example.com", "goalName": "Trip"}); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	expectError(t, s.post(t, "/goals/get", map[string]interface{}{"email": "ana@example.com", "goalName": "Trip"}),
		http.StatusNotFound, `No goal found named "Trip".`)
}

func TestTrophies(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, "/trophies/create", map[string]interface{}{"trophyName": "saver", "points": "50"})
	if w.Code != http.StatusCreated || decodeObject(t, w)["trophyName"] != "saver" {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	s.post(t, "/trophies/create", map[string]interface{}{"trophyName": "planner"})
	expectError(t, s.post(t, "/trophies/create", map[string]interface{}{"trophyName": "saver"}),
		http.StatusBadRequest, `Trophy "saver" already exists.`)
	expectError(t, s.post(t, "/trophies/create", map[string]interface{}{}),
		http.StatusBadRequest, "trophyName is required to create a trophy.")

	w = s.post(t, "/trophies/get", map[string]interface{}{"trophyName": "saver"})
	trophy := decodeObject(t, w)
	if trophy["displayName"] != "saver" || trophy["points"] != float64(50) || trophy["description"] != "" {
		t.Fatalf("unexpected trophy %v", trophy)
	}

	expectError(t, s.post(t, "/trophies/update", map[string]interface{}{"trophyName": "saver", "newTrophyName": "planner"}),
		http.StatusBadRequest, `A trophy named "planner" already exists.`)
	w = s.post(t, "/trophies/update", map[string]interface{}{"trophyName": "saver", "newTrophyName": "super-saver", "displayName": "Super Saver"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	if body := decodeObject(t, w); body["oldName"] != "saver" || body["newName"] != "super-saver" {
		t.Fatalf("unexpected update body %v", body)
	}

	w = s.post(t, "/trophies/list", nil)
	if got := decodeList(t, w); len(got) != 2 {
		t.Fatalf("expected 2 trophies, got %d", len(got))
	}

	w = s.post(t, "/trophies/delete", map[string]interface{}{"trophyName": "planner"})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	expectError(t, s.post(t, "/trophies/get", map[string]interface{}{"trophyName": "planner"}),
		http.StatusNotFound, `No trophy found with name "planner".`)
}

func TestUserTrophies(t *testing.T) {
	s := newTestServer(t)
	userID := s.createUser(t, "ana@example.com")
	s.post(t, "/trophies/create", map[string]interface{}{"trophyName": "saver", "points": 10})
	s.post(t, "/trophies/create", map[string]interface{}{"trophyName": "planner", "points": 20})

	expectError(t, s.post(t, "/usersTrophies/earn", map[string]interface{}{"email": "ana@example.com", "trophyName": "ghost"}),
		http.StatusNotFound, `No trophy found with name "ghost".`)

	w := s.post(t, "/usersTrophies/earn", map[string]interface{}{"email": "ana@example.com", "trophyName": "saver"})
	if w.Code != http.StatusCreated {
		t.Fatalf("earn: %d %s", w.Code, w.Body.String())
	}
	if body := decodeObject(t, w); body["userId"] != userID || body["trophyName"] != "saver" {
		t.Fatalf("unexpected earn body %v", body)
	}
	expectError(t, s.post(t, "/usersTrophies/earn", map[string]interface{}{"email": "ana@example.com", "trophyName": "saver"}),
		http.StatusBadRequest, `User already has trophy "saver".`)
	s.post(t, "/usersTrophies/earn", map[string]interface{}{"email": "ana@example.com", "trophyName": "planner"})

	if w := s.post(t, "/trophies/delete", map[string]interface{}{"trophyName": "planner"}); w.Code != http.StatusOK {
		t.Fatalf("delete trophy: %d %s", w.Code, w.Body.String())
	}
	w = s.post(t, "/usersTrophies/list", map[string]interface{}{"email": "ana@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	list := decodeList(t, w)
	if len(list) != 1 || list[0]["trophyName"] != "saver" || list[0]["points"] != float64(10) {
		t.Fatalf("expected only the saver trophy, got %v", list)
	}
	if list[0]["userTrophyId"] == nil || list[0]["earnedAt"] == nil {
		t.Fatalf("expected link fields in %v", list[0])
	}

	w = s.post(t, "/usersTrophies/delete", map[string]interface{}{"email": "ana@example.com", "trophyName": "saver"})
	if w.Code != http.StatusOK || decodeObject(t, w)["message"] != "User trophy removed" {
		t.Fatalf("remove: %d %s", w.Code, w.Body.String())
	}
	expectError(t, s.post(t, "/usersTrophies/delete", map[string]interface{}{"email": "ana@example.com", "trophyName": "saver"}),
		http.StatusNotFound, `User does not have trophy "saver".`)

	activity := activityFor(t, s, "ana@example.com")
	if !contains(activity, "Earned trophy: saver") || !contains(activity, "Removed trophy from user: saver") {
		t.Fatalf("unexpected activity %v", activity)
	}
}

func TestActivityListAcrossUsers(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "ana@example.com")
	s.createUser(t, "bo@example.com")
	s.post(t, "/users/update", map[string]interface{}{"email": "ana@example.com", "a": 1})
	s.post(t, "/users/update", map[string]interface{}{"email": "bo@example.com", "b": 2})

	w := s.post(t, "/activity/list", nil)
	if got := decodeList(t, w); len(got) != 2 {
		t.Fatalf("expected 2 entries across users, got %d", len(got))
	}
	if got := activityFor(t, s, "bo@example.com"); len(got) != 1 {
		t.Fatalf("expected 1 entry for bo, got %v", got)
	}
	expectError(t, s.post(t, "/activity/list", map[string]interface{}{"email": "ghost@example.com"}),
		http.StatusNotFound, "User with email 'ghost@example.com' not found.")
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	w := s.post(t, "/users/create", "{not json")
	if w.Code != http.StatusBadRequest || decodeObject(t, w)["error"] != "Invalid request payload" {
		t.Fatalf("expected invalid payload, got %d %s", w.Code, w.Body.String())
	}
}

func TestProbes(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/hello-world", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "Hello World!" {
		t.Fatalf("hello-world: %d %q", w.Code, w.Body.String())
	}

	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || decodeObject(t, w)["status"] != "UP" {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
