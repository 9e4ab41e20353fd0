//go:build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/config"
	"github.com/eventplanner/backend/internal/handlers"
	"github.com/eventplanner/backend/internal/models"
	"github.com/eventplanner/backend/internal/repositories"
	"github.com/eventplanner/backend/internal/services"
	"github.com/eventplanner/backend/migrations"
	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testLogger *zap.Logger
)

const testSecret = "integration-secret"

// cleanupTestData removes all rows and resets AUTO_INCREMENT
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"rsvps", "events", "users"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to clear %s", table)
		_, err = db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		require.NoError(t, err, "Failed to reset AUTO_INCREMENT of %s", table)
	}
}

// setupTestRouter creates a test router with all handlers
func setupTestRouter(db *sql.DB, logger *zap.Logger) chi.Router {
	tokenGenerator := auth.NewTokenGenerator(testSecret, time.Hour)

	userRepo := repositories.NewUserRepository(db, logger)
	eventRepo := repositories.NewEventRepository(db, logger)
	rsvpRepo := repositories.NewRSVPRepository(db, logger)

	authService := services.NewAuthService(userRepo, tokenGenerator, logger)
	eventService := services.NewEventService(eventRepo, rsvpRepo, logger)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, time.UTC, logger)

	authMiddleware := auth.Middleware(tokenGenerator)

	r := chi.NewRouter()
	handlers.NewHealthHandler(db, logger).RegisterRoutes(r)
	handlers.NewAuthHandler(authService, time.Hour, logger).RegisterRoutes(r)
	handlers.NewEventHandler(eventService, logger).RegisterRoutes(r, authMiddleware)
	handlers.NewRSVPHandler(rsvpService, logger).RegisterRoutes(r, authMiddleware)

	return r
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	dsn := cfg.DSN()
	if dsn == "" {
		// Default test database connection
		dsn = "root:password@tcp(localhost:3306)/eventplanner_test?parseTime=true&charset=utf8mb4"
	}

	testDB, err = sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	if err = testDB.Ping(); err != nil {
		panic(fmt.Sprintf("Failed to ping test database: %v", err))
	}

	if err = migrations.Up(testDB); err != nil {
		panic(fmt.Sprintf("Failed to migrate test database: %v", err))
	}

	testRouter = setupTestRouter(testDB, testLogger)

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func login(t *testing.T, email, password string) string {
	t.Helper()
	w, body := do(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func createAdmin(t *testing.T) string {
	t.Helper()
	authService := services.NewAuthService(
		repositories.NewUserRepository(testDB, testLogger),
		auth.NewTokenGenerator(testSecret, time.Hour),
		testLogger,
	)
	_, err := authService.CreateAdmin(context.Background(), &models.SignupRequest{
		Name: "Admin", Email: "admin@example.com", Password: "admin-pass",
	})
	require.NoError(t, err)
	return login(t, "admin@example.com", "admin-pass")
}

func TestIntegration_RSVPLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	cleanupTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	adminToken := createAdmin(t)

	w, body := do(t, http.MethodPost, "/signup", "", map[string]string{"name": "Asha", "email": " Asha@Example.com ", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Signup successful", body["message"])

	w, body = do(t, http.MethodPost, "/signup", "", map[string]string{"name": "Asha", "email": "asha@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already registered", body["error"])

	userToken := login(t, "asha@example.com", "secret1")

	eventDate := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	newEvent := map[string]string{
		"title":       "Diwali Celebration",
		"description": "Join us for lights, sweets, and joy!",
		"date":        eventDate,
		"start_time":  "18:00",
		"end_time":    "21:00",
		"location":    "Community Hall, Delhi",
	}

	w, _ = do(t, http.MethodPost, "/events", userToken, newEvent)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = do(t, http.MethodPost, "/events", adminToken, newEvent)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	eventID := int(body["id"].(float64))
	assert.Equal(t, eventDate, body["date"])

	rsvpPath := fmt.Sprintf("/rsvp/%d", eventID)
	summaryPath := fmt.Sprintf("/rsvp-summary/%d", eventID)

	w, body = do(t, http.MethodPost, rsvpPath, userToken, map[string]string{"status": "going"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Going", body["status"])

	w, _ = do(t, http.MethodPost, rsvpPath, adminToken, map[string]string{"status": "Decline"})
	require.Equal(t, http.StatusOK, w.Code)

	// Last status wins, one row per user
	w, _ = do(t, http.MethodPost, rsvpPath, userToken, map[string]string{"status": "Maybe"})
	require.Equal(t, http.StatusOK, w.Code)

	var rows int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM rsvps WHERE event_id = ?", eventID).Scan(&rows))
	assert.Equal(t, 2, rows)

	w, body = do(t, http.MethodGet, summaryPath, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"Going": float64(0), "Maybe": float64(1), "Decline": float64(1)}, body)

	w, body = do(t, http.MethodGet, "/events", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := body["events"].([]any)
	require.Len(t, events, 1)
	listed := events[0].(map[string]any)
	assert.Equal(t, float64(1), listed["maybe"])
	assert.Equal(t, float64(1), listed["decline"])

	w, body = do(t, http.MethodGet, "/my-rsvps", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["rsvps"], 1)

	w, _ = do(t, http.MethodPost, rsvpPath, userToken, map[string]string{"status": "Perhaps"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, http.MethodDelete, fmt.Sprintf("/events/%d", eventID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Orphaned RSVPs stay in the table but are no longer listed
	w, body = do(t, http.MethodGet, "/my-rsvps", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["rsvps"])

	w, _ = do(t, http.MethodPost, rsvpPath, userToken, map[string]string{"status": "Going"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_RSVPDeadline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	cleanupTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	past := &models.Event{
		Title:       "Past meetup",
		Description: "Already happened",
		Date:        models.DateOf(time.Now().UTC().AddDate(0, 0, -1)),
		StartTime:   models.NewTimeOfDay(10, 0, 0),
		EndTime:     models.NewTimeOfDay(11, 0, 0),
		Location:    "Online",
	}
	require.NoError(t, repositories.NewEventRepository(testDB, testLogger).Create(context.Background(), past))

	w, _ := do(t, http.MethodPost, "/signup", "", map[string]string{"name": "Ravi", "email": "ravi@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := login(t, "ravi@example.com", "secret1")

	w, body := do(t, http.MethodPost, fmt.Sprintf("/rsvp/%d", past.ID), token, map[string]string{"status": "Going"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RSVP not allowed, event date has passed", body["error"])
}

func TestIntegration_Unauthenticated(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	for _, path := range []string{"/events", "/my-rsvps", "/rsvp-summary/1"} {
		w, _ := do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w, body := do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}
