//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"family-planner/internal/config"
	"family-planner/internal/db"
	familydomain "family-planner/internal/domain/family"
	invitedomain "family-planner/internal/domain/invite"
	"family-planner/internal/domain/notification"
	tasksdomain "family-planner/internal/domain/tasks"
	userdomain "family-planner/internal/domain/user"
	"family-planner/internal/metrics"
	"family-planner/internal/repository/inmemory"
	familyrepo "family-planner/internal/repository/postgres/family"
	inviterepo "family-planner/internal/repository/postgres/invite"
	tasksrepo "family-planner/internal/repository/postgres/tasks"
	userrepo "family-planner/internal/repository/postgres/user"
	"family-planner/internal/transport/httpserver"
	"family-planner/internal/transport/httpserver/handler"
	"family-planner/internal/transport/mail"
	"family-planner/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.NewNop()
	ctx := context.Background()

	cfg := config.Config{
		AppOrigin: "http://localhost:5173",
		DB:        config.DBConfig{DSN: dsn},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
		Invites: config.InvitesConfig{DefaultTTLDays: 7, AcceptRate: 50, AcceptBurst: 50},
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(ctx, dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	transport, err := mail.New(mail.TransportLog, mail.SMTPConfig{}, log)
	if err != nil {
		t.Fatalf("mail transport: %v", err)
	}

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), inmemory.NewMembershipCache(), time.Minute, log)
	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn), userService)
	inviteService := invitedomain.NewService(inviterepo.NewPostgres(dbConn), userService, invitedomain.Config{AppOrigin: cfg.AppOrigin})
	notificationService := notification.NewService(transport, notification.Config{}, log)
	taskService := tasksdomain.NewService(tasksrepo.NewPostgres(dbConn), userService)

	m := metrics.New()
	handlers := handler.New(userService, familyService, inviteService, notificationService, taskService, m, log)

	router := httpserver.NewRouter(cfg, handlers, userService, m, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"id":    token,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE tasks, invites, families, users CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func requestRaw(t *testing.T, client *http.Client, method, url string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type familyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type createInviteResponse struct {
	Invite struct {
		ID     string `json:"id"`
		Code   string `json:"code"`
		Status string `json:"status"`
	} `json:"invite"`
	EmailResult *struct {
		Success bool `json:"success"`
	} `json:"email_result"`
}

type taskResponse struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	ApproverID *string `json:"approver_id"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestRaw(t, client, http.MethodGet, env.server.URL+"/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	userID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", userID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var me struct {
		ID          string  `json:"id"`
		DisplayName string  `json:"display_name"`
		FamilyID    *string `json:"family_id"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != userID || me.DisplayName != "User "+userID {
		t.Fatalf("unexpected identity %+v", me)
	}
	if me.FamilyID != nil {
		t.Fatalf("expected no family, got %q", *me.FamilyID)
	}
}

func TestE2EInviteFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	owner := "11111111-1111-1111-1111-111111111111"
	member := "22222222-2222-2222-2222-222222222222"

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families", owner, map[string]string{
		"name": "Ivanovs",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var family familyResponse
	if err := json.Unmarshal(body, &family); err != nil {
		t.Fatalf("decode family: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/families/me/invites", owner, map[string]interface{}{
		"email": member + "@example.com",
		"role":  "approver",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var invite createInviteResponse
	if err := json.Unmarshal(body, &invite); err != nil {
		t.Fatalf("decode invite: %v", err)
	}
	if invite.EmailResult == nil || !invite.EmailResult.Success {
		t.Fatalf("expected email to be sent: %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/invites/accept", member, map[string]string{
		"code": invite.Invite.Code,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/invites/accept", member, map[string]string{
		"code": invite.Invite.Code,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/tasks", owner, map[string]string{
		"title":       "Groceries",
		"assignee_id": owner,
		"deadline":    "2030-01-15",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var task taskResponse
	if err := json.Unmarshal(body, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}

	statusURL := env.server.URL + "/api/tasks/" + task.ID + "/status"
	for _, next := range []string{"in-progress", "completed"} {
		resp, body = requestJSON(t, client, http.MethodPost, statusURL, owner, map[string]string{"status": next})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d: %s", next, resp.StatusCode, string(body))
		}
	}

	resp, body = requestJSON(t, client, http.MethodPost, statusURL, member, map[string]string{"status": "approved"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Status != "approved" || task.ApproverID == nil || *task.ApproverID != member {
		t.Fatalf("unexpected approval %+v", task)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/families/me/members/"+member, owner, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/me", member, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EMembershipPairIsEnforced(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	err := env.db.Exec(
		"INSERT INTO users (uid, display_name, role) VALUES (?, ?, ?)",
		"broken", "Broken", "viewer",
	).Error
	if err == nil {
		t.Fatalf("expected check constraint violation")
	}
}
