package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/devicecare/repair-booking/internal/api/http/handlers"
	"github.com/devicecare/repair-booking/internal/auth"
	"github.com/devicecare/repair-booking/internal/config"
	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/events"
	"github.com/devicecare/repair-booking/internal/observability"
	"github.com/devicecare/repair-booking/internal/repository"
	"github.com/devicecare/repair-booking/internal/service"
)

type testServer struct {
	app   *fiber.App
	store *repository.MemoryStore
	auth  *service.AuthService
	seed  *service.SeedService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}, store.Users())
	bookingService := service.NewBookingService(config.BookingConfig{DefaultLocation: "Lahore"}, service.BookingDependencies{
		BookingRepo:    store.Bookings(),
		TechnicianRepo: store.Technicians(),
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		BookingRepo: store.Bookings(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, MiddlewareConfig{Logger: logger, Metrics: metrics, CORSOrigins: "*"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("repair-booking", "test"),
		Users:          handlers.NewUsersHandler(authService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Catalog:        handlers.NewCatalogHandler(service.NewCatalogService(store.Catalog())),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users()),
	})
	seeder := service.NewSeedService(service.SeedDependencies{
		UserRepo:       store.Users(),
		TechnicianRepo: store.Technicians(),
		Location:       "Lahore",
		BcryptCost:     bcrypt.MinCost,
	})
	return &testServer{app: app, store: store, auth: authService, seed: seeder}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
	}
	return resp.StatusCode, out
}

func (s *testServer) seedTechnician(t *testing.T, location string) *domain.Technician {
	t.Helper()
	ctx := context.Background()
	user := &domain.User{Name: "Tech", Email: location + "@example.com", PasswordHash: "x", Role: domain.RoleTechnician}
	if err := s.store.Users().Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	tech := &domain.Technician{UserID: user.ID, Location: location, AvailableSlots: []string{"Monday 10AM"}, ServiceFee: 500}
	if err := s.store.Technicians().Create(ctx, tech); err != nil {
		t.Fatalf("create technician: %v", err)
	}
	return tech
}

func (s *testServer) tokenFor(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	if role == domain.RoleAdmin {
		if _, err := s.seed.SeedAdmin(context.Background(), email, "pw"); err != nil {
			t.Fatalf("seed admin: %v", err)
		}
	} else if _, err := s.auth.Register(context.Background(), service.RegisterInput{Name: "N", Email: email, Password: "pw", Role: role}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := s.auth.Login(context.Background(), email, "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return res.Token
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	env, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("missing error envelope: %v", body)
	}
	code, _ := env["code"].(string)
	return code
}

func TestBookAndPayScenario(t *testing.T) {
	s := newTestServer(t)
	tech := s.seedTechnician(t, "Lahore")

	status, body := s.do(t, http.MethodPost, "/book", map[string]any{
		"requesterId": "u1",
		"problem":     "cracked screen",
		"deviceType":  "phone",
		"brand":       "Acme",
		"model":       "X1",
		"timeSlot":    "Monday 10AM",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("book status = %d, body %v", status, body)
	}
	if body["message"] != "Booking created successfully" {
		t.Errorf("message = %v", body["message"])
	}
	booking := body["booking"].(map[string]any)
	if booking["technicianId"] != tech.ID || booking["paymentStatus"] != "Pending" || booking["status"] != "Pending" {
		t.Fatalf("booking = %v", booking)
	}
	id := booking["id"].(string)

	for i := 0; i < 2; i++ {
		status, body = s.do(t, http.MethodPost, "/pay", map[string]any{"bookingId": id, "paymentRef": "ref123"}, "")
		if status != http.StatusOK {
			t.Fatalf("pay #%d status = %d, body %v", i+1, status, body)
		}
		paid := body["booking"].(map[string]any)
		if paid["paymentStatus"] != "Paid" || paid["paymentRef"] != "ref123" {
			t.Fatalf("pay #%d booking = %v", i+1, paid)
		}
	}
}

func TestBookWithoutTechnician(t *testing.T) {
	s := newTestServer(t)
	s.seedTechnician(t, "Karachi")

	status, body := s.do(t, http.MethodPost, "/book", map[string]any{"requesterId": "u1"}, "")
	if status != http.StatusNotFound || errorCode(t, body) != "NOT_FOUND" {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if s.store.BookingCount() != 0 {
		t.Errorf("booking count = %d", s.store.BookingCount())
	}
}

func TestBookRequesterSources(t *testing.T) {
	s := newTestServer(t)
	s.seedTechnician(t, "Lahore")

	_, body := s.do(t, http.MethodPost, "/book", map[string]any{"userId": "legacy-user"}, "")
	if got := body["booking"].(map[string]any)["requesterId"]; got != "legacy-user" {
		t.Errorf("requesterId from userId alias = %v", got)
	}

	token := s.tokenFor(t, "cust@example.com", domain.RoleUser)
	user, _ := s.store.Users().GetByEmail(context.Background(), "cust@example.com")
	_, body = s.do(t, http.MethodPost, "/book", map[string]any{"problem": "battery"}, token)
	if got := body["booking"].(map[string]any)["requesterId"]; got != user.ID {
		t.Errorf("requesterId from token = %v, want %s", got, user.ID)
	}

	status, body := s.do(t, http.MethodPost, "/book", map[string]any{"problem": "cracked screen"}, "")
	if status != http.StatusCreated {
		t.Fatalf("anonymous without requester: status = %d, body %v", status, body)
	}
	if got := body["booking"].(map[string]any)["requesterId"]; got != "" {
		t.Errorf("requesterId = %v, want empty", got)
	}
}

func TestBookWithoutRequesterOrTechnician(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/book", map[string]any{"problem": "cracked screen"}, "")
	if status != http.StatusNotFound || errorCode(t, body) != "NOT_FOUND" {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestPayUnknownBooking(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/pay", map[string]any{"bookingId": "nope", "paymentRef": "r"}, "")
	if status != http.StatusNotFound || errorCode(t, body) != "NOT_FOUND" {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestInvalidJSONIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/book", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	s := newTestServer(t)
	reg := map[string]any{"name": "Ali", "email": "ali@example.com", "password": "pw"}

	status, body := s.do(t, http.MethodPost, "/api/register", reg, "")
	if status != http.StatusCreated || body["message"] != "User registered successfully" {
		t.Fatalf("register status = %d, body %v", status, body)
	}
	status, body = s.do(t, http.MethodPost, "/api/register", reg, "")
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, body %v", status, body)
	}

	status, body = s.do(t, http.MethodPost, "/api/login", map[string]any{"email": "ali@example.com", "password": "bad"}, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", status)
	}
	status, _ = s.do(t, http.MethodPost, "/api/login", map[string]any{"email": "who@example.com", "password": "pw"}, "")
	if status != http.StatusNotFound {
		t.Fatalf("unknown user status = %d", status)
	}
	status, body = s.do(t, http.MethodPost, "/api/login", map[string]any{"email": "ali@example.com", "password": "pw"}, "")
	if status != http.StatusOK || body["token"] == "" || body["token"] == nil {
		t.Fatalf("login status = %d, body %v", status, body)
	}
	user := body["user"].(map[string]any)
	if _, leaked := user["passwordHash"]; leaked || user["role"] != "user" {
		t.Errorf("user = %v", user)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	s := newTestServer(t)
	reg := map[string]any{"name": "Mallory", "email": "m@example.com", "password": "pw", "role": "admin"}

	status, body := s.do(t, http.MethodPost, "/api/register", reg, "")
	if status != http.StatusForbidden || errorCode(t, body) != "FORBIDDEN" {
		t.Fatalf("register admin status = %d, body %v", status, body)
	}
	status, _ = s.do(t, http.MethodPost, "/api/login", map[string]any{"email": "m@example.com", "password": "pw"}, "")
	if status != http.StatusNotFound {
		t.Fatalf("login after rejected register status = %d, want 404", status)
	}

	reg["role"] = "user"
	if status, _ = s.do(t, http.MethodPost, "/api/register", reg, ""); status != http.StatusCreated {
		t.Fatalf("register user status = %d", status)
	}
	_, body = s.do(t, http.MethodPost, "/api/login", map[string]any{"email": "m@example.com", "password": "pw"}, "")
	token, _ := body["token"].(string)
	status, _ = s.do(t, http.MethodPost, "/catalog/brands", map[string]any{"name": "Injected"}, token)
	if status != http.StatusForbidden {
		t.Fatalf("catalog create by self-registered user status = %d, want 403", status)
	}
}

func TestGetBookingRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	s.seedTechnician(t, "Lahore")
	_, body := s.do(t, http.MethodPost, "/book", map[string]any{"requesterId": "u1"}, "")
	id := body["booking"].(map[string]any)["id"].(string)

	status, _ := s.do(t, http.MethodGet, "/bookings/"+id, nil, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", status)
	}
	token := s.tokenFor(t, "viewer@example.com", domain.RoleUser)
	status, body = s.do(t, http.MethodGet, "/bookings/"+id, nil, token)
	if status != http.StatusOK || body["booking"].(map[string]any)["id"] != id {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestTechniciansEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedTechnician(t, "Lahore")
	s.seedTechnician(t, "Karachi")

	status, body := s.do(t, http.MethodGet, "/technicians?location=Karachi", nil, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	data := body["data"].([]any)
	if len(data) != 1 || data[0].(map[string]any)["location"] != "Karachi" {
		t.Errorf("data = %v", data)
	}
}

func TestCatalogCreateRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	brand := map[string]any{"name": "Acme"}

	status, _ := s.do(t, http.MethodPost, "/catalog/brands", brand, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", status)
	}
	userToken := s.tokenFor(t, "u@example.com", domain.RoleUser)
	status, _ = s.do(t, http.MethodPost, "/catalog/brands", brand, userToken)
	if status != http.StatusForbidden {
		t.Fatalf("user status = %d", status)
	}

	adminToken := s.tokenFor(t, "admin@example.com", domain.RoleAdmin)
	status, body := s.do(t, http.MethodPost, "/catalog/brands", brand, adminToken)
	if status != http.StatusCreated {
		t.Fatalf("admin status = %d, body %v", status, body)
	}
	brandID := body["data"].(map[string]any)["id"].(string)

	status, _ = s.do(t, http.MethodPost, "/catalog/models", map[string]any{"name": "X1", "brandId": brandID}, adminToken)
	if status != http.StatusCreated {
		t.Fatalf("model status = %d", status)
	}
	status, body = s.do(t, http.MethodGet, "/catalog/models?brandId="+brandID, nil, "")
	if status != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Fatalf("list models status = %d, body %v", status, body)
	}
	status, _ = s.do(t, http.MethodGet, "/catalog/colours", nil, "")
	if status != http.StatusNotFound {
		t.Fatalf("unknown kind status = %d", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health/ready", nil, "")
	if status != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("ready status = %d, body %v", status, body)
	}
	s.do(t, http.MethodPost, "/pay", map[string]any{"bookingId": "nope"}, "")

	status, body = s.do(t, http.MethodGet, "/metrics", nil, "")
	if status != http.StatusOK {
		t.Fatalf("metrics status = %d", status)
	}
	if errs := body["errors"].(map[string]any); errs["/pay|POST|NOT_FOUND"] == nil {
		t.Errorf("errors = %v", errs)
	}
}

type downDep struct{}

func (downDep) Name() string { return "postgres" }

func (downDep) Ping(context.Context) error { return context.DeadlineExceeded }

func TestReadyReportsUnavailableDependency(t *testing.T) {
	app := fiber.New()
	app.Get("/ready", handlers.NewHealthHandler("svc", "v", downDep{}).Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil), -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

type unreachableTechnicians struct {
	repository.TechnicianRepository
}

func (unreachableTechnicians) ListByLocation(context.Context, string, int) ([]domain.Technician, error) {
	return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestStorageFailureHidesCause(t *testing.T) {
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	bookings := service.NewBookingService(config.BookingConfig{DefaultLocation: "Lahore"}, service.BookingDependencies{
		BookingRepo:    store.Bookings(),
		TechnicianRepo: unreachableTechnicians{store.Technicians()},
	})
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, MiddlewareConfig{Logger: logger})
	app.Post("/book", handlers.NewBookingsHandler(bookings).Book)

	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(`{"requesterId":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" || body.Error.Message != "internal server error" {
		t.Errorf("envelope = %+v", body.Error)
	}
	if strings.Contains(string(raw), "10.0.0.5") {
		t.Errorf("response leaks storage error: %s", raw)
	}
	if store.BookingCount() != 0 {
		t.Errorf("booking count = %d", store.BookingCount())
	}
}
