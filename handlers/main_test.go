package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"buildflow-api/config"
	"buildflow-api/handlers"
	"buildflow-api/middleware"
	"buildflow-api/models"
	"buildflow-api/notify"
	"buildflow-api/realtime"
	"buildflow-api/routes"

	"github.com/gin-gonic/gin"
)

var dbCounter atomic.Int64

// setup wires a fresh in-memory database and a full router for one test
func setup(t *testing.T) (*gin.Engine, *handlers.Env) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared&_pragma=busy_timeout(10000)",
		dbCounter.Add(1))
	config.InitDB(dsn)

	cfg := &config.Config{
		JWTSecret:       "test_secret",
		RazorpayKeyID:   "rzp_test_mock_key",
		RazorpaySecret:  "rzp_test_mock_secret",
		BaseDeliveryFee: 15,
	}
	config.JWTSecret = []byte(cfg.JWTSecret)

	queue := notify.NewQueue(64)
	queue.Start()
	t.Cleanup(queue.Close)
	pusher, err := notify.NewFCMPusher(context.Background(), "")
	if err != nil {
		t.Fatalf("push client: %v", err)
	}
	notifier := notify.New(queue, notify.NewResendMailer("", "Buildflow Test <test@example.com>"), pusher)

	hub := realtime.NewHub(handlers.CanJoinOrder)
	go hub.Run()

	env := &handlers.Env{Cfg: cfg, Hub: hub, Notify: notifier}
	r := gin.New()
	routes.SetupRoutes(r, env)
	return r, env
}

func createUser(t *testing.T, name string, role models.UserRole) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@test.com",
		PasswordHash: "not-checked-in-tests",
		Role:         role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func createProduct(t *testing.T, supplierID uint, name string, price float64) models.Product {
	t.Helper()
	product := models.Product{
		SupplierID: supplierID,
		Name:       name,
		Price:      price,
		Category:   "cement",
		Stock:      100,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
