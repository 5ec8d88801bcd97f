package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"buildflow-api/config"
	"buildflow-api/models"

	"github.com/gorilla/websocket"
)

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWSEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev wsEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("bad event %q: %v", raw, err)
	}
	return ev
}

func TestWebsocketOrderChannel(t *testing.T) {
	r, env := setup(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	supplier, _ := createUser(t, "supplier", models.RoleSupplier)
	customer, customerToken := createUser(t, "customer", models.RoleCustomer)
	_, strangerToken := createUser(t, "stranger", models.RoleCustomer)

	order := models.Order{CustomerID: customer.ID, SupplierID: supplier.ID, Status: models.StatusShipped}
	if err := config.DB.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	conn := dialWS(t, srv, customerToken)
	join, _ := json.Marshal(map[string]any{
		"event": "join_order",
		"data":  map[string]any{"order_id": order.ID},
	})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		t.Fatalf("write join: %v", err)
	}
	if ev := readWSEvent(t, conn); ev.Event != "joined" {
		t.Fatalf("expected joined ack, got %s", ev.Event)
	}

	if err := env.Hub.PublishStatus(order.ID, models.StatusDelivered, "Order Delivered! 📦"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	ev := readWSEvent(t, conn)
	if ev.Event != "order_status_updated" {
		t.Fatalf("got %s, want order_status_updated", ev.Event)
	}
	var data struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if data.Status != "DELIVERED" || data.OrderID != order.ID {
		t.Errorf("unexpected payload: %+v", data)
	}

	// A user with no relation to the order cannot join its channel
	stranger := dialWS(t, srv, strangerToken)
	if err := stranger.WriteMessage(websocket.TextMessage, join); err != nil {
		t.Fatalf("write join: %v", err)
	}
	if ev := readWSEvent(t, stranger); ev.Event != "join_denied" {
		t.Fatalf("expected join_denied, got %s", ev.Event)
	}
}

func TestWebsocketRequiresToken(t *testing.T) {
	r, _ := setup(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded without token")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401 handshake rejection, got %+v", resp)
	}
}

func TestWebsocketDriverLocationFanout(t *testing.T) {
	r, _ := setup(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	supplier, _ := createUser(t, "supplier", models.RoleSupplier)
	customer, customerToken := createUser(t, "customer", models.RoleCustomer)
	partner, partnerToken := createUser(t, "partner", models.RoleDelivery)

	order := models.Order{CustomerID: customer.ID, SupplierID: supplier.ID, Status: models.StatusShipped}
	if err := config.DB.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	delivery := models.Delivery{OrderID: order.ID, PartnerID: &partner.ID, Status: models.DeliveryPickedUp}
	if err := config.DB.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery: %v", err)
	}

	join, _ := json.Marshal(map[string]any{
		"event": "join_order",
		"data":  map[string]any{"order_id": order.ID},
	})

	watcher := dialWS(t, srv, customerToken)
	if err := watcher.WriteMessage(websocket.TextMessage, join); err != nil {
		t.Fatalf("write join: %v", err)
	}
	if ev := readWSEvent(t, watcher); ev.Event != "joined" {
		t.Fatalf("expected joined, got %s", ev.Event)
	}

	driver := dialWS(t, srv, partnerToken)
	location, _ := json.Marshal(map[string]any{
		"event": "update_location",
		"data": map[string]any{
			"order_id": order.ID,
			"lat":      12.97,
			"lng":      77.59,
			"status":   "en_route",
		},
	})
	if err := driver.WriteMessage(websocket.TextMessage, location); err != nil {
		t.Fatalf("write location: %v", err)
	}

	ev := readWSEvent(t, watcher)
	if ev.Event != "location_update" {
		t.Fatalf("got %s, want location_update", ev.Event)
	}
	var data struct {
		Lat    float64 `json:"lat"`
		Lng    float64 `json:"lng"`
		Status string  `json:"status"`
	}
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if data.Lat != 12.97 || data.Lng != 77.59 || data.Status != "en_route" {
		t.Errorf("unexpected payload: %+v", data)
	}
}
