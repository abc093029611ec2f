package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya5cloud/moc/internal/config"
	"github.com/kavya5cloud/moc/internal/curator"
	"github.com/kavya5cloud/moc/internal/datactx"
	"github.com/kavya5cloud/moc/internal/email"
	"github.com/kavya5cloud/moc/internal/middleware"
	"github.com/kavya5cloud/moc/internal/mirror"
	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/payment"
	"github.com/kavya5cloud/moc/internal/remote/remotetest"
	"github.com/kavya5cloud/moc/internal/repository"
	"github.com/kavya5cloud/moc/internal/syncer"
	"github.com/kavya5cloud/moc/internal/utils"
)

const testSecret = "test-secret"

type stubGateway struct {
	req payment.SessionRequest
	err error
}

func (g *stubGateway) CreateSession(_ context.Context, r payment.SessionRequest) (payment.Session, error) {
	g.req = r
	if g.err != nil {
		return payment.Session{}, g.err
	}
	return payment.Session{PaymentSessionID: "sess_1", OrderID: r.OrderID}, nil
}

func (g *stubGateway) VerifyWebhook([]byte, string, string) error {
	return nil
}

type stubMailer struct {
	sent []model.ShopOrder
	err  error
}

func (m *stubMailer) SendOrderConfirmation(_ context.Context, o model.ShopOrder) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, o)
	return email.SendResult{ID: "mail_1"}, nil
}

type stubCurator struct {
	got string
}

func (s *stubCurator) Reply(_ context.Context, message string, _ []curator.Turn) string {
	s.got = message
	return "The museum opens at 10."
}

type testApp struct {
	e       *echo.Echo
	repo    *repository.MuseumRepo
	remote  *remotetest.Fake
	bus     *syncer.Bus
	gateway *stubGateway
	mailer  *stubMailer
	curator *stubCurator
}

func createTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	fake := remotetest.New()
	bus := syncer.NewBus()
	store := mirror.New(mirror.NewMemoryBackend(), bus, zerolog.Nop())
	engine := syncer.New(fake, store, bus, syncer.Options{ReadTimeout: time.Second}, zerolog.Nop())
	repo := repository.NewMuseumRepo(engine, nil, zerolog.Nop())
	require.NoError(t, repo.Bootstrap(ctx))

	data := datactx.New(repo, bus, datactx.Options{PollInterval: time.Hour}, zerolog.Nop())
	data.Refresh(ctx)

	hash, err := utils.HashPassword("letmein", 4)
	require.NoError(t, err)

	app := &testApp{
		e:       echo.New(),
		repo:    repo,
		remote:  fake,
		bus:     bus,
		gateway: &stubGateway{},
		mailer:  &stubMailer{},
		curator: &stubCurator{},
	}
	e := app.e
	e.Validator = NewValidator()

	pub := NewPublicHandler(repo, data)
	e.GET("/v1/status", pub.Status)
	e.GET("/v1/assets", pub.GetAssets)
	e.GET("/v1/collectables", pub.GetCollectables)
	e.GET("/v1/reviews", pub.GetReviews)
	e.GET("/v1/orders/:id", pub.GetOrder)
	e.GET("/v1/events/stream", NewEventsHandler(bus, zerolog.Nop()).Stream)

	vis := NewVisitorHandler(repo)
	vis.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	e.POST("/v1/orders", vis.PlaceOrder)
	e.POST("/v1/bookings", vis.CreateBooking)
	e.POST("/v1/reviews", vis.AddReview)

	auth := NewAuthHandler(config.Config{JWTSecret: testSecret, StaffPasscodeHash: hash, StaffTokenTTLMin: 5})
	e.POST("/v1/staff/login", auth.StaffLogin)

	st := NewStaffHandler(repo)
	g := e.Group("/v1/staff", middleware.StaffAuth(testSecret), middleware.RequireRole(utils.RoleStaff))
	g.PUT("/collectables/:id", st.SaveCollectable)
	g.DELETE("/collectables/:id", st.DeleteCollectable)
	g.GET("/orders", st.ListOrders)
	g.PATCH("/orders/:id/status", st.UpdateOrderStatus)
	g.GET("/dashboard", st.Dashboard)
	g.GET("/mode", st.GetMode)
	g.PUT("/mode", st.SetMode)

	px := &ProxyHandler{Payments: app.gateway, Mail: app.mailer, Curator: app.curator, Orders: repo, Log: zerolog.Nop()}
	e.POST("/api/create-payment-session", px.CreatePaymentSession)
	e.POST("/api/payment-webhook", px.PaymentWebhook)
	e.POST("/api/send-order-email", px.SendOrderEmail)
	e.POST("/api/curator-chat", px.CuratorChat)
	return app
}

func (a *testApp) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func staffToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.NewStaffToken(testSecret, "desk-1", 5)
	require.NoError(t, err)
	return tok.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestStatus_ReportsLiveRemote(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodGet, "/v1/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body statusResp
	decode(t, rec, &body)
	assert.True(t, body.IsConnected)
	assert.Equal(t, syncer.ModeLive, body.Mode)
	assert.Equal(t, "fake://remote", body.URL)
	assert.False(t, body.Loading)
	assert.Equal(t, uint64(1), body.Revision)
}

func TestGetCollectables_ServesSeedCatalogue(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodGet, "/v1/collectables", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []model.Collectable `json:"items"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "c1", body.Items[0].ID)
}

func TestPlaceOrder_PricesFromCatalogue(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/v1/orders",
		`{"customerName":"Asha","email":"Asha@Example.com","items":[{"id":"c1","quantity":2},{"id":"c2","quantity":1}]}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o model.ShopOrder
	decode(t, rec, &o)
	assert.True(t, strings.HasPrefix(o.ID, "ORD-"))
	assert.Equal(t, int64(2*1200+3500), o.TotalAmount)
	assert.Equal(t, model.OrderPending, o.Status)
	assert.Equal(t, "asha@example.com", o.Email)
	assert.Equal(t, int64(1700000000000), o.Timestamp)
	assert.Len(t, app.remote.Docs("shop_orders"), 1)

	rec = app.do(http.MethodGet, "/v1/orders/"+o.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlaceOrder_RejectsUnknownAndSoldOutItems(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/v1/orders",
		`{"customerName":"Asha","email":"asha@example.com","items":[{"id":"nope","quantity":1}]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	soldOut := false
	require.NoError(t, app.repo.SaveCollectable(context.Background(), model.Collectable{
		ID: "c1", Name: "MOCA Tote Bag", Price: 1200, InStock: &soldOut,
	}))
	rec = app.do(http.MethodPost, "/v1/orders",
		`{"customerName":"Asha","email":"asha@example.com","items":[{"id":"c1","quantity":1}]}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/v1/orders", `{"customerName":"Asha","email":"asha@example.com","items":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrder_ExistingIDIsNotOverwritten(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	paid := model.ShopOrder{
		ID: "ORD-PAID", CustomerName: "Asha", Email: "asha@example.com",
		TotalAmount: 9999, Timestamp: 1, Status: model.OrderFulfilled,
	}
	require.NoError(t, app.repo.SaveShopOrder(ctx, paid))

	rec := app.do(http.MethodPost, "/v1/orders",
		`{"id":"ORD-PAID","customerName":"Mallory","email":"m@example.com","items":[{"id":"c1","quantity":1}]}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	got, err := app.repo.GetShopOrder(ctx, "ORD-PAID")
	require.NoError(t, err)
	assert.Equal(t, paid, got)
	assert.Len(t, app.repo.GetShopOrders(ctx), 1)

	rec = app.do(http.MethodPost, "/v1/orders",
		`{"id":"ORD-NEW","customerName":"Ravi","email":"ravi@example.com","items":[{"id":"c1","quantity":1}]}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, app.repo.GetShopOrders(ctx), 2)
}

func TestCreateBooking_RejectedWriteIsReported(t *testing.T) {
	app := createTestApp(t)
	app.remote.FailWrites(errors.New("remote down"))

	rec := app.do(http.MethodPost, "/v1/bookings",
		`{"customerName":"Ravi","email":"ravi@example.com","date":"2026-11-02","tickets":{"adult":2}}`, "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, true, body["retry"])
	assert.Empty(t, app.repo.GetBookings(context.Background()))
}

func TestCreateBooking(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/v1/bookings",
		`{"customerName":"Ravi","email":"ravi@example.com","date":"2026-11-02","tickets":{}}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/v1/bookings",
		`{"customerName":"Ravi","email":"ravi@example.com","date":"2026-11-02","tickets":{"adult":1,"child":2}}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var b model.Booking
	decode(t, rec, &b)
	assert.True(t, strings.HasPrefix(b.ID, "BK-"))
	assert.Zero(t, b.TotalAmount)
	assert.Equal(t, "Confirmed", b.Status)
}

func TestReviews_AddAndList(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/v1/reviews",
		`{"itemId":"1","itemType":"exhibition","userName":"Nia","rating":6,"comment":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/v1/reviews",
		`{"itemId":"1","itemType":"exhibition","userName":"Nia","rating":5,"comment":"Loved it"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/v1/reviews?itemId=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []model.Review `json:"items"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Loved it", body.Items[0].Comment)

	rec = app.do(http.MethodGet, "/v1/reviews", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffLogin(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/v1/staff/login", `{"passcode":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/v1/staff/login", `{"passcode":"letmein"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok utils.StaffToken
	decode(t, rec, &tok)
	require.NotEmpty(t, tok.Token)

	rec = app.do(http.MethodGet, "/v1/staff/mode", "", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaffLogin_DisabledWithoutHash(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	e.POST("/login", NewAuthHandler(config.Config{JWTSecret: testSecret}).StaffLogin)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"passcode":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStaff_RequiresToken(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodGet, "/v1/staff/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaff_UpdateOrderStatus(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.repo.SaveShopOrder(ctx, model.ShopOrder{
		ID: "ORD-1", CustomerName: "Asha", Email: "a@example.com", TotalAmount: 1200, Status: model.OrderPending,
	}))
	tok := staffToken(t)

	rec := app.do(http.MethodPatch, "/v1/staff/orders/ORD-1/status", `{"status":"Shipped"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPatch, "/v1/staff/orders/ORD-1/status", `{"status":"Fulfilled"}`, tok)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	o, err := app.repo.GetShopOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderFulfilled, o.Status)

	rec = app.do(http.MethodPatch, "/v1/staff/orders/ORD-404/status", `{"status":"Fulfilled"}`, tok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, app.repo.GetShopOrders(ctx), 1)
}

func TestStaff_CollectablesAndDashboard(t *testing.T) {
	app := createTestApp(t)
	tok := staffToken(t)

	rec := app.do(http.MethodPut, "/v1/staff/collectables/c3", `{"name":"Poster","price":800}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := app.repo.GetCollectables(context.Background())
	require.NotEmpty(t, items)
	assert.Equal(t, "c3", items[0].ID)
	assert.Equal(t, int64(800), items[0].Price)

	rec = app.do(http.MethodDelete, "/v1/staff/collectables/c3", "", tok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	for _, c := range app.repo.GetCollectables(context.Background()) {
		assert.NotEqual(t, "c3", c.ID)
	}

	rec = app.do(http.MethodGet, "/v1/staff/dashboard", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash repository.DashboardAnalytics
	decode(t, rec, &dash)
	assert.Zero(t, dash.TotalRevenue)
}

func TestStaff_Mode(t *testing.T) {
	app := createTestApp(t)
	tok := staffToken(t)

	rec := app.do(http.MethodPut, "/v1/staff/mode", `{}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPut, "/v1/staff/mode", `{"enabled":true}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, app.repo.GetStaffMode(context.Background()))
	assert.Zero(t, app.remote.Calls("upsert"))
}

func TestCreatePaymentSession(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/api/create-payment-session", `{"orderId":"ORD-1"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields: orderId, amount, customerName, customerEmail, returnUrl")

	body := `{"orderId":"ORD-1","amount":1200,"customerName":"Asha","customerEmail":"a@example.com","returnUrl":"https://moca.example/order-status/ORD-1"}`
	rec = app.do(http.MethodPost, "/api/create-payment-session", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess payment.Session
	decode(t, rec, &sess)
	assert.Equal(t, "sess_1", sess.PaymentSessionID)
	assert.Equal(t, float64(1200), app.gateway.req.Amount)

	app.gateway.err = payment.ErrNotConfigured
	rec = app.do(http.MethodPost, "/api/create-payment-session", body, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration error")
}

func TestPaymentWebhook_AppliesStatus(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.repo.SaveShopOrder(ctx, model.ShopOrder{ID: "ORD-7", Status: model.OrderPending}))

	rec := app.do(http.MethodPost, "/api/payment-webhook", `{"orderId":"ORD-7"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/api/payment-webhook", `{"orderId":"ORD-7","paymentStatus":"SUCCESS"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	o, err := app.repo.GetShopOrder(ctx, "ORD-7")
	require.NoError(t, err)
	assert.Equal(t, model.OrderFulfilled, o.Status)

	// a failed write is still acknowledged so the gateway does not retry
	app.remote.FailWrites(errors.New("remote down"))
	rec = app.do(http.MethodPost, "/api/payment-webhook", `{"orderId":"ORD-7","paymentStatus":"FAILED"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "processing failed")
}

func TestPaymentWebhook_Signature(t *testing.T) {
	app := createTestApp(t)
	px := &ProxyHandler{
		Payments: payment.NewClient(payment.Options{WebhookSecret: "whsec"}),
		Orders:   app.repo,
		Log:      zerolog.Nop(),
	}
	e := echo.New()
	e.POST("/hook", px.PaymentWebhook)

	body := `{"orderId":"ORD-9","paymentStatus":"SUCCESS"}`
	send := func(sig string) int {
		req := httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
		req.Header.Set("x-webhook-timestamp", "1700000000")
		req.Header.Set("x-webhook-signature", sig)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, send("forged"))
	assert.Equal(t, http.StatusOK, send(payment.Sign("whsec", []byte(body), "1700000000")))
}

func TestSendOrderEmail(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/api/send-order-email", `{"order":{"customerName":"Asha"}}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required order details.")

	rec = app.do(http.MethodPost, "/api/send-order-email",
		`{"order":{"id":"ORD-1","customerName":"Asha","email":"a@example.com","items":[{"id":"c1","name":"Tote","price":1200,"quantity":1}],"totalAmount":1200,"status":"Pending"}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, app.mailer.sent, 1)
	assert.Equal(t, "Tote", app.mailer.sent[0].Items[0].Name)

	app.mailer.err = email.ErrNotConfigured
	rec = app.do(http.MethodPost, "/api/send-order-email",
		`{"order":{"id":"ORD-1","customerName":"Asha","email":"a@example.com","items":[{"id":"c1","quantity":1}],"totalAmount":1200}}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCuratorChat(t *testing.T) {
	app := createTestApp(t)
	rec := app.do(http.MethodPost, "/api/curator-chat", `{"message":"   "}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")

	rec = app.do(http.MethodPost, "/api/curator-chat", `{"message":"When do you open?","history":[]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "The museum opens at 10.", body["text"])
	assert.Equal(t, "When do you open?", app.curator.got)
}

func TestEventsStream_PushesChanges(t *testing.T) {
	app := createTestApp(t)
	srv := httptest.NewServer(app.e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return app.bus.Len() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, app.repo.SetStaffMode(context.Background(), true))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ch syncer.Change
	require.NoError(t, conn.ReadJSON(&ch))
	assert.Equal(t, repository.KeyStaffMode, ch.Store)

	conn.Close()
	assert.Eventually(t, func() bool { return app.bus.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
