package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/auth"
	"github.com/rogerio-castellano/order-desk/internal/checkout"
	"github.com/rogerio-castellano/order-desk/internal/events"
	handler "github.com/rogerio-castellano/order-desk/internal/http/handlers"
	rl "github.com/rogerio-castellano/order-desk/internal/http/rate_limiter"
	"github.com/rogerio-castellano/order-desk/internal/http/router"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
	"github.com/rogerio-castellano/order-desk/internal/shopapi/shopapitest"
)

const shopToken = "shop-token"

var (
	token         string
	operatorToken string
	userRepo      *repo.InMemoryUserRepository
	journal       *repo.InMemorySubmissionRepository
	carts         *repo.InMemoryCartStore
	published     *events.Recorder
)

func init() {
	auth.SetSecret("test-secret")
	rl.Configure(1000, 1000)
	setupTestRepos("secret")
	r := router.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	operatorToken, err = generateToken(r, "operator", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := auth.HashPassword(password)
	userRepo.CreateUser(models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin})
	userRepo.CreateUser(models.User{Username: "operator", PasswordHash: hash, Role: models.RoleOperator})

	handler.SetPreferencesRepo(repo.NewInMemoryPreferencesRepository())

	journal = repo.NewInMemorySubmissionRepository()
	handler.SetSubmissionRepo(journal)

	carts = repo.NewInMemoryCartStore()
	handler.SetCartStore(carts)

	handler.SetAuthService(auth.NewAuthService(userRepo, auth.NewMemoryRefreshStore(), time.Hour))
	handler.SetLowStockThreshold(5)
	handler.SetLocation(time.UTC)
}

// newShop starts a fresh fake shop API and points the handlers at it.
func newShop(t *testing.T) *shopapitest.Server {
	t.Helper()
	srv := shopapitest.NewServer()
	srv.RequireToken(shopToken)
	t.Cleanup(srv.Close)

	client := shopapi.New(shopapi.Config{BaseURL: srv.URL, Token: shopToken, Timeout: 2 * time.Second})
	published = &events.Recorder{}
	handler.SetShopClient(client)
	handler.SetCheckoutService(checkout.NewService(client, journal, published))
	t.Cleanup(clearCarts)
	return srv
}

func clearCarts() {
	for _, id := range []int{1, 2} {
		carts.Delete(id)
	}
}

func submissionsOf(userID int) repo.SubmissionFilter {
	return repo.SubmissionFilter{UserID: &userID}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	rl.CleanupAllVisitors()
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp auth.TokenPair
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("no access token, status %d", w.Code)
	}
	return resp.AccessToken, nil
}

// do sends an authenticated JSON request as the admin.
func do(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	return doAs(r, token, method, path, payload)
}

func doAs(r http.Handler, bearer, method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, w).Error
}

func multipartFile(field, filename, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile(field, filename)
	part.Write([]byte(content))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func seedTee(srv *shopapitest.Server, stock int) (models.Product, models.Variant) {
	p := srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", Category: "Shirts", Brand: "Sora", CostPrice: 90000, SalePrice: 150000})
	v := srv.AddVariant(models.Variant{ProductID: p.ID, Size: "M", Color: "White", Stock: stock})
	return p, v
}
