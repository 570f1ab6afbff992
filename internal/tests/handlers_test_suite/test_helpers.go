package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	api "github.com/rogerio-castellano/steel-quoter/internal/http"
	handler "github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

var (
	customerRepo *repo.InMemoryCustomerRepository
	materialRepo *repo.InMemoryMaterialRepository
	quoteRepo    *repo.InMemoryQuoteRepository
)

func init() {
	setupTestRepos()
}

// setupTestRepos wires fresh in-memory repositories into the handlers.
func setupTestRepos() {
	customerRepo = repo.NewInMemoryCustomerRepository()
	materialRepo = repo.NewInMemoryMaterialRepository()
	quoteRepo = repo.NewInMemoryQuoteRepository()

	handler.SetCustomerRepo(customerRepo)
	handler.SetMaterialRepo(materialRepo)
	handler.SetAttachmentRepo(repo.NewInMemoryAttachmentRepository())

	log, _ := test.NewNullLogger()
	handler.SetLogger(log)
	handler.SetService(service.New(service.Repos{
		Customers:   customerRepo,
		Materials:   materialRepo,
		Quotes:      quoteRepo,
		BOM:         repo.NewInMemoryBOMRepository(),
		Events:      repo.NewInMemoryQuoteEventRepository(),
		SalesOrders: repo.NewInMemorySalesOrderRepository(),
		APIKeys:     repo.NewInMemoryAPIKeyRepository(),
	}, log))
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	setupTestRepos()
	return api.NewRouter()
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func createCustomer(t *testing.T, r http.Handler, name string) models.Customer {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/customers", handler.CustomerRequest{Name: name, Email: "buyer@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[models.Customer](t, w)
}

func createMaterial(t *testing.T, r http.Handler, req handler.MaterialRequest) models.Material {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/materials", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create material: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[models.Material](t, w)
}

func plateLine(qty int) service.LineInput {
	line := service.LineInput{
		Description: "Base plate",
		Shape:       "plate",
		Family:      "steel",
		Quantity:    qty,
		PricePerLb:  0.85,
		ExtraCost:   15,
	}
	line.Thickness, line.Width, line.Length = 0.5, 12, 24
	return line
}

func createQuote(t *testing.T, r http.Handler, req handler.QuoteRequest) models.Quote {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/quotes", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create quote: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[models.Quote](t, w)
}

func setQuoteStatus(t *testing.T, r http.Handler, id int64, status string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(r, http.MethodPost, fmt.Sprintf("/api/quotes/%d/status", id), handler.StatusRequest{Status: status})
}

// acceptedQuote walks a one-line quote through sent to accepted.
func acceptedQuote(t *testing.T, r http.Handler) models.Quote {
	t.Helper()
	c := createCustomer(t, r, "Acme Fabrication")
	q := createQuote(t, r, handler.QuoteRequest{CustomerID: c.ID, Title: "Stair stringers", BOM: []service.LineInput{plateLine(2)}})
	for _, s := range []string{"sent", "accepted"} {
		if w := setQuoteStatus(t, r, q.ID, s); w.Code != http.StatusOK {
			t.Fatalf("status %s: expected 200, got %d: %s", s, w.Code, w.Body.String())
		}
	}
	q.Status = models.QuoteAccepted
	return q
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
