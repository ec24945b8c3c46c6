package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"eshop-reports-api/internal/models"
	"eshop-reports-api/internal/repositories"
)

// statOrderRepo serves a fixed order set for the health counters
type statOrderRepo struct {
	orders  []*models.Order
	listErr error
}

func (r *statOrderRepo) ListAll(ctx context.Context) ([]*models.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.orders, nil
}

func (r *statOrderRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var matched []*models.Order
	for _, order := range r.orders {
		if !order.CreatedAt.Before(start) && order.CreatedAt.Before(end) {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (r *statOrderRepo) Count(ctx context.Context) (int64, error) {
	if r.listErr != nil {
		return 0, r.listErr
	}
	return int64(len(r.orders)), nil
}

type statCustomerRepo struct {
	total    int64
	countErr error
}

func (r *statCustomerRepo) Count(ctx context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.total, nil
}

type statProductRepo struct {
	total int64
}

func (r *statProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return nil, repositories.NotFoundError("product", id)
}

func (r *statProductRepo) Count(ctx context.Context) (int64, error) {
	return r.total, nil
}

type statSnapshotRepo struct {
	total int64
}

func (r *statSnapshotRepo) Insert(ctx context.Context, snapshot *models.KPISnapshot) error {
	return nil
}

func (r *statSnapshotRepo) Latest(ctx context.Context) (*models.KPISnapshot, error) {
	return nil, repositories.NotFoundError("kpi_snapshot", "latest")
}

func (r *statSnapshotRepo) List(ctx context.Context, limit int) ([]*models.KPISnapshot, error) {
	return nil, nil
}

func (r *statSnapshotRepo) Count(ctx context.Context) (int64, error) {
	return r.total, nil
}

func (r *statSnapshotRepo) OldestIDs(ctx context.Context, n int) ([]string, error) {
	return nil, nil
}

func (r *statSnapshotRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	return nil
}

func statsRouter(repos *repositories.RepositoryContainer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", healthHandler(repos))
	return router
}

func TestHealthEndpointReportsStoreCounters(t *testing.T) {
	now := time.Now().UTC()
	repos := &repositories.RepositoryContainer{
		OrderRepo: &statOrderRepo{orders: []*models.Order{
			{OrderID: "o1", CreatedAt: now.Add(-2 * time.Hour)},
			{OrderID: "o2", CreatedAt: now.Add(-3 * 24 * time.Hour)},
			{OrderID: "o3", CreatedAt: now.Add(-20 * 24 * time.Hour)},
		}},
		CustomerRepo: &statCustomerRepo{total: 12},
		ProductRepo:  &statProductRepo{total: 40},
		SnapshotRepo: &statSnapshotRepo{total: 7},
	}

	recorder := performRequest(statsRouter(repos), http.MethodGet, "/health")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Stats   struct {
			Orders    int64 `json:"orders"`
			Orders24h int   `json:"orders_24h"`
			Customers int64 `json:"customers"`
			Products  int64 `json:"products"`
			Snapshots int64 `json:"snapshots"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "healthy" {
		t.Errorf("expected status %q, got %q", "healthy", body.Status)
	}
	if body.Service != "eshop-reports-api" {
		t.Errorf("unexpected service name: %q", body.Service)
	}
	if body.Stats.Orders != 3 {
		t.Errorf("expected 3 orders, got %d", body.Stats.Orders)
	}
	if body.Stats.Orders24h != 1 {
		t.Errorf("expected 1 order in the last 24h, got %d", body.Stats.Orders24h)
	}
	if body.Stats.Customers != 12 {
		t.Errorf("expected 12 customers, got %d", body.Stats.Customers)
	}
	if body.Stats.Products != 40 {
		t.Errorf("expected 40 products, got %d", body.Stats.Products)
	}
	if body.Stats.Snapshots != 7 {
		t.Errorf("expected 7 snapshots, got %d", body.Stats.Snapshots)
	}
}

func TestHealthEndpointUnhealthyOnStoreFailure(t *testing.T) {
	repos := &repositories.RepositoryContainer{
		OrderRepo:    &statOrderRepo{listErr: errors.New("database is locked")},
		CustomerRepo: &statCustomerRepo{},
		ProductRepo:  &statProductRepo{},
		SnapshotRepo: &statSnapshotRepo{},
	}

	recorder := performRequest(statsRouter(repos), http.MethodGet, "/health")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("expected status %q, got %q", "unhealthy", body["status"])
	}
	if body["error"] == "" {
		t.Error("expected an error detail")
	}
}

func TestHealthEndpointWithoutRepositories(t *testing.T) {
	recorder := performRequest(statsRouter(nil), http.MethodGet, "/health")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status %q, got %q", "healthy", body["status"])
	}
	if _, present := body["stats"]; present {
		t.Error("expected no stats block without repositories")
	}
}
