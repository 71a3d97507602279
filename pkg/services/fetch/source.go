package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/queue-atlas/pkg/adapters"
	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb/metrics"
)

// Source loads the raw history of one department for a period.
type Source interface {
	Fetch(ctx context.Context, department domain.Department, period domain.TimePeriod) (domain.Dataset, error)
}

type HTTPSource struct {
	client *http.Client
}

func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client}
}

// Fetch calls GET {base_url}/departments/{id}/history?period=... with the
// department's bearer token.
func (s *HTTPSource) Fetch(ctx context.Context, department domain.Department, period domain.TimePeriod) (domain.Dataset, error) {
	if department.BaseURL == "" {
		return domain.Dataset{}, fmt.Errorf("department %s has no base_url", department.ID)
	}
	endpoint := fmt.Sprintf("%s/departments/%s/history?period=%s",
		strings.TrimRight(department.BaseURL, "/"),
		url.PathEscape(department.ID),
		url.QueryEscape(period.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if department.Token != "" {
		req.Header.Set("Authorization", "Bearer "+department.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("request history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Dataset{}, fmt.Errorf("history request failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload api.HistoryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode history: %w", err)
	}
	return adapters.MapAPIHistoryToDomain(payload), nil
}

// StoreSource reads history from the local DuckDB store.
type StoreSource struct {
	store metrics.Store
	now   func() time.Time
}

func NewStoreSource(store metrics.Store, now func() time.Time) *StoreSource {
	if now == nil {
		now = time.Now
	}
	return &StoreSource{store: store, now: now}
}

func (s *StoreSource) Fetch(ctx context.Context, department domain.Department, period domain.TimePeriod) (domain.Dataset, error) {
	start, end := Window(period, s.now())

	records, err := s.store.GetDailyMetrics(ctx, department.ID, start, end)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load daily metrics: %w", err)
	}
	reasons, err := s.store.GetCancellationReasons(ctx, department.ID, start, end)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load cancellation reasons: %w", err)
	}
	return adapters.MapStoreMetricsToDomain(records, reasons), nil
}

// Window returns the first and last day, at UTC midnight, of the period's
// lookback ending on now's date.
func Window(period domain.TimePeriod, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, 1-period.LookbackDays()), end
}

// StaticSource serves one fixed dataset, e.g. a payload read from a file.
type StaticSource struct {
	Dataset domain.Dataset
}

func (s StaticSource) Fetch(_ context.Context, _ domain.Department, _ domain.TimePeriod) (domain.Dataset, error) {
	return s.Dataset, nil
}
