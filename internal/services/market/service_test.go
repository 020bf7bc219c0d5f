package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/models"
)

// stubSource is a canned MarketSource for cascade tests.
type stubSource struct {
	name  string
	table *models.RawTable
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) (*models.RawTable, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

var _ interfaces.MarketSource = (*stubSource)(nil)

func goodTable() *models.RawTable {
	return &models.RawTable{
		Headers: []string{"Symbol", "Current", "Change", "% Change"},
		Rows: [][]string{
			{"ZENITHBANK", "36.00", "0.50", "1.41"},
			{"GTCO", "44.95", "-0.55", "-1.21"},
		},
	}
}

func newTestService(ttl time.Duration, sources ...interfaces.MarketSource) *Service {
	return NewService(sources, ttl, common.NewSilentLogger())
}

func TestGetSnapshot_FirstSourceSucceeds(t *testing.T) {
	first := &stubSource{name: "primary", table: goodTable()}
	second := &stubSource{name: "secondary", err: errors.New("should not be reached")}

	svc := newTestService(0, first, second)
	snap, err := svc.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Source != "primary" {
		t.Errorf("expected source primary, got %s", snap.Source)
	}
	if len(snap.Quotes) != 2 {
		t.Errorf("expected 2 quotes, got %d", len(snap.Quotes))
	}
	if second.calls != 0 {
		t.Errorf("cascade should stop at first success, secondary called %d time(s)", second.calls)
	}
}

func TestGetSnapshot_FallsThroughToLaterSource(t *testing.T) {
	first := &stubSource{name: "ngx-api", err: errors.New("502 bad gateway")}
	second := &stubSource{name: "ngx-ajax", err: errors.New("timeout")}
	third := &stubSource{name: "ngx-html", table: goodTable()}

	svc := newTestService(0, first, second, third)
	snap, err := svc.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Source != "ngx-html" {
		t.Errorf("expected source ngx-html, got %s", snap.Source)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Errorf("expected each source tried once, got %d/%d/%d", first.calls, second.calls, third.calls)
	}
}

func TestGetSnapshot_SchemaMismatchFallsThrough(t *testing.T) {
	// A source that answers but with an unmappable table must not win the
	// cascade over a healthy one behind it.
	unmappable := &stubSource{name: "ngx-html", table: &models.RawTable{
		Headers: []string{"Notice", "Published"},
		Rows:    [][]string{{"Market holiday", "2025-08-25"}},
	}}
	healthy := &stubSource{name: "kwayisi-mirror", table: goodTable()}

	svc := newTestService(0, unmappable, healthy)
	snap, err := svc.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Source != "kwayisi-mirror" {
		t.Errorf("expected source kwayisi-mirror, got %s", snap.Source)
	}
}

func TestGetSnapshot_AllSourcesExhausted(t *testing.T) {
	sources := []interfaces.MarketSource{
		&stubSource{name: "ngx-api", err: errors.New("dns failure")},
		&stubSource{name: "ngx-ajax", err: errors.New("403 forbidden")},
		&stubSource{name: "ngx-html", table: &models.RawTable{Headers: []string{"Notice"}, Rows: nil}},
		&stubSource{name: "kwayisi-mirror", err: errors.New("connection refused")},
	}

	svc := newTestService(0, sources...)
	_, err := svc.GetSnapshot(context.Background())

	var unavailable *DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected DataUnavailableError, got %v", err)
	}
	if len(unavailable.Attempts) != 4 {
		t.Errorf("expected 4 recorded attempts, got %d", len(unavailable.Attempts))
	}
	if unavailable.Attempts[3].Source != "kwayisi-mirror" {
		t.Errorf("last attempt should be kwayisi-mirror, got %s", unavailable.Attempts[3].Source)
	}
	if unwrapped := errors.Unwrap(unavailable); unwrapped == nil {
		t.Error("expected Unwrap to expose the last failure")
	}
}

func TestGetSnapshot_ServesFromCacheWithinTTL(t *testing.T) {
	src := &stubSource{name: "primary", table: goodTable()}
	svc := newTestService(5*time.Minute, src)

	base := time.Date(2025, time.August, 25, 15, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }

	if _, err := svc.GetSnapshot(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	current = base.Add(4 * time.Minute)
	if _, err := svc.GetSnapshot(context.Background()); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("expected 1 upstream call while cache is fresh, got %d", src.calls)
	}

	current = base.Add(6 * time.Minute)
	if _, err := svc.GetSnapshot(context.Background()); err != nil {
		t.Fatalf("refetch after expiry: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("expected refetch after TTL expiry, got %d call(s)", src.calls)
	}
}

func TestGetSnapshot_ZeroTTLDisablesCache(t *testing.T) {
	src := &stubSource{name: "primary", table: goodTable()}
	svc := newTestService(0, src)

	svc.GetSnapshot(context.Background())
	svc.GetSnapshot(context.Background())

	if src.calls != 2 {
		t.Errorf("expected every call to hit upstream with cache disabled, got %d", src.calls)
	}
}

func TestGetSnapshot_FailureDoesNotPoisonCache(t *testing.T) {
	src := &stubSource{name: "primary", err: errors.New("down")}
	svc := newTestService(5*time.Minute, src)

	if _, err := svc.GetSnapshot(context.Background()); err == nil {
		t.Fatal("expected error while source is down")
	}

	src.err = nil
	src.table = goodTable()
	snap, err := svc.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("expected recovery once source is healthy: %v", err)
	}
	if len(snap.Quotes) != 2 {
		t.Errorf("expected 2 quotes after recovery, got %d", len(snap.Quotes))
	}
}
