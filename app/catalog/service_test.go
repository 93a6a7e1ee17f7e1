package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hryucha/protein-catalog/app/sheet"
	"github.com/hryucha/protein-catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	fetch func(call int) ([]models.Product, error)
}

func (f *fakeSource) FetchProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fetch(call)
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestService(src ProductSource, opts Options) (*Service, *testClock, *[]time.Duration) {
	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	var sleeps []time.Duration

	s := NewService(src, opts, nil)
	s.now = clock.Now
	s.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return s, clock, &sleeps
}

func fetchErr(msg string) error {
	return fmt.Errorf("%w: %s", sheet.ErrFetch, msg)
}

func TestService_CachesWithinTTL(t *testing.T) {
	src := &fakeSource{fetch: func(int) ([]models.Product, error) { return testProducts(), nil }}
	s, clock, _ := newTestService(src, Options{TTL: 5 * time.Minute})

	first, err := s.Products(context.Background())
	require.NoError(t, err)
	clock.now = clock.now.Add(4 * time.Minute)
	second, err := s.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.Calls())
	assert.Equal(t, first, second)
	assert.Equal(t, clock.now.Add(-4*time.Minute), s.LoadedAt())
}

func TestService_ReloadsAfterTTL(t *testing.T) {
	src := &fakeSource{fetch: func(call int) ([]models.Product, error) {
		return testProducts()[:call], nil
	}}
	s, clock, _ := newTestService(src, Options{TTL: time.Minute})

	first, err := s.Products(context.Background())
	require.NoError(t, err)
	clock.now = clock.now.Add(2 * time.Minute)
	second, err := s.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.Calls())
	assert.Len(t, first, 1)
	assert.Len(t, second, 2, "a reload replaces the snapshot wholesale")
}

func TestService_RetriesFetchErrors(t *testing.T) {
	src := &fakeSource{fetch: func(call int) ([]models.Product, error) {
		if call < 3 {
			return nil, fetchErr("timeout")
		}
		return testProducts(), nil
	}}
	s, _, sleeps := newTestService(src, Options{TTL: time.Minute, Retries: 2, RetryDelay: time.Second})

	products, err := s.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.Equal(t, 3, src.Calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
}

func TestService_GivesUpAfterRetries(t *testing.T) {
	src := &fakeSource{fetch: func(int) ([]models.Product, error) {
		return nil, &sheet.StatusError{StatusCode: 503}
	}}
	s, _, _ := newTestService(src, Options{TTL: time.Minute, Retries: 2, RetryDelay: time.Millisecond})

	_, err := s.Products(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, sheet.ErrFetch)
	assert.Equal(t, 3, src.Calls())
}

func TestService_DoesNotRetryParseErrors(t *testing.T) {
	src := &fakeSource{fetch: func(int) ([]models.Product, error) {
		return nil, fmt.Errorf("%w: bare quote", sheet.ErrParse)
	}}
	s, _, sleeps := newTestService(src, Options{TTL: time.Minute, Retries: 2, RetryDelay: time.Second})

	_, err := s.Products(context.Background())

	assert.ErrorIs(t, err, sheet.ErrParse)
	assert.Equal(t, 1, src.Calls())
	assert.Empty(t, *sleeps)
}

func TestService_ServesStaleSnapshotWhenReloadFails(t *testing.T) {
	src := &fakeSource{fetch: func(call int) ([]models.Product, error) {
		if call == 1 {
			return testProducts(), nil
		}
		return nil, fetchErr("offline")
	}}
	s, clock, _ := newTestService(src, Options{TTL: time.Minute})

	_, err := s.Products(context.Background())
	require.NoError(t, err)
	clock.now = clock.now.Add(time.Hour)

	products, err := s.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.Equal(t, 2, src.Calls())
}

func TestService_RefreshReportsFailure(t *testing.T) {
	src := &fakeSource{fetch: func(call int) ([]models.Product, error) {
		if call == 1 {
			return testProducts(), nil
		}
		return nil, fetchErr("offline")
	}}
	s, _, _ := newTestService(src, Options{TTL: time.Hour})

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	_, err = s.Refresh(context.Background())
	assert.ErrorIs(t, err, sheet.ErrFetch)

	products, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 4, "failed refresh keeps the previous snapshot")
}

func TestService_StopsRetryingWhenContextIsCancelled(t *testing.T) {
	src := &fakeSource{fetch: func(int) ([]models.Product, error) { return nil, fetchErr("timeout") }}
	s, _, _ := newTestService(src, Options{TTL: time.Minute, Retries: 5, RetryDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Products(ctx)

	require.Error(t, err)
	assert.Equal(t, 1, src.Calls())
}

func TestService_Product(t *testing.T) {
	src := &fakeSource{fetch: func(int) ([]models.Product, error) { return testProducts(), nil }}
	s, _, _ := newTestService(src, Options{TTL: time.Minute})

	p, err := s.Product(context.Background(), "product-2")
	require.NoError(t, err)
	assert.Equal(t, "Протеиновый батончик", p.Name)

	_, err = s.Product(context.Background(), "product-42")
	assert.True(t, errors.Is(err, models.ErrProductNotFound))
}

func TestService_ReturnedSliceIsACopy(t *testing.T) {
	src := &fakeSource{fetch: func(int) ([]models.Product, error) { return testProducts(), nil }}
	s, _, _ := newTestService(src, Options{TTL: time.Minute})

	first, err := s.Products(context.Background())
	require.NoError(t, err)
	first[0] = models.Product{}

	second, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "product-0", second[0].ID)
}

func TestService_ReturnedProductsDoNotShareFields(t *testing.T) {
	similarity := 90.0
	cached := models.NewProduct(models.ProductFields{
		ID:         "product-0",
		Name:       "Куриная грудка",
		Calories:   110,
		Links:      []string{"https://ozon.ru/p/1"},
		Similarity: &similarity,
	})
	src := &fakeSource{fetch: func(int) ([]models.Product, error) { return []models.Product{cached}, nil }}
	s, _, _ := newTestService(src, Options{TTL: time.Minute})

	first, err := s.Products(context.Background())
	require.NoError(t, err)
	first[0].Links[0] = "https://evil.example"
	*first[0].Similarity = 0

	p, err := s.Product(context.Background(), "product-0")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://ozon.ru/p/1"}, p.Links)
	assert.Equal(t, 90.0, *p.Similarity)
}
