package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hryucha/protein-catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportURL(t *testing.T) {
	got := ExportURL("1AbC", "42", FormatCSV)

	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC/export?format=csv&gid=42", got)
}

func TestClient_FetchProducts(t *testing.T) {
	testCases := []struct {
		name          string
		format        Format
		status        int
		body          string
		expectedErr   error
		expectedCount int
	}{
		{
			name:          "Success",
			status:        http.StatusOK,
			body:          "Название,Калории,Белок,Категория\nТворог 5%,120,18,Творог\nБез калорий,,10,Мясо\nКолбаса,257,13,Колбаса\n",
			expectedCount: 2,
		},
		{
			name:          "Empty document",
			status:        http.StatusOK,
			body:          "",
			expectedCount: 0,
		},
		{
			name:        "Server error",
			status:      http.StatusInternalServerError,
			body:        "oops",
			expectedErr: ErrFetch,
		},
		{
			name:        "Not found",
			status:      http.StatusNotFound,
			expectedErr: ErrFetch,
		},
		{
			name:        "CSV served for an xlsx export",
			format:      FormatXLSX,
			status:      http.StatusOK,
			body:        "Название,Калории\nТворог,120\n",
			expectedErr: ErrParse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var gotMethod string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			format := tc.format
			if format == "" {
				format = FormatCSV
			}
			client := NewClient(srv.Client(), srv.URL, format)

			// Act
			products, err := client.FetchProducts(context.Background())

			// Assert
			assert.Equal(t, http.MethodGet, gotMethod)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, products)
				return
			}
			require.NoError(t, err)
			assert.Len(t, products, tc.expectedCount)
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(nil, srv.URL, FormatCSV).FetchRows(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(nil, url, FormatCSV).FetchRows(context.Background())

	assert.ErrorIs(t, err, ErrFetch)
}

func TestClient_FetchProductsAssemblesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Название,Калории,Белок,Жиры,Углеводы\nТворог 5%,120,18,5,3\n"))
	}))
	defer srv.Close()

	products, err := NewClient(srv.Client(), srv.URL, FormatCSV).FetchProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "product-0", products[0].ID)
	assert.Equal(t, models.TagOther, products[0].Tag)
	assert.Equal(t, 15.0, products[0].ProteinPerCalorie)
}
