package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSampleSalesData(t *testing.T) {
	records := ExtractSampleSalesData(100)
	require.Len(t, records, 100)

	for _, rec := range records {
		product, ok := rec["product_name"].(string)
		require.True(t, ok)

		bounds, ok := samplePriceRanges[product]
		require.True(t, ok, "unknown product %s", product)

		amount, ok := rec["sales_amount"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, amount, bounds[0])
		assert.LessOrEqual(t, amount, bounds[1])

		date, ok := rec["sale_date"].(string)
		require.True(t, ok)
		_, err := time.Parse("2006-01-02", date)
		assert.NoError(t, err)

		qty, ok := rec["quantity"].(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, qty, 1)
		assert.LessOrEqual(t, qty, 5)

		assert.Contains(t, sampleRegions, rec["region"])
		assert.Regexp(t, `^CUST_\d{4}$`, rec["customer_id"])
	}
}

func TestExtractSampleSalesDataZero(t *testing.T) {
	assert.Empty(t, ExtractSampleSalesData(0))
}

func TestExtractFromJSONArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"product_name": "Laptop", "sales_amount": 999.99, "sale_date": "2026-01-15"},
			{"product_name": "Mouse", "sales_amount": 49.50, "sale_date": "2026-01-16"}
		]`))
	}))
	defer srv.Close()

	records, err := ExtractFromJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Laptop", records[0]["product_name"])
	assert.Equal(t, 999.99, records[0]["sales_amount"])
}

func TestExtractFromJSONSingleObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product_name": "Laptop", "sales_amount": 999.99}`))
	}))
	defer srv.Close()

	records, err := ExtractFromJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExtractFromJSONBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := ExtractFromJSON(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestExtractFromJSONInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := ExtractFromJSON(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestExtractFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	csvData := "product_name,sales_amount,sale_date,region,quantity\n" +
		"Laptop,999.99,2026-01-15,North,2\n" +
		"Mouse,49.50,2026-01-16,South,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	records, err := ExtractFromCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Cell values are typed: ints, floats, strings.
	assert.Equal(t, "Laptop", records[0]["product_name"])
	assert.Equal(t, 999.99, records[0]["sales_amount"])
	assert.Equal(t, 2, records[0]["quantity"])
	assert.Equal(t, "North", records[0]["region"])
}

func TestExtractFromCSVQuotedHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	csvData := "\"product_name\", sales_amount\nLaptop,999.99\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	records, err := ExtractFromCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0], "product_name")
	assert.Contains(t, records[0], "sales_amount")
}

func TestExtractFromCSVMissingFile(t *testing.T) {
	_, err := ExtractFromCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
