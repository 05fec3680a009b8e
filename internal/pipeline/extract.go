package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/pkg/utils"
)

var sampleProducts = []string{
	"Laptop", "Desktop", "Mouse", "Keyboard", "Monitor",
	"Printer", "Webcam", "Headphones", "Tablet", "Smartphone",
}

var sampleRegions = []string{"North", "South", "East", "West", "Central"}

// Price bounds per product so generated amounts look realistic.
var samplePriceRanges = map[string][2]float64{
	"Laptop":     {800, 2000},
	"Desktop":    {600, 1500},
	"Monitor":    {200, 800},
	"Printer":    {150, 500},
	"Tablet":     {300, 1000},
	"Smartphone": {400, 1200},
	"Mouse":      {20, 100},
	"Keyboard":   {50, 200},
	"Webcam":     {50, 300},
	"Headphones": {30, 400},
}

// ExtractSampleSalesData generates n demonstration sales records spread
// over the trailing 30 days.
func ExtractSampleSalesData(n int) []model.RawRecord {
	fmt.Printf("➡️ Generating %d sample sales records\n", n)

	baseDate := time.Now().AddDate(0, 0, -30)
	records := make([]model.RawRecord, 0, n)

	for i := 0; i < n; i++ {
		product := sampleProducts[rand.Intn(len(sampleProducts))]

		bounds, ok := samplePriceRanges[product]
		if !ok {
			bounds = [2]float64{50, 500}
		}
		price := math.Round((bounds[0]+rand.Float64()*(bounds[1]-bounds[0]))*100) / 100

		saleDate := baseDate.AddDate(0, 0, rand.Intn(31))

		records = append(records, model.RawRecord{
			"product_name": product,
			"sales_amount": price,
			"sale_date":    saleDate.Format(saleDateFormat),
			"region":       sampleRegions[rand.Intn(len(sampleRegions))],
			"customer_id":  fmt.Sprintf("CUST_%d", 1000+rand.Intn(9000)),
			"quantity":     1 + rand.Intn(5),
		})
	}

	fmt.Printf("➡️ Generated %d sample sales records\n", len(records))
	return records
}

// ExtractFromJSON fetches raw records from a JSON endpoint. The body must
// be an array of objects or a single object.
func ExtractFromJSON(ctx context.Context, url string) ([]model.RawRecord, error) {
	fmt.Printf("🌐 GET JSON: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET JSON: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON body: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	var records []model.RawRecord
	switch data := raw.(type) {
	case []interface{}:
		for _, item := range data {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, model.RawRecord(m))
			}
		}
	case map[string]interface{}:
		records = append(records, model.RawRecord(data))
	default:
		return nil, fmt.Errorf("unexpected JSON structure")
	}

	fmt.Printf("🌐 JSON extraction done: %d records read from %s\n", len(records), url)
	return records, nil
}

// ExtractFromCSV reads raw records from a CSV file. The first row is
// treated as the header; cell values are parsed into int/float/string.
func ExtractFromCSV(path string) ([]model.RawRecord, error) {
	fmt.Printf("📄 Reading CSV: %s\n", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records []model.RawRecord
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := make(model.RawRecord, len(headers))
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			rec[normalizeHeader(h)] = utils.ParseValue(row[i])
		}
		records = append(records, rec)
	}

	fmt.Printf("📄 CSV extraction done: %d records read from %s\n", len(records), path)
	return records, nil
}

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
}
