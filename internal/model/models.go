package model

// RawRecord is a schema-agnostic map as produced by a data source.
type RawRecord map[string]interface{}

// SalesRecord is a cleaned, canonical sales record. Every SalesRecord
// carries a positive amount, a positive quantity and a parsable sale date.
type SalesRecord struct {
	ProductName string  `json:"product_name"`
	SalesAmount float64 `json:"sales_amount"`
	SaleDate    string  `json:"sale_date"` // YYYY-MM-DD
	Region      string  `json:"region"`
	CustomerID  string  `json:"customer_id"`
	Quantity    int     `json:"quantity"`
}

// EnrichedRecord is a SalesRecord plus derived reporting fields.
type EnrichedRecord struct {
	SalesRecord
	TotalValue  float64 `json:"total_value"`
	SaleMonth   string  `json:"sale_month"` // YYYY-MM
	SaleYear    int     `json:"sale_year"`
	SaleQuarter string  `json:"sale_quarter"` // Q1..Q4
}

// RegionAggregate is one summary row per distinct region.
type RegionAggregate struct {
	Region        string  `json:"region"`
	TotalSales    int     `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalQuantity int     `json:"total_quantity"`
	// ProductCount counts records attributed to the region, not distinct
	// products. The name is a historical quirk of the reporting schema.
	ProductCount  int     `json:"product_count"`
	AvgSaleAmount float64 `json:"avg_sale_amount"`
	AvgQuantity   float64 `json:"avg_quantity"`
}

// ProductAggregate is one summary row per distinct product. RegionCount is
// a true distinct-region cardinality.
type ProductAggregate struct {
	ProductName   string  `json:"product_name"`
	TotalSales    int     `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalQuantity int     `json:"total_quantity"`
	RegionCount   int     `json:"region_count"`
	AvgSaleAmount float64 `json:"avg_sale_amount"`
	AvgQuantity   float64 `json:"avg_quantity"`
}

// PipelineSummary describes the persisted state of the three target tables.
// It is recomputed from the database after every load, never cached.
type PipelineSummary struct {
	SalesRecords int     `json:"sales_records"`
	Regions      int     `json:"regions"`
	Products     int     `json:"products"`
	TotalRevenue float64 `json:"total_revenue"`
}
