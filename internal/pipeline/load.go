package pipeline

import (
	"errors"
	"fmt"
	"log"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/pkg/utils"
)

// Storage is the minimal row-store access the loader needs. Both primitives
// take parameterized SQL; implementations must never require callers to
// interpolate values into statements.
type Storage interface {
	ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error)
	ExecuteCommand(command string, args ...interface{}) (int64, error)
}

// ErrDeleteNotConfirmed is returned when a destructive aggregate reload is
// attempted without explicit confirmation.
var ErrDeleteNotConfirmed = errors.New("delete operation requires explicit confirmation")

// Loader persists enriched records and aggregates into the relational
// store. Operations are not atomic across records: a failure mid-load
// leaves earlier rows committed, and callers rely on conflict-skip (sales)
// or delete-then-insert (aggregates) to reach a consistent state on re-run.
type Loader struct {
	db Storage
}

// NewLoader creates a loader bound to the given storage.
func NewLoader(db Storage) *Loader {
	return &Loader{db: db}
}

// CreateTables creates the three target tables if absent. Safe to call on
// every run.
//
// sales_data carries a UNIQUE index over its natural key so that re-running
// a load skips rows already present instead of duplicating them.
func (l *Loader) CreateTables() error {
	fmt.Println("💾 Creating database tables")

	salesTable := `
	CREATE TABLE IF NOT EXISTS sales_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_name TEXT NOT NULL,
		sales_amount REAL NOT NULL,
		sale_date TEXT NOT NULL,
		region TEXT,
		customer_id TEXT,
		quantity INTEGER DEFAULT 1,
		total_value REAL,
		sale_month TEXT,
		sale_year INTEGER,
		sale_quarter TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (product_name, sale_date, region, customer_id, sales_amount, quantity)
	);
	`
	regionAggTable := `
	CREATE TABLE IF NOT EXISTS region_aggregates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		region TEXT NOT NULL UNIQUE,
		total_sales INTEGER NOT NULL,
		total_revenue REAL NOT NULL,
		total_quantity INTEGER NOT NULL,
		product_count INTEGER NOT NULL,
		avg_sale_amount REAL,
		avg_quantity REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	productAggTable := `
	CREATE TABLE IF NOT EXISTS product_aggregates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_name TEXT NOT NULL UNIQUE,
		total_sales INTEGER NOT NULL,
		total_revenue REAL NOT NULL,
		total_quantity INTEGER NOT NULL,
		region_count INTEGER NOT NULL,
		avg_sale_amount REAL,
		avg_quantity REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	for _, query := range []string{salesTable, regionAggTable, productAggTable} {
		if _, err := l.db.ExecuteCommand(query); err != nil {
			log.Printf("❌ Failed to create tables: %v", err)
			return fmt.Errorf("create tables: %w", err)
		}
	}

	fmt.Println("💾 Database tables created/verified")
	return nil
}

// LoadSalesData inserts each enriched record as a sales_data row. Rows that
// collide on the natural key are silently skipped. Returns the number of
// records submitted for insertion, which may exceed the number of rows
// actually new.
func (l *Loader) LoadSalesData(records []model.EnrichedRecord) (int, error) {
	fmt.Printf("💾 Loading %d sales records\n", len(records))

	insertQuery := `
	INSERT OR IGNORE INTO sales_data
	(product_name, sales_amount, sale_date, region, customer_id,
	 quantity, total_value, sale_month, sale_year, sale_quarter)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	loaded := 0
	for _, rec := range records {
		_, err := l.db.ExecuteCommand(insertQuery,
			rec.ProductName, rec.SalesAmount, rec.SaleDate, rec.Region,
			rec.CustomerID, rec.Quantity, rec.TotalValue,
			rec.SaleMonth, rec.SaleYear, rec.SaleQuarter,
		)
		if err != nil {
			log.Printf("❌ Failed to load sales data: %v", err)
			return loaded, fmt.Errorf("load sales data: %w", err)
		}
		loaded++
	}

	fmt.Printf("💾 Submitted %d sales records\n", loaded)
	return loaded, nil
}

// LoadRegionAggregates inserts region aggregate rows. When confirmDelete is
// true all existing rows are removed first; when false the deletion is
// skipped and rows are inserted on top of whatever is there — with the
// UNIQUE region constraint, an overlapping insert surfaces as a storage
// error. The conventional call passes confirmDelete=false.
func (l *Loader) LoadRegionAggregates(aggregates []model.RegionAggregate, confirmDelete bool) (int, error) {
	fmt.Printf("💾 Loading %d regional aggregates\n", len(aggregates))

	if confirmDelete {
		log.Printf("⚠️ Clearing all data from region_aggregates table")
		if _, err := l.db.ExecuteCommand(`DELETE FROM region_aggregates;`); err != nil {
			log.Printf("❌ Failed to clear region_aggregates: %v", err)
			return 0, fmt.Errorf("clear region aggregates: %w", err)
		}
	} else {
		fmt.Println("💾 Skipping deletion of existing region_aggregates rows")
	}

	insertQuery := `
	INSERT INTO region_aggregates
	(region, total_sales, total_revenue, total_quantity,
	 product_count, avg_sale_amount, avg_quantity)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`

	loaded := 0
	for _, agg := range aggregates {
		_, err := l.db.ExecuteCommand(insertQuery,
			agg.Region, agg.TotalSales, agg.TotalRevenue, agg.TotalQuantity,
			agg.ProductCount, agg.AvgSaleAmount, agg.AvgQuantity,
		)
		if err != nil {
			log.Printf("❌ Failed to load regional aggregates: %v", err)
			return loaded, fmt.Errorf("load region aggregates: %w", err)
		}
		loaded++
	}

	fmt.Printf("💾 Loaded %d regional aggregates\n", loaded)
	return loaded, nil
}

// LoadProductAggregates replaces the product_aggregates table with the
// given rows. The delete is destructive, so it demands confirmDelete=true —
// the conventional call — and refuses to insert on stale data otherwise.
func (l *Loader) LoadProductAggregates(aggregates []model.ProductAggregate, confirmDelete bool) (int, error) {
	fmt.Printf("💾 Loading %d product aggregates\n", len(aggregates))

	if !confirmDelete {
		log.Printf("❌ Delete operation not confirmed. Aborting.")
		return 0, ErrDeleteNotConfirmed
	}

	log.Printf("⚠️ Deleting all data from product_aggregates table. This operation is destructive.")
	if _, err := l.db.ExecuteCommand(`DELETE FROM product_aggregates;`); err != nil {
		log.Printf("❌ Failed to clear product_aggregates: %v", err)
		return 0, fmt.Errorf("clear product aggregates: %w", err)
	}

	insertQuery := `
	INSERT INTO product_aggregates
	(product_name, total_sales, total_revenue, total_quantity,
	 region_count, avg_sale_amount, avg_quantity)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`

	loaded := 0
	for _, agg := range aggregates {
		_, err := l.db.ExecuteCommand(insertQuery,
			agg.ProductName, agg.TotalSales, agg.TotalRevenue, agg.TotalQuantity,
			agg.RegionCount, agg.AvgSaleAmount, agg.AvgQuantity,
		)
		if err != nil {
			log.Printf("❌ Failed to load product aggregates: %v", err)
			return loaded, fmt.Errorf("load product aggregates: %w", err)
		}
		loaded++
	}

	fmt.Printf("💾 Loaded %d product aggregates\n", loaded)
	return loaded, nil
}

// GetDataSummary recomputes the cross-table summary from persisted state.
// An empty sales table yields a revenue of 0, not an error.
func (l *Loader) GetDataSummary() (model.PipelineSummary, error) {
	var summary model.PipelineSummary

	salesCount, err := l.countRows(`SELECT COUNT(*) AS count FROM sales_data;`)
	if err != nil {
		return summary, fmt.Errorf("summary: %w", err)
	}
	regionCount, err := l.countRows(`SELECT COUNT(*) AS count FROM region_aggregates;`)
	if err != nil {
		return summary, fmt.Errorf("summary: %w", err)
	}
	productCount, err := l.countRows(`SELECT COUNT(*) AS count FROM product_aggregates;`)
	if err != nil {
		return summary, fmt.Errorf("summary: %w", err)
	}

	rows, err := l.db.ExecuteQuery(`SELECT COALESCE(SUM(sales_amount), 0) AS total_revenue FROM sales_data;`)
	if err != nil {
		return summary, fmt.Errorf("summary: %w", err)
	}
	totalRevenue := 0.0
	if len(rows) > 0 {
		if f, ok := utils.CoerceFloat(rows[0]["total_revenue"]); ok {
			totalRevenue = f
		}
	}

	summary = model.PipelineSummary{
		SalesRecords: salesCount,
		Regions:      regionCount,
		Products:     productCount,
		TotalRevenue: totalRevenue,
	}

	fmt.Printf("💾 Data summary: %+v\n", summary)
	return summary, nil
}

func (l *Loader) countRows(query string) (int, error) {
	rows, err := l.db.ExecuteQuery(query)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	count, _ := utils.CoerceInt(rows[0]["count"])
	return count, nil
}
