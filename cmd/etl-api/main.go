package main

import (
	"flag"
	"fmt"
	"os"

	"sales-data-pipeline/internal/api"
	"sales-data-pipeline/internal/api/handler"
	"sales-data-pipeline/internal/store"
	"sales-data-pipeline/pkg/router"

	_ "sales-data-pipeline/docs"
)

// @title Sales Data Pipeline API
// @version 1.0
// @description HTTP API for managing sales ETL pipeline runs.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	dbPath := flag.String("db", "pipeline.db", "path to the SQLite database file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	r := router.New()
	api.RegisterRoutes(r, handler.New(st))

	r.Start(*addr)
}
