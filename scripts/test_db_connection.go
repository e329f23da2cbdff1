//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"dinekart/internal/config"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5"
)

func main() {
	var dbCfg config.DatabaseConfig
	if err := env.Parse(&dbCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid database settings: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbCfg.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	// List the application tables and their row counts
	rows, err := conn.Query(ctx, `
		SELECT relname, n_live_tup
		FROM pg_stat_user_tables
		ORDER BY relname
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	fmt.Println("\nTables:")
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  - %s (%d rows)\n", name, count)
	}
}
