package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/zenbild.db"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Check goose version table
	fmt.Println("=== Goose Migration Status ===")
	rows, err := db.Query("SELECT version_id, is_applied, tstamp FROM goose_db_version ORDER BY id")
	if err != nil {
		fmt.Printf("Error querying goose_db_version: %v\n", err)
		fmt.Println("Table might not exist yet")
	} else {
		for rows.Next() {
			var versionID int64
			var isApplied bool
			var tstamp string
			if err := rows.Scan(&versionID, &isApplied, &tstamp); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Version: %d, Applied: %v, Timestamp: %s\n", versionID, isApplied, tstamp)
		}
		rows.Close()
	}

	for _, table := range []string{"users", "email_login_tokens"} {
		printSchema(db, table)
	}

	// Pending vs. consumed tokens
	var pending, consumed int
	err = db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN consumed_at IS NULL THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN consumed_at IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM email_login_tokens`).Scan(&pending, &consumed)
	if err != nil {
		fmt.Printf("\nError counting login tokens: %v\n", err)
		return
	}
	fmt.Printf("\nLogin tokens: %d pending, %d consumed\n", pending, consumed)
}

func printSchema(db *sql.DB, table string) {
	fmt.Printf("\n=== %s Table Schema ===\n", table)
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		fmt.Printf("Error querying %s table: %v\n", table, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var typ string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dfltValue, &pk); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Column: %s (%s)\n", name, typ)
	}
}
