package main

//go:generate echo "Generating SQLC files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && sqlc generate -f ../sqlc.yaml"
//go:generate echo "SQLC files generated"

//go:generate echo "Generating templ files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && templ generate -path ../views"
//go:generate echo "templ files generated"

// This file contains go:generate directives that regenerate the SQLC code
// in storage/db from storage/queries and the templ components in views.
// Run:
//
// go generate ./...
//
// from the project root directory.
