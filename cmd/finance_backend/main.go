package main

import (
	"fmt"
	"os"
)

// @title Facility Finance API
// @version 1.0
// @description Cashbook ledger for health-facility accounts: entries, running balances and balance audits.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
