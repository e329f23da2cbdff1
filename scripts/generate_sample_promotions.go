//go:build ignore

package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"dinekart/internal/model"
	"dinekart/internal/promotion"

	"github.com/shopspring/decimal"
)

// generateSamplePromotions writes a gzipped promotion catalog for the file and S3 sources.
// WELCOME10 and FREESHIP are live, SUMMER2025 has expired and RETIRED is switched off.
func main() {
	out := "data/promotions.yaml.gz"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	minimum := decimal.NewFromInt(40)
	expired := time.Date(2025, 8, 31, 23, 59, 59, 0, time.UTC)
	nextYear := time.Now().UTC().AddDate(1, 0, 0)

	promotions := []model.Promotion{
		{Code: "WELCOME10", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true},
		{Code: "FREESHIP", DiscountType: model.DiscountFixed, DiscountValue: decimal.RequireFromString("4.99"), MinimumOrder: &minimum, Active: true, ExpiresAt: &nextYear},
		{Code: "SUMMER2025", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(15), Active: true, ExpiresAt: &expired},
		{Code: "RETIRED", DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(5), Active: false},
	}

	if err := writeCatalog(out, promotions); err != nil {
		log.Fatalf("Failed to create %s: %v", out, err)
	}

	fmt.Printf("Created %s with %d promotions\n", out, len(promotions))
}

func writeCatalog(path string, promotions []model.Promotion) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := promotion.EncodeCatalog(gz, promotions); err != nil {
		return err
	}
	return gz.Close()
}
