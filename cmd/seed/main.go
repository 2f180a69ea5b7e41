package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/almira/almira-backend/config"
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
)

// Imports a product catalogue from an XLSX file and makes sure every
// landing page row exists. Expected columns:
// name_ar | name_en | category | price (minor units) | stock
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	settingsRepo := repository.NewSettingsRepository(db.GetDB())
	for _, key := range model.LandingPageKeys {
		if _, err := settingsRepo.GetPage(key); err != nil {
			log.Fatal("Failed to seed landing page:", err)
		}
	}
	fmt.Printf("Landing pages ready: %d\n", len(model.LandingPageKeys))

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	if err := productRepo.BulkCreate(products, 500); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found")
	}

	var products []model.Product
	for i, row := range rows[1:] {
		if len(row) < 5 {
			fmt.Printf("Skipping row %d: expected 5 columns, got %d\n", i+2, len(row))
			continue
		}

		nameAr := strings.TrimSpace(row[0])
		nameEn := strings.TrimSpace(row[1])
		if nameAr == "" && nameEn == "" {
			continue
		}

		price, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
		if err != nil || price < 0 {
			fmt.Printf("Skipping row %d: invalid price %q\n", i+2, row[3])
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil || stock < 0 {
			fmt.Printf("Skipping row %d: invalid stock %q\n", i+2, row[4])
			continue
		}

		products = append(products, model.Product{
			NameAr:   nameAr,
			NameEn:   nameEn,
			Category: strings.TrimSpace(row[2]),
			Price:    price,
			Stock:    stock,
			Active:   true,
		})
	}

	return products, nil
}
