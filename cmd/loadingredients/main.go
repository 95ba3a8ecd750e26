package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/ingredient"
)

// Bulk-loads the ingredient reference catalog from a CSV of
// "name,measurement_unit" rows. Rows already present are skipped, so the
// loader can be re-run against a populated database.
func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("failed to parse %s: %v", *path, err)
	}

	service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))

	ctx := context.Background()
	loaded := 0
	for _, record := range records {
		if _, err := service.GetOrCreateIngredient(ctx, record[0], record[1]); err != nil {
			log.Printf("skipping %q: %v", record[0], err)
			continue
		}
		loaded++
	}
	log.Printf("loaded %d of %d ingredients from %s", loaded, len(records), *path)
}
