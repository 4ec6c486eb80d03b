package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vitalpoint/backend/internal/adapters/database"
	"github.com/vitalpoint/backend/internal/adapters/search"
	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/postgres"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/typesense"
	"github.com/vitalpoint/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	var searchRepo *search.TypesenseAdapter
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Typesense unavailable, seeding database only: %v", err)
	} else {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init Typesense schema: %v", err)
			searchRepo = nil
		}
	}

	clinicRepo := database.NewClinicAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				assessments,
				clinics
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	clinics := []entities.Clinic{
		{
			ID:          uuid.New().String(),
			Name:        "General Hospital Lagos",
			Address:     "1-3 Broad Street, Odan, Lagos Island, Lagos, Nigeria",
			Latitude:    "6.4531",
			Longitude:   "3.3958",
			Category:    "hospital",
			Rating:      4.2,
			Hours:       "24 hours",
			PhoneNumber: "+234 1 263 0781",
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "Lagos State University Teaching Hospital",
			Address:     "1-5 Oba Akinjobi Way, Ikeja, Lagos, Nigeria",
			Latitude:    "6.5967",
			Longitude:   "3.3421",
			Category:    "hospital",
			Rating:      4.5,
			Hours:       "24 hours",
			PhoneNumber: "+234 1 470 9201",
			Website:     "https://lasuth.org.ng",
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:        uuid.New().String(),
			Name:      "Ikeja Primary Health Centre",
			Address:   "12 Medical Road, Ikeja, Lagos, Nigeria",
			Latitude:  "6.6018",
			Longitude: "3.3515",
			Category:  "clinic",
			Rating:    3.9,
			Hours:     "Mon-Sat 8:00-18:00",
			CreatedAt: time.Now().UTC(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "Greenfield Dental Clinic",
			Address:     "4 Allen Avenue, Ikeja, Lagos, Nigeria",
			Latitude:    "6.5921",
			Longitude:   "3.3556",
			Category:    "dentist",
			Rating:      4.7,
			Hours:       "Mon-Fri 9:00-17:00",
			PhoneNumber: "+234 802 555 0143",
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:        uuid.New().String(),
			Name:      "Abuja Central Clinic",
			Address:   "23 Herbert Macaulay Way, Wuse, Abuja, Nigeria",
			Latitude:  "9.0579",
			Longitude: "7.4951",
			Category:  "clinic",
			Rating:    4.1,
			Hours:     "Mon-Sun 7:00-21:00",
			CreatedAt: time.Now().UTC(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "National Hospital Abuja",
			Address:     "Plot 132 Central District, Garki, Abuja, Nigeria",
			Latitude:    "9.0284",
			Longitude:   "7.4804",
			Category:    "hospital",
			Rating:      4.4,
			Hours:       "24 hours",
			PhoneNumber: "+234 9 290 5000",
			Website:     "https://nationalhospital.gov.ng",
			CreatedAt:   time.Now().UTC(),
		},
	}

	seeded := 0
	for i := range clinics {
		clinic := &clinics[i]
		if err := clinicRepo.Create(ctx, clinic); err != nil {
			log.Printf("Failed to create clinic %s: %v", clinic.Name, err)
			continue
		}
		seeded++

		if searchRepo != nil {
			if err := searchRepo.Index(ctx, clinic); err != nil {
				log.Printf("Failed to index clinic %s: %v", clinic.Name, err)
			}
		}
	}

	log.Printf("Seeded %d clinics", seeded)
}
