// Command seed loads the service catalog and optional demo data.
package main

import (
	"flag"
	"log"

	"airtecs/internal/bootstrap"
	"airtecs/internal/config"
	"airtecs/internal/seed"
)

func main() {
	technicians := flag.Int("technicians", 0, "number of demo technician profiles to create")
	requests := flag.Int("requests", 0, "number of demo pending requests to create")
	clean := flag.Bool("clean", false, "delete existing request data before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Migrate: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	opts := seed.Options{
		NumTechnicians: *technicians,
		NumRequests:    *requests,
		ShouldClean:    *clean,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
