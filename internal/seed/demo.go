package seed

import (
	"fmt"
	"log"
	"time"

	"airtecs/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the demo seeder.
type Options struct {
	NumTechnicians int
	NumRequests    int
	ShouldClean    bool
}

var specialties = []string{
	"Refrigeration", "Laundry appliances", "Air conditioning",
	"Kitchen appliances", "General appliance repair",
}

var applianceBrands = []string{
	"Mabe", "LG", "Samsung", "Whirlpool", "Bosch", "GE", "Teka",
}

// Run seeds the catalog plus demo technician profiles and pending service
// requests. Intended for development databases only.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	if err := Catalog(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	var catalog []models.ServiceType
	if err := db.Find(&catalog).Error; err != nil {
		return err
	}

	if err := createProfiles(db, opts.NumTechnicians); err != nil {
		return err
	}
	if err := createRequests(db, catalog, opts.NumRequests); err != nil {
		return err
	}

	log.Printf("Seeded %d technician profiles and %d pending requests", opts.NumTechnicians, opts.NumRequests)
	return nil
}

func clean(db *gorm.DB) error {
	tables := []any{
		&models.ProgressEntry{}, &models.Payment{}, &models.Notification{},
		&models.ServiceRequest{}, &models.TechnicianProfile{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createProfiles(db *gorm.DB, count int) error {
	for i := 0; i < count; i++ {
		profile := models.TechnicianProfile{
			// Demo technician IDs start above any real fixture IDs.
			TechnicianID: uint(1000 + i),
			FullName:     gofakeit.Name(),
			Phone:        gofakeit.Numerify("55########"),
			Specialty:    specialties[gofakeit.Number(0, len(specialties)-1)],
		}
		if err := db.Create(&profile).Error; err != nil {
			log.Printf("Failed to create profile for technician %d: %v", profile.TechnicianID, err)
		}
	}
	return nil
}

func createRequests(db *gorm.DB, catalog []models.ServiceType, count int) error {
	if len(catalog) == 0 {
		return fmt.Errorf("catalog is empty, nothing to reference")
	}

	now := time.Now()
	for i := 0; i < count; i++ {
		serviceType := catalog[gofakeit.Number(0, len(catalog)-1)]
		scheduled := now.AddDate(0, 0, gofakeit.Number(1, 14))

		req := models.ServiceRequest{
			// One request per demo customer keeps the single-active rule intact.
			CustomerID:     uint(2000 + i),
			ServiceTypeID:  serviceType.ID,
			ServiceName:    serviceType.Name,
			Status:         models.RequestStatusPending,
			Amount:         serviceType.Amount,
			ApplianceBrand: applianceBrands[gofakeit.Number(0, len(applianceBrands)-1)],
			ApplianceType:  serviceType.Name,
			Description:    gofakeit.Sentence(8),
			Address:        gofakeit.Street() + ", " + gofakeit.City(),
			ScheduledDate:  scheduled.Format("2006-01-02"),
			ScheduledTime:  fmt.Sprintf("%02d:00", gofakeit.Number(9, 18)),
			ExpiresAt:      now.Add(12 * time.Hour),
		}
		if err := db.Create(&req).Error; err != nil {
			log.Printf("Failed to create demo request for customer %d: %v", req.CustomerID, err)
		}
	}
	return nil
}
