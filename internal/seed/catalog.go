// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"airtecs/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInServiceTypes defines the permanent service catalog. Amounts are in
// MXN and get frozen onto each request at creation time.
var BuiltInServiceTypes = []models.ServiceType{
	{Name: "Refrigerator repair", Description: "Cooling faults, compressor and thermostat work", Amount: 850},
	{Name: "Washing machine repair", Description: "Drum, pump and electronic board faults", Amount: 700},
	{Name: "Air conditioning service", Description: "Mini-split maintenance and gas recharge", Amount: 950},
	{Name: "Stove and oven repair", Description: "Burners, ignition and temperature control", Amount: 600},
	{Name: "Dryer repair", Description: "Heating element and belt replacement", Amount: 650},
}

// Catalog upserts the built-in service types. Safe to run on every startup:
// existing entries are updated in place, keyed by name.
func Catalog(db *gorm.DB) error {
	for _, item := range BuiltInServiceTypes {
		entry := models.ServiceType{
			Name:        item.Name,
			Description: item.Description,
			Amount:      item.Amount,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "amount", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
	}
	return nil
}
