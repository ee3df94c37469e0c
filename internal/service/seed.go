package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/model"
)

// defaultPackages is the fixed catalog ensured at startup.
var defaultPackages = []model.Package{
	{PackageName: "Basic", Description: "Basic package with limited features.", MonthlyPrice: 50},
	{PackageName: "Standard", Description: "Standard package with additional features.", MonthlyPrice: 100},
	{PackageName: "Premium", Description: "Premium package with all features included.", MonthlyPrice: 150},
	{PackageName: "VIP", Description: "VIP package with exclusive benefits.", MonthlyPrice: 200},
}

// SeedPackages inserts any default package whose name is not already present.
// Existing rows, including edited prices and descriptions, are left
// untouched, so running it repeatedly is a no-op.
func SeedPackages(db *gorm.DB, log *zap.Logger) error {
	for _, pkg := range defaultPackages {
		var count int64
		if err := db.Model(&model.Package{}).
			Where("package_name = ?", pkg.PackageName).
			Count(&count).Error; err != nil {
			log.Error("Failed to check default package", zap.String("package_name", pkg.PackageName), zap.Error(err))
			return err
		}
		if count > 0 {
			continue
		}

		seed := pkg
		if err := db.Create(&seed).Error; err != nil {
			log.Error("Failed to seed package", zap.String("package_name", pkg.PackageName), zap.Error(err))
			return err
		}
		log.Info("Seeded default package",
			zap.String("package_name", seed.PackageName),
			zap.Int("monthly_price", seed.MonthlyPrice))
	}
	return nil
}
