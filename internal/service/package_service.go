package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/audit"
	"comm-service/internal/model"
)

// PackageService owns CRUD over the package catalog. Every method, reads
// included, appends one audit row attributed to the acting user.
type PackageService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	log      *zap.Logger
}

// NewPackageService creates a PackageService.
func NewPackageService(db *gorm.DB, recorder *audit.Recorder, log *zap.Logger) *PackageService {
	return &PackageService{db: db, recorder: recorder, log: log}
}

// PackageUpdate carries the mutable package fields. Nil means "leave
// unchanged"; the package name is immutable.
type PackageUpdate struct {
	Description  *string
	MonthlyPrice *int
}

// List returns all packages.
func (s *PackageService) List(userID uint) ([]model.Package, error) {
	var packages []model.Package
	if err := s.db.Find(&packages).Error; err != nil {
		s.log.Error("Failed to list packages", zap.Error(err))
		return nil, err
	}

	if _, err := s.recorder.Record(s.db, userID, audit.ActionPackagesListed); err != nil {
		return nil, err
	}

	s.log.Debug("Fetched packages", zap.Int("count", len(packages)))
	return packages, nil
}

// Get returns a single package by id.
func (s *PackageService) Get(userID, id uint) (*model.Package, error) {
	var pkg model.Package
	if err := s.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("package %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch package", zap.Uint("package_id", id), zap.Error(err))
		return nil, err
	}

	if _, err := s.recorder.Record(s.db, userID, audit.ActionPackageFetched); err != nil {
		return nil, err
	}

	return &pkg, nil
}

// Create inserts a new package with a zero subscriber count. The package name
// is unique across the catalog.
func (s *PackageService) Create(userID uint, name, description string, monthlyPrice int) (*model.Package, error) {
	var count int64
	if err := s.db.Model(&model.Package{}).Where("package_name = ?", name).Count(&count).Error; err != nil {
		s.log.Error("Failed to check package name", zap.String("package_name", name), zap.Error(err))
		return nil, err
	}
	if count > 0 {
		s.log.Warn("Package with this name already exists", zap.String("package_name", name))
		return nil, fmt.Errorf("package name %q: %w", name, ErrConflict)
	}

	pkg := model.Package{
		PackageName:     name,
		Description:     description,
		MonthlyPrice:    monthlyPrice,
		SubscriberCount: 0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pkg).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, userID, audit.ActionPackageCreated)
		return err
	})
	if err != nil {
		s.log.Error("Failed to create package", zap.String("package_name", name), zap.Error(err))
		return nil, err
	}

	s.log.Info("Package created",
		zap.Uint("package_id", pkg.ID),
		zap.String("package_name", pkg.PackageName))
	return &pkg, nil
}

// Update changes the description and/or price of an existing package.
func (s *PackageService) Update(userID, id uint, update PackageUpdate) (*model.Package, error) {
	var pkg model.Package
	if err := s.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("package %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch package for update", zap.Uint("package_id", id), zap.Error(err))
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Description != nil {
		changes["description"] = *update.Description
		pkg.Description = *update.Description
	}
	if update.MonthlyPrice != nil {
		changes["monthly_price"] = *update.MonthlyPrice
		pkg.MonthlyPrice = *update.MonthlyPrice
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.Model(&pkg).Updates(changes).Error; err != nil {
				return err
			}
		}
		_, err := s.recorder.Record(tx, userID, audit.ActionPackageUpdated)
		return err
	})
	if err != nil {
		s.log.Error("Failed to update package", zap.Uint("package_id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("Package updated", zap.Uint("package_id", pkg.ID))
	return &pkg, nil
}

// Delete removes a package. A package that still has linked customers is
// rejected with a conflict rather than orphaning them.
func (s *PackageService) Delete(userID, id uint) error {
	var pkg model.Package
	if err := s.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("package %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch package for deletion", zap.Uint("package_id", id), zap.Error(err))
		return err
	}

	if pkg.SubscriberCount > 0 {
		s.log.Warn("Refusing to delete package with subscribers",
			zap.Uint("package_id", id),
			zap.Int("subscriber_count", pkg.SubscriberCount))
		return fmt.Errorf("package %d has %d subscribers: %w", id, pkg.SubscriberCount, ErrConflict)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Package{}, id).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, userID, audit.ActionPackageDeleted)
		return err
	})
	if err != nil {
		s.log.Error("Failed to delete package", zap.Uint("package_id", id), zap.Error(err))
		return err
	}

	s.log.Info("Package deleted", zap.Uint("package_id", id))
	return nil
}
