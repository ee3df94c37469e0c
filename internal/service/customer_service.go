package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/audit"
	"comm-service/internal/model"
)

// CustomerService owns CRUD over the customer directory. The linked package's
// subscriber_count is adjusted in the same transaction as the customer write,
// so the counter can never drift from the rows it summarizes.
type CustomerService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	log      *zap.Logger
}

// NewCustomerService creates a CustomerService.
func NewCustomerService(db *gorm.DB, recorder *audit.Recorder, log *zap.Logger) *CustomerService {
	return &CustomerService{db: db, recorder: recorder, log: log}
}

// CustomerCreate carries the fields for a new customer.
type CustomerCreate struct {
	FirstName    string
	LastName     string
	PhoneNumber  string
	EmailAddress string
	Address      string
	PackageID    uint
}

// CustomerUpdate carries optional replacement fields. Nil means "leave
// unchanged"; an explicit empty string is a real value.
type CustomerUpdate struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	EmailAddress *string
	Address      *string
	PackageID    *uint
}

// List returns all customers.
func (s *CustomerService) List(userID uint) ([]model.Customer, error) {
	var customers []model.Customer
	if err := s.db.Find(&customers).Error; err != nil {
		s.log.Error("Failed to list customers", zap.Error(err))
		return nil, err
	}

	if _, err := s.recorder.Record(s.db, userID, audit.ActionCustomersListed); err != nil {
		return nil, err
	}

	s.log.Debug("Fetched customers", zap.Int("count", len(customers)))
	return customers, nil
}

// Get returns a single customer by id.
func (s *CustomerService) Get(userID, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch customer", zap.Uint("customer_id", id), zap.Error(err))
		return nil, err
	}

	if _, err := s.recorder.Record(s.db, userID, audit.ActionCustomerFetched); err != nil {
		return nil, err
	}

	return &customer, nil
}

// Create inserts a new customer linked to an existing package and increments
// that package's subscriber count.
func (s *CustomerService) Create(userID uint, req CustomerCreate) (*model.Customer, error) {
	var pkg model.Package
	if err := s.db.First(&pkg, req.PackageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("package %d: %w", req.PackageID, ErrNotFound)
		}
		s.log.Error("Failed to fetch package", zap.Uint("package_id", req.PackageID), zap.Error(err))
		return nil, err
	}

	packageID := req.PackageID
	customer := model.Customer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		EmailAddress: req.EmailAddress,
		Address:      req.Address,
		PackageID:    &packageID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		// The increment doubles as the existence check under the
		// transaction; the earlier lookup may have raced a delete.
		rows, err := adjustSubscriberCount(tx, packageID, 1)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("package %d: %w", packageID, ErrNotFound)
		}
		_, err = s.recorder.Record(tx, userID, audit.ActionCustomerCreated)
		return err
	})
	if err != nil {
		s.log.Error("Failed to create customer", zap.Error(err))
		return nil, err
	}

	s.log.Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.Uint("package_id", packageID))
	return &customer, nil
}

// Update applies the provided fields to an existing customer. When the
// package changes, the subscriber count moves from the old package (if its
// row still exists) to the new one atomically with the customer write.
func (s *CustomerService) Update(userID, id uint, req CustomerUpdate) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch customer for update", zap.Uint("customer_id", id), zap.Error(err))
		return nil, err
	}

	oldPackageID := customer.PackageID
	repackage := req.PackageID != nil && (oldPackageID == nil || *req.PackageID != *oldPackageID)

	if repackage {
		var newPkg model.Package
		if err := s.db.First(&newPkg, *req.PackageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("package %d: %w", *req.PackageID, ErrNotFound)
			}
			s.log.Error("Failed to fetch new package", zap.Uint("package_id", *req.PackageID), zap.Error(err))
			return nil, err
		}
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		customer.PhoneNumber = *req.PhoneNumber
	}
	if req.EmailAddress != nil {
		customer.EmailAddress = *req.EmailAddress
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if repackage {
		customer.PackageID = req.PackageID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if repackage {
			// An old package deleted out-of-band matches zero rows here,
			// which is fine; only live rows carry the counter.
			if oldPackageID != nil {
				if _, err := adjustSubscriberCount(tx, *oldPackageID, -1); err != nil {
					return err
				}
			}
			// The new package must still exist at commit time.
			rows, err := adjustSubscriberCount(tx, *req.PackageID, 1)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("package %d: %w", *req.PackageID, ErrNotFound)
			}
		}
		if err := tx.Save(&customer).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, userID, audit.ActionCustomerUpdated)
		return err
	})
	if err != nil {
		s.log.Error("Failed to update customer", zap.Uint("customer_id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("Customer updated", zap.Uint("customer_id", customer.ID))
	return &customer, nil
}

// Delete removes a customer and decrements the linked package's subscriber
// count when the package row still exists.
func (s *CustomerService) Delete(userID, id uint) error {
	var customer model.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch customer for deletion", zap.Uint("customer_id", id), zap.Error(err))
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if customer.PackageID != nil {
			if _, err := adjustSubscriberCount(tx, *customer.PackageID, -1); err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.Customer{}, id).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, userID, audit.ActionCustomerDeleted)
		return err
	})
	if err != nil {
		s.log.Error("Failed to delete customer", zap.Uint("customer_id", id), zap.Error(err))
		return err
	}

	s.log.Info("Customer deleted", zap.Uint("customer_id", id))
	return nil
}

// adjustSubscriberCount moves the cached aggregate by delta as a single
// storage-side increment, so concurrent customer writes against the same
// package cannot race a read-modify-write. It reports how many package rows
// the increment touched; zero means the package is gone.
func adjustSubscriberCount(tx *gorm.DB, packageID uint, delta int) (int64, error) {
	res := tx.Model(&model.Package{}).
		Where("id = ?", packageID).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count + ?", delta))
	return res.RowsAffected, res.Error
}
