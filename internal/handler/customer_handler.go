package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"comm-service/internal/service"
	"comm-service/pkg/logger"
	"comm-service/prometheus"
)

// CustomerHandler serves the customer directory CRUD endpoints.
type CustomerHandler struct {
	customers *service.CustomerService
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// ListCustomers returns all customers.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	customers, err := h.customers.List(actingUserID(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Customers retrieved", zap.Int("count", len(customers)))
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer returns a single customer by id.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	customer, err := h.customers.Get(actingUserID(c), uint(id))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer inserts a new customer linked to a package.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		PhoneNumber  string `json:"phone_number"`
		EmailAddress string `json:"email_address"`
		Address      string `json:"address"`
		PackageID    uint   `json:"package_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.FirstName == "" || req.LastName == "" || req.EmailAddress == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name and email_address are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	customer, err := h.customers.Create(actingUserID(c), service.CustomerCreate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		EmailAddress: req.EmailAddress,
		Address:      req.Address,
		PackageID:    req.PackageID,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Customer created", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer applies a partial update; omitted fields are left unchanged.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	var req struct {
		FirstName    *string `json:"first_name"`
		LastName     *string `json:"last_name"`
		PhoneNumber  *string `json:"phone_number"`
		EmailAddress *string `json:"email_address"`
		Address      *string `json:"address"`
		PackageID    *uint   `json:"package_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	customer, err := h.customers.Update(actingUserID(c), uint(id), service.CustomerUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		EmailAddress: req.EmailAddress,
		Address:      req.Address,
		PackageID:    req.PackageID,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Customer updated", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.customers.Delete(actingUserID(c), uint(id)); err != nil {
		return respondError(c, log, err)
	}

	log.Info("Customer deleted", zap.Uint64("customer_id", id))
	return c.JSON(http.StatusOK, echo.Map{"detail": "Customer deleted successfully"})
}
