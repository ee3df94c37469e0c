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

// PackageHandler serves the package catalog CRUD endpoints.
type PackageHandler struct {
	packages *service.PackageService
}

// NewPackageHandler creates a PackageHandler.
func NewPackageHandler(packages *service.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// ListPackages returns all packages.
func (h *PackageHandler) ListPackages(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	packages, err := h.packages.List(actingUserID(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Packages retrieved", zap.Int("count", len(packages)))
	return c.JSON(http.StatusOK, packages)
}

// GetPackage returns a single package by id.
func (h *PackageHandler) GetPackage(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}

	pkg, err := h.packages.Get(actingUserID(c), uint(id))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, pkg)
}

// CreatePackage inserts a new package.
func (h *PackageHandler) CreatePackage(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		PackageName  string `json:"package_name"`
		Description  string `json:"description"`
		MonthlyPrice int    `json:"monthly_price"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.PackageName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package_name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	pkg, err := h.packages.Create(actingUserID(c), req.PackageName, req.Description, req.MonthlyPrice)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Package created",
		zap.Uint("package_id", pkg.ID),
		zap.String("package_name", pkg.PackageName))
	return c.JSON(http.StatusOK, pkg)
}

// UpdatePackage changes a package's description and/or price. The name is
// immutable.
func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}

	var req struct {
		Description  *string `json:"description"`
		MonthlyPrice *int    `json:"monthly_price"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	pkg, err := h.packages.Update(actingUserID(c), uint(id), service.PackageUpdate{
		Description:  req.Description,
		MonthlyPrice: req.MonthlyPrice,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Package updated", zap.Uint("package_id", pkg.ID))
	return c.JSON(http.StatusOK, pkg)
}

// DeletePackage removes a package without subscribers.
func (h *PackageHandler) DeletePackage(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.packages.Delete(actingUserID(c), uint(id)); err != nil {
		return respondError(c, log, err)
	}

	log.Info("Package deleted", zap.Uint64("package_id", id))
	return c.JSON(http.StatusOK, echo.Map{"detail": "Package deleted successfully"})
}
