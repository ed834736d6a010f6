package package_controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/config"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/package_models"
	"github.com/joy095/studio/models/review_models"
)

type PackageController struct {
	DB *pgxpool.Pool
}

func NewPackageController(db *pgxpool.Pool) *PackageController {
	return &PackageController{DB: db}
}

type PackageRequest struct {
	Name            string  `json:"name" binding:"required,min=2,max=100"`
	Description     string  `json:"description" binding:"max=2000"`
	Tier            string  `json:"tier" binding:"required,oneof=basic standard premium"`
	Price           float64 `json:"price" binding:"gte=0"`
	DurationMinutes int     `json:"durationMinutes" binding:"required,gt=0"`
	IsActive        *bool   `json:"isActive"`
}

func (r PackageRequest) toModel() *package_models.Package {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &package_models.Package{
		Name:            strings.TrimSpace(r.Name),
		Description:     strings.TrimSpace(r.Description),
		Tier:            r.Tier,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		IsActive:        active,
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func (pc *PackageController) packageError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, package_models.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
	case errors.Is(err, package_models.ErrPackageExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A package with this name already exists"})
	default:
		logger.ErrorLogger.Errorf("Failed to %s package: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " package"})
	}
}

// ListPackages returns active packages to everyone.
func (pc *PackageController) ListPackages(c *gin.Context) {
	packages, err := package_models.ListPackages(c.Request.Context(), pc.DB, true)
	if err != nil {
		pc.packageError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages, "count": len(packages)})
}

// AdminListPackages includes inactive packages.
func (pc *PackageController) AdminListPackages(c *gin.Context) {
	packages, err := package_models.ListPackages(c.Request.Context(), pc.DB, false)
	if err != nil {
		pc.packageError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages, "count": len(packages)})
}

func (pc *PackageController) GetPackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pkg, err := package_models.GetPackageByID(c.Request.Context(), pc.DB, id)
	if err != nil {
		pc.packageError(c, err, "load")
		return
	}
	if !pkg.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg, "paymentBand": config.PaymentBands[pkg.Tier]})
}

// PackageReviews lists approved reviews for a package with the average rating.
func (pc *PackageController) PackageReviews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviews, err := review_models.ListApprovedForPackage(c.Request.Context(), pc.DB, id)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list reviews for package %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":       reviews,
		"count":         len(reviews),
		"averageRating": review_models.AverageRating(reviews),
	})
}

func (pc *PackageController) CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	pkg, err := package_models.CreatePackage(c.Request.Context(), pc.DB, req.toModel())
	if err != nil {
		pc.packageError(c, err, "create")
		return
	}
	logger.InfoLogger.Infof("Package %s created", pkg.ID)
	c.JSON(http.StatusCreated, gin.H{"package": pkg})
}

func (pc *PackageController) UpdatePackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p := req.toModel()
	p.ID = id
	pkg, err := package_models.UpdatePackage(c.Request.Context(), pc.DB, p)
	if err != nil {
		pc.packageError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg})
}

// DeletePackage deactivates; historical bookings keep pointing at it.
func (pc *PackageController) DeletePackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := package_models.DeactivatePackage(c.Request.Context(), pc.DB, id); err != nil {
		pc.packageError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Package deactivated"})
}
