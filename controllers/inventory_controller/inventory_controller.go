package inventory_controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/inventory_models"
	"github.com/joy095/studio/pricing"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/validation"
)

type InventoryController struct {
	DB *pgxpool.Pool
}

func NewInventoryController(db *pgxpool.Pool) *InventoryController {
	return &InventoryController{DB: db}
}

type ItemRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Category    string  `json:"category" binding:"required,max=50"`
	Description string  `json:"description" binding:"max=1000"`
	DailyRate   float64 `json:"dailyRate" binding:"gt=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	IsActive    *bool   `json:"isActive"`
}

func (r ItemRequest) toModel() *inventory_models.Item {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &inventory_models.Item{
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.ToLower(strings.TrimSpace(r.Category)),
		Description: strings.TrimSpace(r.Description),
		DailyRate:   r.DailyRate,
		Quantity:    r.Quantity,
		IsActive:    active,
	}
}

type RentalLine struct {
	ItemID    uuid.UUID `json:"itemId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	StartDate string    `json:"startDate" binding:"required"`
	EndDate   string    `json:"endDate" binding:"required"`
}

type RentalRequest struct {
	Items []RentalLine `json:"items" binding:"required,min=1,dive"`
}

// BuildCart turns request lines into a cart, checking each date range against the rental window.
// Errors are keyed by line index.
func BuildCart(lines []RentalLine, now time.Time) (*pricing.Cart, map[string]string) {
	cart := pricing.NewCart()
	errs := map[string]string{}
	today := validation.StartOfDay(now)
	latest := validation.RentalHorizon(now)

	for i, line := range lines {
		key := fmt.Sprintf("items[%d]", i)
		start, err := utils.ParseDate(line.StartDate)
		if err != nil {
			errs[key] = "startDate must be YYYY-MM-DD"
			continue
		}
		end, err := utils.ParseDate(line.EndDate)
		if err != nil {
			errs[key] = "endDate must be YYYY-MM-DD"
			continue
		}
		switch {
		case start.Before(today):
			errs[key] = "Rental cannot start in the past"
			continue
		case end.After(latest):
			errs[key] = fmt.Sprintf("Rentals must end by %s", latest.Format(utils.DateLayout))
			continue
		}

		err = cart.Add(pricing.CartItem{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			StartDate: start,
			EndDate:   end,
		})
		switch {
		case errors.Is(err, pricing.ErrInvalidDateRange):
			errs[key] = "End date must be on or after the start date"
		case errors.Is(err, pricing.ErrDateMismatch):
			errs[key] = "The same item must use one date range per rental"
		case err != nil:
			errs[key] = err.Error()
		}
	}
	return cart, errs
}

func (ic *InventoryController) inventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory_models.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
	case errors.Is(err, inventory_models.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental not found"})
	case errors.Is(err, inventory_models.ErrInsufficientStock), errors.Is(err, inventory_models.ErrItemUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, inventory_models.ErrRentalNotCancelable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Inventory request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Inventory request failed"})
	}
}

// ListItems is the public catalogue, optionally by ?category.
func (ic *InventoryController) ListItems(c *gin.Context) {
	items, err := inventory_models.ListItems(c.Request.Context(), ic.DB, true, strings.ToLower(c.Query("category")))
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem shows one rentable item.
func (ic *InventoryController) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}
	item, err := inventory_models.GetItemByID(c.Request.Context(), ic.DB, id)
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	if !item.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (ic *InventoryController) AdminListItems(c *gin.Context) {
	items, err := inventory_models.ListItems(c.Request.Context(), ic.DB, false, strings.ToLower(c.Query("category")))
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	item, err := inventory_models.CreateItem(c.Request.Context(), ic.DB, req.toModel())
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (ic *InventoryController) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	it := req.toModel()
	it.ID = id
	item, err := inventory_models.UpdateItem(c.Request.Context(), ic.DB, it)
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (ic *InventoryController) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}
	if err := inventory_models.DeactivateItem(c.Request.Context(), ic.DB, id); err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deactivated"})
}

// CreateRental books equipment for the caller. Prices come from the item rows, not the request.
func (ic *InventoryController) CreateRental(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req RentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must list itemId, quantity, startDate and endDate"})
		return
	}
	cart, details := BuildCart(req.Items, time.Now().UTC())
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}

	ctx := c.Request.Context()
	var rental *inventory_models.Rental
	err = db.WithTx(ctx, ic.DB, func(tx pgx.Tx) error {
		var err error
		rental, err = inventory_models.CreateRental(ctx, tx, userID, cart)
		return err
	})
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Equipment booked", "rental": rental})
}

func (ic *InventoryController) ListMyRentals(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	rentals, err := inventory_models.ListRentalsByUser(c.Request.Context(), ic.DB, userID)
	if err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rentals": rentals})
}

func (ic *InventoryController) ownedRental(c *gin.Context) (*inventory_models.Rental, bool) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rental ID"})
		return nil, false
	}
	rental, err := inventory_models.GetUserRental(c.Request.Context(), ic.DB, id, userID)
	if err != nil {
		ic.inventoryError(c, err)
		return nil, false
	}
	return rental, true
}

func (ic *InventoryController) GetMyRental(c *gin.Context) {
	rental, ok := ic.ownedRental(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"rental": rental})
}

func (ic *InventoryController) CancelMyRental(c *gin.Context) {
	rental, ok := ic.ownedRental(c)
	if !ok {
		return
	}
	if err := inventory_models.CancelRental(c.Request.Context(), ic.DB, rental); err != nil {
		ic.inventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rental cancelled", "rental": rental})
}
