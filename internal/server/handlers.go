// Package server provides the HTTP API for the item service.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vyrodovalexey/itemsvc/internal/item"
	"github.com/vyrodovalexey/itemsvc/internal/observability"
)

// FieldError describes a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ItemHandler handles item-related HTTP requests.
type ItemHandler struct {
	repo   item.Repository
	logger observability.Logger
}

// NewItemHandler creates an item handler.
func NewItemHandler(repo item.Repository, logger observability.Logger) *ItemHandler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &ItemHandler{repo: repo, logger: logger}
}

// CreateItem handles POST /items/.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.logger.WithContext(ctx)

	var in item.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Warn("item create rejected", observability.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": bindingFieldErrors(err)})
		return
	}

	log.Info("attempting to create a new item",
		observability.String("item_name", in.Name),
	)

	created, err := h.repo.Create(ctx, in)
	if err != nil {
		log.Error("failed to create item",
			observability.String("item_name", in.Name),
			observability.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create item"})
		return
	}

	log.Info("successfully created new item",
		observability.Int64("item_id", created.ID),
		observability.String("item_name", created.Name),
	)
	c.JSON(http.StatusOK, created)
}

// GetItem handles GET /items/:item_id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.logger.WithContext(ctx)

	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		log.Warn("invalid item id", observability.String("item_id", c.Param("item_id")))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []FieldError{
			{Field: "item_id", Message: "value is not a valid integer"},
		}})
		return
	}

	log.Info("attempting to retrieve item", observability.Int64("item_id", id))

	found, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			log.Warn("item not found", observability.Int64("item_id", id))
			c.JSON(http.StatusNotFound, gin.H{"detail": "item not found"})
			return
		}
		log.Error("failed to retrieve item",
			observability.Int64("item_id", id),
			observability.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to retrieve item"})
		return
	}

	log.Info("successfully retrieved item",
		observability.Int64("item_id", found.ID),
		observability.String("item_name", found.Name),
	)
	c.JSON(http.StatusOK, found)
}

// bindingFieldErrors maps a binding error to field-level violations.
func bindingFieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: fieldErrorMessage(fe),
			})
		}
		return out
	}

	return []FieldError{{Field: "body", Message: "invalid request body"}}
}

// fieldErrorMessage renders a human-readable message for a violation.
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	default:
		return fmt.Sprintf("failed on %q validation", fe.Tag())
	}
}
