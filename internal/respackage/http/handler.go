package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/pkg/response"
	"github.com/opencampus/reservation-backend/internal/respackage"
	"github.com/opencampus/reservation-backend/internal/user"
)

type Handler struct {
	service     respackage.Service
	userService user.Service
}

func NewHandler(service respackage.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

func (h *Handler) isAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.Role == user.RoleAdmin
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	members := make([]respackage.Member, len(req.Members))
	for i, m := range req.Members {
		members[i] = respackage.Member{
			ResourceID:     m.ResourceID,
			QuantityNeeded: m.QuantityNeeded,
		}
	}

	pkg, err := h.service.Create(c.Request.Context(), respackage.CreateRequest{
		Name:      req.Name,
		Subject:   req.Subject,
		CreatedBy: userID,
		Members:   members,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPackageResponse(pkg))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	pkg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPackageResponse(pkg))
}

func (h *Handler) List(c *gin.Context) {
	var req ListPackagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	packages, total, err := h.service.List(c.Request.Context(), respackage.Filter{
		Subject:  req.Subject,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list packages"})
		return
	}

	items := make([]PackageResponse, len(packages))
	for i, p := range packages {
		items[i] = NewPackageResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if err := h.service.Delete(c.Request.Context(), id, userID, h.isAdmin(c, userID)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "package deleted"})
}

// Reserve books every member of the package for one shared window,
// all-or-nothing.
func (h *Handler) Reserve(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req ReservePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reservations, err := h.service.Reserve(c.Request.Context(), respackage.ReserveRequest{
		PackageID:   id,
		UserID:      userID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Purpose:     req.Purpose,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		var conflict *respackage.ConflictError
		if errors.As(err, &conflict) {
			response.Error(c, conflict.AppError())
			return
		}
		var failed *respackage.BookingFailedError
		if errors.As(err, &failed) {
			response.Error(c, failed.AppError())
			return
		}
		var orphan *respackage.OrphanError
		if errors.As(err, &orphan) {
			response.Error(c, orphan.AppError())
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservePackageResponse(reservations))
}
