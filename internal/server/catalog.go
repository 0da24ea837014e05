package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
)

// @Summary      List Charge Categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /charge-categories [get]
func (s *Server) ListChargeCategories(c *gin.Context) {
	categories, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, categories)
}

// @Summary      Create Charge Category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateCategoryRequest true "Create Category Request"
// @Success      200  {object}  DataResponse
// @Router       /charge-categories [post]
func (s *Server) CreateChargeCategory(c *gin.Context) {
	var req catalogdomain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	category, err := s.catalogSvc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, category)
}

// @Summary      Update Charge Category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200  {object}  DataResponse
// @Router       /charge-categories/{id} [patch]
func (s *Server) UpdateChargeCategory(c *gin.Context) {
	var req catalogdomain.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	category, err := s.catalogSvc.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, category)
}

// @Summary      Deactivate Charge Category
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200  {object}  DataResponse
// @Router       /charge-categories/{id}/deactivate [post]
func (s *Server) DeactivateChargeCategory(c *gin.Context) {
	category, err := s.catalogSvc.DeactivateCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, category)
}

// @Summary      List Charges
// @Tags         catalog
// @Produce      json
// @Param        category_id   query  string  false  "Category ID"
// @Param        kind          query  string  false  "Charge kind"
// @Param        service_type  query  string  false  "Service type"
// @Param        active        query  bool    false  "Active flag"
// @Success      200  {object}  DataResponse
// @Router       /charges [get]
func (s *Server) ListCharges(c *gin.Context) {
	var query struct {
		CategoryID  string `form:"category_id"`
		Kind        string `form:"kind"`
		ServiceType string `form:"service_type"`
		Active      *bool  `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	opts := catalogdomain.ListChargesOptions{
		CategoryID:  strings.TrimSpace(query.CategoryID),
		ServiceType: strings.TrimSpace(query.ServiceType),
		Active:      query.Active,
	}
	if kind := catalogdomain.ChargeKind(strings.TrimSpace(query.Kind)); kind != "" {
		if !kind.Valid() {
			AbortWithError(c, catalogdomain.ErrInvalidChargeKind)
			return
		}
		opts.Kind = &kind
	}

	charges, err := s.catalogSvc.ListCharges(c.Request.Context(), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, charges)
}

// @Summary      Create Charge
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateChargeRequest true "Create Charge Request"
// @Success      200  {object}  DataResponse
// @Router       /charges [post]
func (s *Server) CreateCharge(c *gin.Context) {
	var req catalogdomain.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	charge, err := s.catalogSvc.CreateCharge(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, charge)
}

// @Summary      Get Charge
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Charge ID"
// @Success      200  {object}  DataResponse
// @Router       /charges/{id} [get]
func (s *Server) GetCharge(c *gin.Context) {
	charge, err := s.catalogSvc.GetCharge(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, charge)
}

// @Summary      Update Charge
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Charge ID"
// @Success      200  {object}  DataResponse
// @Router       /charges/{id} [patch]
func (s *Server) UpdateCharge(c *gin.Context) {
	var req catalogdomain.UpdateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	charge, err := s.catalogSvc.UpdateCharge(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, charge)
}

// @Summary      Deactivate Charge
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Charge ID"
// @Success      200  {object}  DataResponse
// @Router       /charges/{id}/deactivate [post]
func (s *Server) DeactivateCharge(c *gin.Context) {
	charge, err := s.catalogSvc.DeactivateCharge(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, charge)
}
