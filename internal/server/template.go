package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
)

// @Summary      List Templates
// @Tags         templates
// @Produce      json
// @Param        service_type  query  string  false  "Service type"
// @Param        active        query  bool    false  "Active flag"
// @Success      200  {object}  DataResponse
// @Router       /templates [get]
func (s *Server) ListTemplates(c *gin.Context) {
	var query struct {
		ServiceType string `form:"service_type"`
		Active      *bool  `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	templates, err := s.templateSvc.List(c.Request.Context(), templatedomain.ListOptions{
		ServiceType: strings.TrimSpace(query.ServiceType),
		Active:      query.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, templates)
}

// @Summary      Create Template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request body templatedomain.CreateTemplateRequest true "Create Template Request"
// @Success      200  {object}  DataResponse
// @Router       /templates [post]
func (s *Server) CreateTemplate(c *gin.Context) {
	var req templatedomain.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	template, err := s.templateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, template)
}

// @Summary      Get Template
// @Tags         templates
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200  {object}  DataResponse
// @Router       /templates/{id} [get]
func (s *Server) GetTemplate(c *gin.Context) {
	template, err := s.templateSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, template)
}

// @Summary      Update Template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200  {object}  DataResponse
// @Router       /templates/{id} [patch]
func (s *Server) UpdateTemplate(c *gin.Context) {
	var req templatedomain.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	template, err := s.templateSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, template)
}

// @Summary      Add Template Item
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID"
// @Param        request body templatedomain.AddItemRequest true "Add Item Request"
// @Success      200  {object}  DataResponse
// @Router       /templates/{id}/items [post]
func (s *Server) AddTemplateItem(c *gin.Context) {
	var req templatedomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	template, err := s.templateSvc.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, template)
}

// @Summary      Update Template Item
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id      path string true "Template ID"
// @Param        itemId  path string true "Item ID"
// @Success      200  {object}  DataResponse
// @Router       /templates/{id}/items/{itemId} [patch]
func (s *Server) UpdateTemplateItem(c *gin.Context) {
	var req templatedomain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	template, err := s.templateSvc.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, template)
}

// @Summary      Remove Template Item
// @Tags         templates
// @Produce      json
// @Param        id      path string true "Template ID"
// @Param        itemId  path string true "Item ID"
// @Success      200  {object}  DataResponse
// @Router       /templates/{id}/items/{itemId} [delete]
func (s *Server) RemoveTemplateItem(c *gin.Context) {
	template, err := s.templateSvc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, template)
}
