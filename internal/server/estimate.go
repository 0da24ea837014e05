package server

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	estimatedomain "github.com/movecrewlabs/movecrew/internal/estimate/domain"
	"github.com/movecrewlabs/movecrew/pkg/db/pagination"
)

type createEstimateRequest struct {
	TemplateID  string                      `json:"template_id"`
	CustomerID  string                      `json:"customer_id"`
	ServiceType string                      `json:"service_type"`
	Inputs      estimatedomain.ScalarInputs `json:"inputs"`
}

// @Summary      Create Estimate
// @Description  Create an estimate from a template, or a blank one when no
// @Description  template id is given.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        request body createEstimateRequest true "Create Estimate Request"
// @Success      200  {object}  DataResponse
// @Router       /estimates [post]
func (s *Server) CreateEstimate(c *gin.Context) {
	var req createEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var (
		est *estimatedomain.Estimate
		err error
	)
	if strings.TrimSpace(req.TemplateID) != "" {
		est, err = s.estimateSvc.CreateFromTemplate(c.Request.Context(), estimatedomain.CreateFromTemplateRequest{
			TemplateID: req.TemplateID,
			CustomerID: req.CustomerID,
			Inputs:     req.Inputs,
		})
	} else {
		est, err = s.estimateSvc.CreateBlank(c.Request.Context(), estimatedomain.CreateBlankRequest{
			CustomerID:  req.CustomerID,
			ServiceType: req.ServiceType,
			Inputs:      req.Inputs,
		})
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      List Estimates
// @Tags         estimates
// @Produce      json
// @Param        customer_id  query  string  false  "Customer ID"
// @Param        status       query  string  false  "Status"
// @Param        page_token   query  string  false  "Page Token"
// @Param        page_size    query  int     false  "Page Size"
// @Success      200  {object}  ListResponse
// @Router       /estimates [get]
func (s *Server) ListEstimates(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customer_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := estimatedomain.ListRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
	}
	if st := estimatedomain.EstimateStatus(strings.TrimSpace(query.Status)); st != "" {
		req.Status = &st
	}

	resp, err := s.estimateSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Estimates, &resp.PageInfo)
}

// @Summary      Get Estimate
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id} [get]
func (s *Server) GetEstimate(c *gin.Context) {
	est, err := s.estimateSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      Update Estimate Inputs
// @Description  Patch pricing inputs (weight, hours, discount, tax override)
// @Description  and reprice the estimate.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id} [patch]
func (s *Server) UpdateEstimateInputs(c *gin.Context) {
	var req estimatedomain.UpdateInputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	est, err := s.estimateSvc.UpdateInputs(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      Calculate Estimate
// @Description  Reprice the estimate from its current line items.
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/calculate [post]
func (s *Server) CalculateEstimate(c *gin.Context) {
	est, err := s.estimateSvc.Calculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      Add Estimate Line Item
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Param        request body estimatedomain.AddLineItemRequest true "Add Line Item Request"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/items [post]
func (s *Server) AddEstimateLineItem(c *gin.Context) {
	var req estimatedomain.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	est, err := s.estimateSvc.AddLineItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      Update Estimate Line Item
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id      path string true "Estimate ID"
// @Param        itemId  path string true "Item ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/items/{itemId} [patch]
func (s *Server) UpdateEstimateLineItem(c *gin.Context) {
	var req estimatedomain.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	est, err := s.estimateSvc.UpdateLineItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      Remove Estimate Line Item
// @Tags         estimates
// @Produce      json
// @Param        id      path string true "Estimate ID"
// @Param        itemId  path string true "Item ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/items/{itemId} [delete]
func (s *Server) RemoveEstimateLineItem(c *gin.Context) {
	est, err := s.estimateSvc.RemoveLineItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}

// @Summary      Mark Estimate Sent
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/send [post]
func (s *Server) MarkEstimateSent(c *gin.Context) {
	s.transitionEstimate(c, s.estimateSvc.MarkSent)
}

// @Summary      Approve Estimate
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/approve [post]
func (s *Server) ApproveEstimate(c *gin.Context) {
	s.transitionEstimate(c, s.estimateSvc.CustomerApprove)
}

// @Summary      Reject Estimate
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/reject [post]
func (s *Server) RejectEstimate(c *gin.Context) {
	s.transitionEstimate(c, s.estimateSvc.CustomerReject)
}

// @Summary      Convert Estimate To Work Order
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/convert [post]
func (s *Server) ConvertEstimateToWorkOrder(c *gin.Context) {
	s.transitionEstimate(c, s.estimateSvc.ConvertToWorkOrder)
}

// @Summary      Mark Estimate Invoiced
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID"
// @Success      200  {object}  DataResponse
// @Router       /estimates/{id}/invoice [post]
func (s *Server) MarkEstimateInvoiced(c *gin.Context) {
	s.transitionEstimate(c, s.estimateSvc.MarkInvoiced)
}

func (s *Server) transitionEstimate(c *gin.Context, fn func(ctx context.Context, id string) (*estimatedomain.Estimate, error)) {
	est, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, est)
}
