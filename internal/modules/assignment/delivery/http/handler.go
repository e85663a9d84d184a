package handler

import (
	"net/http"

	"anoa.com/assignmenthub/internal/modules/assignment/dto"
	assignment "anoa.com/assignmenthub/internal/modules/assignment/service"
	"anoa.com/assignmenthub/pkg/response"
	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	service assignment.Service
}

func NewAssignmentHandler(service assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreateAssignment(c.Request.Context(), caller, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignments, err := h.service.ListAssignments(c.Request.Context(), caller)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) SearchAssignments(c *gin.Context) {
	var query dto.SearchAssignmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignments, err := h.service.SearchAssignments(c.Request.Context(), caller, query.Query, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	var uri dto.AssignmentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	found, err := h.service.GetAssignment(c.Request.Context(), caller, uri.AssignmentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}
