package handler

import (
	"errors"
	"net/http"

	"anoa.com/assignmenthub/internal/modules/submission/dto"
	submission "anoa.com/assignmenthub/internal/modules/submission/service"
	"anoa.com/assignmenthub/pkg/response"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	service       submission.Service
	maxUploadSize int64
}

// NewSubmissionHandler rejects uploads above maxUploadSize bytes; zero means
// no limit beyond the router's own.
func NewSubmissionHandler(service submission.Service, maxUploadSize int64) *SubmissionHandler {
	return &SubmissionHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
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

	if h.maxUploadSize > 0 {
		// A little slack for the multipart envelope around the file.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+1<<20)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer file.Close()

	sub, err := h.service.Submit(c.Request.Context(), caller, uri.AssignmentID, dto.UploadedFile{
		Reader:   file,
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *SubmissionHandler) ListForAssignment(c *gin.Context) {
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

	subs, err := h.service.ListForAssignment(c.Request.Context(), caller, uri.AssignmentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (h *SubmissionHandler) GetMine(c *gin.Context) {
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

	sub, err := h.service.GetMine(c.Request.Context(), caller, uri.AssignmentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *SubmissionHandler) Grade(c *gin.Context) {
	var uri dto.SubmissionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	caller, err := response.CurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	graded, err := h.service.Grade(c.Request.Context(), caller, uri.SubmissionID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, graded)
}
