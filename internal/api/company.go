package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/internal/models"
	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CreateCompanyRequest is the body of POST /api/companies
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCompanyResponse carries the admin key, which is never shown again
type CreateCompanyResponse struct {
	Company *models.Company `json:"company"`
	APIKey  string          `json:"apiKey"`
}

// TokenRequest is the body of POST /api/auth/token
type TokenRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
	APIKey    string `json:"apiKey" binding:"required"`
}

// TokenResponse is a signed company admin token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CompanyHandler handles tenant setup, admin tokens and FAQ uploads
type CompanyHandler struct {
	service     *service.CompanyService
	logger      *logger.Logger
	maxBodySize int64
}

// NewCompanyHandler creates a new company handler. maxBodySize caps FAQ uploads; 0 means 1MB.
func NewCompanyHandler(service *service.CompanyService, logger *logger.Logger, maxBodySize int64) *CompanyHandler {
	if maxBodySize <= 0 {
		maxBodySize = 1 << 20
	}
	return &CompanyHandler{
		service:     service,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// Create registers a company
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromGin(c).Warn("Error binding JSON for company", "error", err.Error())
		badRequest(c, "Invalid request format", err)
		return
	}

	company, apiKey, err := h.service.CreateCompany(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateCompanyResponse{Company: company, APIKey: apiKey})
}

// Token exchanges an admin key for a bearer token
func (h *CompanyHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	token, expiresAt, err := h.service.IssueToken(c.Request.Context(), req.CompanyID, req.APIKey)
	if err != nil {
		fail(c, err)
		return
	}

	logger.FromGin(c).WithCompanyID(req.CompanyID).Info("Admin token issued")
	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Get returns the company named in the path
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.service.GetCompany(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// AddFAQs uploads FAQ rows as JSON or YAML, picked by Content-Type
func (h *CompanyHandler) AddFAQs(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize))
	if err != nil {
		badRequest(c, "Could not read request body", err)
		return
	}

	faqs, err := faq.ParseEntries(body, uploadFormat(c.ContentType()))
	if err != nil {
		fail(c, err)
		return
	}

	rows, err := h.service.AddFAQs(c.Request.Context(), c.Param("companyId"), faqs)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"count": len(rows), "faqs": rows})
}

// ListFAQs returns the company's FAQ rows
func (h *CompanyHandler) ListFAQs(c *gin.Context) {
	rows, err := h.service.ListFAQs(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "faqs": rows})
}

func uploadFormat(contentType string) string {
	if strings.Contains(contentType, "yaml") {
		return "yaml"
	}
	return "json"
}
