package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/bugreport"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/chatbot"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/domain"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/service"
)

// SiteHandler exposes the site's JSON API. Every response is a
// {success, message} envelope; internal errors never leak details.
type SiteHandler struct {
	Gateway   *service.Gateway
	Chat      *chatbot.Responder
	Formatter *bugreport.Formatter
	Logger    *zap.Logger
}

// NewSiteHandler creates the handler set.
func NewSiteHandler(gateway *service.Gateway, chat *chatbot.Responder, formatter *bugreport.Formatter, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{Gateway: gateway, Chat: chat, Formatter: formatter, Logger: logger}
}

// Signup handles POST /api/signup.
func (h *SiteHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Mobile   string `json:"mobile"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required."})
		return
	}

	_, err := h.Gateway.Register(c.Request.Context(), service.RegisterInput{
		Name:       req.Name,
		Mobile:     req.Mobile,
		Email:      req.Email,
		Credential: req.Password,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account created successfully."})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required."})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User with this mobile or email already exists."})
	default:
		h.Logger.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error."})
	}
}

// Login handles POST /api/login.
func (h *SiteHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials."})
		return
	}

	_, err := h.Gateway.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful."})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found."})
	case errors.Is(err, domain.ErrInvalidCredential):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid password."})
	default:
		h.Logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error."})
	}
}

// Contact handles POST /api/contact.
func (h *SiteHandler) Contact(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Service string `json:"service"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required."})
		return
	}

	_, err := h.Gateway.SubmitInquiry(c.Request.Context(), service.InquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully."})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required."})
	default:
		h.Logger.Error("contact failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error."})
	}
}

// Chatbot handles POST /api/chatbot with a canned keyword responder.
func (h *SiteHandler) Chatbot(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "response": h.Chat.Reply(req.Message)})
}

// FormatBug handles POST /api/format-bug.
func (h *SiteHandler) FormatBug(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || utf8.RuneCountInString(strings.TrimSpace(req.Note)) < 5 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide a clearer testing note."})
		return
	}

	if !h.Formatter.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "AI service is currently not configured. Please contact the administrator."})
		return
	}

	bug, err := h.Formatter.Format(c.Request.Context(), req.Note)
	if err != nil {
		h.Logger.Error("bug formatting failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to format bug with AI."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bug": bug})
}
