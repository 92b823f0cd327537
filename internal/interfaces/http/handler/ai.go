package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	assistantapp "github.com/partnerpro/product-manager/internal/application/assistant"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/assistant"
	"github.com/partnerpro/product-manager/internal/interfaces/http/dto"
)

// Assistant runs chat turns and manages chat sessions
type Assistant interface {
	Chat(ctx context.Context, sessionID, message string) (*assistantapp.ChatReply, error)
	ChatWithCharts(ctx context.Context, sessionID, message string) (*assistantapp.VisualReply, error)
	ClearSession(sessionID string)
	ClearAllSessions()
	ActiveSessions() int
}

// Reporter answers free-text questions about the catalog
type Reporter interface {
	GenerateReport(ctx context.Context, query string) (string, error)
	SmartQuery(ctx context.Context, query string) ([]catalogapp.ProductResponse, error)
}

// ChartService builds a chart by kind
type ChartService interface {
	Generate(ctx context.Context, kind assistant.ChartKind) (*assistant.ChartData, error)
}

// AIHandler serves the assistant, report and chart endpoints
type AIHandler struct {
	BaseHandler
	assistant Assistant
	reports   Reporter
	charts    ChartService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(assistantService Assistant, reports Reporter, charts ChartService) *AIHandler {
	return &AIHandler{
		assistant: assistantService,
		reports:   reports,
		charts:    charts,
	}
}

// QueryRequest carries a free-text question
type QueryRequest struct {
	Query string `json:"query" binding:"required,notblank,max=2000"`
}

// ReportResponse pairs a question with the generated analysis
type ReportResponse struct {
	Query  string `json:"query"`
	Report string `json:"report"`
}

// ChatRequest is one user message. A missing or expired sessionId starts a new session.
type ChatRequest struct {
	SessionID string `json:"sessionId" binding:"max=128"`
	Message   string `json:"message" binding:"required,notblank,max=4000"`
}

// ChatResponse is the assistant reply for one turn
type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Response  string `json:"response"`
}

// VisualChatResponse is a chat reply that may carry a chart
type VisualChatResponse struct {
	SessionID string               `json:"sessionId"`
	Message   string               `json:"message"`
	ChartData *assistant.ChartData `json:"chartData"`
	HasChart  bool                 `json:"hasChart"`
}

// Report godoc
// @ID           generateReport
// @Summary      Generate a catalog report
// @Description  Asks the language model to analyse the catalog in answer to the query
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body QueryRequest true "Question"
// @Success      200 {object} APIResponse[ReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /ai/report [post]
func (h *AIHandler) Report(c *gin.Context) {
	var req QueryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reports.GenerateReport(c.Request.Context(), req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ReportResponse{Query: req.Query, Report: report})
}

// SmartQuery godoc
// @ID           smartQuery
// @Summary      Query products in natural language
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body QueryRequest true "Question"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /ai/query [post]
func (h *AIHandler) SmartQuery(c *gin.Context) {
	var req QueryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	products, err := h.reports.SmartQuery(c.Request.Context(), req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Chat godoc
// @ID           chat
// @Summary      Send a chat message
// @Description  Runs one assistant turn. The reply may report a product created, updated or removed.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body ChatRequest true "Message"
// @Success      200 {object} APIResponse[ChatResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /ai/chat [post]
func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ChatResponse{
		SessionID: reply.SessionID,
		Message:   reply.Message,
		Response:  reply.Response,
	})
}

// ChatVisual godoc
// @ID           chatVisual
// @Summary      Send a chat message and receive a chart
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body ChatRequest true "Message"
// @Success      200 {object} APIResponse[VisualChatResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /ai/chat/visual [post]
func (h *AIHandler) ChatVisual(c *gin.Context) {
	var req ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}

	reply, err := h.assistant.ChatWithCharts(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, VisualChatResponse{
		SessionID: reply.SessionID,
		Message:   reply.Message,
		ChartData: reply.ChartData,
		HasChart:  reply.HasChart(),
	})
}

// ClearChat godoc
// @ID           clearChat
// @Summary      Clear one chat session
// @Tags         ai
// @Produce      json
// @Param        sessionId query string true "Session ID"
// @Success      200 {object} APIResponse[dto.MessageData]
// @Failure      400 {object} ErrorResponse
// @Router       /ai/chat/clear [post]
func (h *AIHandler) ClearChat(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Informe o sessionId para limpar")
		return
	}

	h.assistant.ClearSession(sessionID)
	h.Success(c, dto.MessageData{Message: fmt.Sprintf("Sessão %s limpa com sucesso!", sessionID)})
}

// Chart godoc
// @ID           getChart
// @Summary      Build a catalog chart
// @Tags         ai
// @Produce      json
// @Param        kind path string true "Chart kind" Enums(category, price-distribution, stock, value-by-category, average-price)
// @Success      200 {object} APIResponse[assistant.ChartData]
// @Failure      400 {object} ErrorResponse
// @Router       /ai/charts/{kind} [get]
func (h *AIHandler) Chart(c *gin.Context) {
	data, err := h.charts.Generate(c.Request.Context(), assistant.ChartKind(c.Param("kind")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}

// ActiveSessions godoc
// @ID           countChatSessions
// @Summary      Count live chat sessions
// @Tags         ai
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Router       /ai/sessions [get]
func (h *AIHandler) ActiveSessions(c *gin.Context) {
	h.Success(c, CountData{Count: int64(h.assistant.ActiveSessions())})
}

// ClearAllSessions godoc
// @ID           clearChatSessions
// @Summary      Clear every chat session
// @Tags         ai
// @Produce      json
// @Success      200 {object} APIResponse[dto.MessageData]
// @Router       /ai/sessions [delete]
func (h *AIHandler) ClearAllSessions(c *gin.Context) {
	h.assistant.ClearAllSessions()
	h.Success(c, dto.MessageData{Message: "Todas as sessões foram limpas"})
}
