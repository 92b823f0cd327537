package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/assistant"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// User-facing replies produced by action execution
const (
	msgCreateFailed     = "❌ Ops! Não consegui adicionar o produto. Erro: "
	msgUpdateFailed     = "❌ Ops! Não consegui atualizar o produto. Erro: "
	msgDeleteFailed     = "❌ Ops! Não consegui remover o produto. Erro: "
	msgUpdateNoTarget   = "❌ Não consegui identificar qual produto atualizar. Por favor, especifique o produto."
	msgDeleteNoTarget   = "❌ Não consegui identificar qual produto remover."
	msgDeleted          = "✅ Produto removido com sucesso! 🗑️"
	msgProductNotFound  = "Produto não encontrado"
	assistantHistoryTag = "Assistant: "
)

// ChatReply is the outcome of one chat turn
type ChatReply struct {
	SessionID string
	Message   string
	Response  string
}

// VisualReply is a chat reply optionally carrying a chart
type VisualReply struct {
	SessionID string
	Message   string
	ChartData *assistant.ChartData
}

// HasChart reports whether a chart accompanies the reply
func (r VisualReply) HasChart() bool {
	return r.ChartData != nil
}

// Service resolves chat messages into catalog actions through a language model
type Service struct {
	llm      LLMClient
	products ProductCatalog
	charts   ChartGenerator
	sessions *SessionManager
	metrics  Metrics
	logger   *zap.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithMetrics sets the instrumentation sink
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a new assistant Service
func NewService(
	llm LLMClient,
	products ProductCatalog,
	charts ChartGenerator,
	sessions *SessionManager,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		llm:      llm,
		products: products,
		charts:   charts,
		sessions: sessions,
		metrics:  nopMetrics{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat runs one conversational turn. Errors are returned only when the
// catalog cannot be loaded or the model is unreachable; failed actions are
// reported in the reply text.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	session := s.sessions.GetOrCreate(sessionID)
	ctx = logger.WithSessionID(ctx, session.ID())
	log := s.logger.With(zap.String("session_id", session.ID()))
	log.Info("User message", zap.String("message", message))

	session.AddMessage(assistant.RoleUser, message)

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var last *lastProduct
	if id, name, ok := session.LastProduct(); ok {
		last = &lastProduct{ID: id, Name: name}
	}
	prompt := buildChatPrompt(products, last, message)

	start := time.Now()
	reply, err := s.llm.Generate(ctx, "", prompt)
	s.metrics.RecordLLMCall(ctx, time.Since(start), err)
	if err != nil {
		log.Error("LLM call failed", zap.Error(err))
		return nil, shared.WrapDomainError(shared.ErrLLMUnavailable.Code, shared.ErrLLMUnavailable.Message, err)
	}
	log.Debug("AI response", zap.String("response", reply))

	response := s.processReply(ctx, session, reply)
	session.AddMessage(assistant.RoleAssistant, assistantHistoryTag+response)

	return &ChatReply{
		SessionID: session.ID(),
		Message:   message,
		Response:  response,
	}, nil
}

// ChatWithCharts runs a chat turn and attaches the chart the message asks for.
// Chart detection runs before the model is called.
func (s *Service) ChatWithCharts(ctx context.Context, sessionID, message string) (*VisualReply, error) {
	chart, err := s.charts.DetectAndGenerate(ctx, message)
	if err != nil {
		return nil, err
	}

	reply, err := s.Chat(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	return &VisualReply{
		SessionID: reply.SessionID,
		Message:   reply.Response,
		ChartData: chart,
	}, nil
}

// ClearSession drops one chat session
func (s *Service) ClearSession(sessionID string) {
	s.sessions.Clear(sessionID)
}

// ClearAllSessions drops every chat session
func (s *Service) ClearAllSessions() {
	s.sessions.ClearAll()
}

// ActiveSessions returns the number of live sessions
func (s *Service) ActiveSessions() int {
	return s.sessions.ActiveCount()
}

func (s *Service) processReply(ctx context.Context, session *assistant.ChatSession, reply string) string {
	action, ok := assistant.ParseAction(reply)
	if !ok {
		return reply
	}

	var (
		response string
		success  bool
	)
	switch action.Type {
	case assistant.ActionCreate:
		response, success = s.executeCreate(ctx, session, action)
	case assistant.ActionUpdate:
		response, success = s.executeUpdate(ctx, session, action)
	case assistant.ActionDelete:
		response, success = s.executeDelete(ctx, session, action)
	default:
		return reply
	}

	s.metrics.RecordAction(ctx, action.Type, success)
	return response
}

func (s *Service) executeCreate(ctx context.Context, session *assistant.ChatSession, action *assistant.Action) (string, bool) {
	req, err := createRequestFromAction(action)
	if err != nil {
		return msgCreateFailed + err.Error(), false
	}

	product, err := s.products.Create(ctx, req)
	if err != nil {
		s.logger.Error("Error creating product", zap.Error(err))
		return msgCreateFailed + err.Error(), false
	}

	session.UpdateLastProduct(product.ID, product.Name)

	return fmt.Sprintf("✅ Produto adicionado com sucesso!\n\n"+
		"📦 **%s**\n"+
		"💰 Preço: R$ %s\n"+
		"📁 Categoria: %s\n"+
		"📊 Estoque: %d unidades\n"+
		"🆔 ID: %s",
		product.Name, product.Price.StringFixed(2), product.Category, product.Stock, product.ID), true
}

func (s *Service) executeUpdate(ctx context.Context, session *assistant.ChatSession, action *assistant.Action) (string, bool) {
	id, err := action.UUID("id")
	if err != nil {
		return msgUpdateFailed + err.Error(), false
	}
	if id == nil {
		lastID, _, ok := session.LastProduct()
		if !ok {
			return msgUpdateNoTarget, false
		}
		s.logger.Info("Using last product ID from session", zap.String("product_id", lastID.String()))
		id = &lastID
	}

	current, err := s.products.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return msgUpdateFailed + msgProductNotFound, false
		}
		return msgUpdateFailed + err.Error(), false
	}

	req, err := updateRequestFromAction(action, current)
	if err != nil {
		return msgUpdateFailed + err.Error(), false
	}

	product, err := s.products.Update(ctx, *id, req)
	if err != nil {
		s.logger.Error("Error updating product", zap.Error(err))
		return msgUpdateFailed + err.Error(), false
	}

	session.UpdateLastProduct(product.ID, product.Name)

	return fmt.Sprintf("✅ Tudo atualizado! :)\n\n"+
		"📦 **%s**\n"+
		"💰 Preço: R$ %s\n"+
		"📁 Categoria: %s\n"+
		"📊 Estoque: %d unidades",
		product.Name, product.Price.StringFixed(2), product.Category, product.Stock), true
}

func (s *Service) executeDelete(ctx context.Context, session *assistant.ChatSession, action *assistant.Action) (string, bool) {
	id, err := action.UUID("id")
	if err != nil {
		return msgDeleteFailed + err.Error(), false
	}
	if id == nil {
		lastID, _, ok := session.LastProduct()
		if !ok {
			return msgDeleteNoTarget, false
		}
		id = &lastID
	}

	if err := s.products.Delete(ctx, *id); err != nil {
		s.logger.Error("Error deleting product", zap.Error(err))
		return msgDeleteFailed + err.Error(), false
	}

	session.ClearLastProduct()
	return msgDeleted, true
}

func createRequestFromAction(action *assistant.Action) (catalogapp.CreateProductRequest, error) {
	var req catalogapp.CreateProductRequest

	name, ok := action.Text("name")
	if !ok {
		return req, errors.New("missing field: name")
	}
	category, ok := action.Text("category")
	if !ok {
		return req, errors.New("missing field: category")
	}
	price, err := action.Decimal("price")
	if err != nil {
		return req, err
	}
	if price == nil {
		return req, errors.New("missing field: price")
	}
	stock, err := action.Int("stock")
	if err != nil {
		return req, err
	}
	if stock == nil {
		zero := 0
		stock = &zero
	}
	description, _ := action.Text("description")

	req.Name = name
	req.Description = description
	req.Price = price
	req.Category = category
	req.Stock = stock
	return req, nil
}

// updateRequestFromAction overlays the envelope fields on the current product.
// Empty text fields and absent numbers keep their current values.
func updateRequestFromAction(action *assistant.Action, current *catalogapp.ProductResponse) (catalogapp.UpdateProductRequest, error) {
	req := catalogapp.UpdateProductRequest{
		Name:        current.Name,
		Description: current.Description,
		Category:    current.Category,
	}
	price := current.Price
	stock := current.Stock

	if v, ok := action.NonEmptyText("name"); ok {
		req.Name = v
	}
	if v, ok := action.NonEmptyText("description"); ok {
		req.Description = v
	}
	if v, ok := action.NonEmptyText("category"); ok {
		req.Category = v
	}
	if _, ok := action.NonEmptyText("price"); ok {
		p, err := action.Decimal("price")
		if err != nil {
			return req, err
		}
		price = *p
	}
	if _, ok := action.NonEmptyText("stock"); ok {
		n, err := action.Int("stock")
		if err != nil {
			return req, err
		}
		stock = *n
	}

	req.Price = &price
	req.Stock = &stock
	return req, nil
}

var _ ProductCatalog = (*catalogapp.ProductService)(nil)
