package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/assistant"
	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/infrastructure/logger"
)

// scriptedLLM replies with queued answers and records prompts
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (l *scriptedLLM) Generate(_ context.Context, _ string, prompt string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	if len(l.replies) == 0 {
		return "ok", nil
	}
	reply := l.replies[0]
	l.replies = l.replies[1:]
	return reply, nil
}

func (l *scriptedLLM) lastPrompt() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prompts[len(l.prompts)-1]
}

// memoryCatalog is an in-memory ProductCatalog that applies domain validation
type memoryCatalog struct {
	mu          sync.Mutex
	products    []*catalog.Product
	lastSession string
}

func (c *memoryCatalog) ListAll(ctx context.Context) ([]catalogapp.ProductResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSession = logger.GetSessionID(ctx)
	out := make([]catalogapp.ProductResponse, len(c.products))
	for i, p := range c.products {
		out[i] = catalogapp.ToProductResponse(p)
	}
	return out, nil
}

func (c *memoryCatalog) find(id uuid.UUID) (*catalog.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product not found with id: %s", id))
}

func (c *memoryCatalog) GetByID(_ context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.find(id)
	if err != nil {
		return nil, err
	}
	resp := catalogapp.ToProductResponse(p)
	return &resp, nil
}

func (c *memoryCatalog) Create(_ context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := catalog.NewProduct(req.Name, req.Description, *req.Price, req.Category, *req.Stock)
	if err != nil {
		return nil, err
	}
	c.products = append(c.products, p)
	resp := catalogapp.ToProductResponse(p)
	return &resp, nil
}

func (c *memoryCatalog) Update(_ context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.find(id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Description, *req.Price, req.Category, *req.Stock); err != nil {
		return nil, err
	}
	resp := catalogapp.ToProductResponse(p)
	return &resp, nil
}

func (c *memoryCatalog) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.products {
		if p.ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product not found with id: %s", id))
}

type fixedChart struct {
	data *assistant.ChartData
}

func (f fixedChart) DetectAndGenerate(_ context.Context, message string) (*assistant.ChartData, error) {
	return f.data, nil
}

type recordedAction struct {
	action  assistant.ActionType
	success bool
}

type recordingMetrics struct {
	mu       sync.Mutex
	actions  []recordedAction
	llmCalls int
}

func (m *recordingMetrics) RecordAction(_ context.Context, action assistant.ActionType, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, recordedAction{action, success})
}

func (m *recordingMetrics) RecordLLMCall(context.Context, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.llmCalls++
}
