package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/assistant"
)

// LLMClient sends a prompt to a language model and returns its text reply
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ProductCatalog is the subset of the product service the assistant drives
type ProductCatalog interface {
	ListAll(ctx context.Context) ([]catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChartGenerator turns a chat message into chart data when it asks for one
type ChartGenerator interface {
	DetectAndGenerate(ctx context.Context, message string) (*assistant.ChartData, error)
}

// Metrics receives assistant instrumentation events
type Metrics interface {
	RecordAction(ctx context.Context, action assistant.ActionType, success bool)
	RecordLLMCall(ctx context.Context, duration time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) RecordAction(context.Context, assistant.ActionType, bool) {}
func (nopMetrics) RecordLLMCall(context.Context, time.Duration, error)      {}
