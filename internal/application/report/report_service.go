// Package report produces natural-language catalog reports and resolves
// free-text product queries with the help of a language model.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"go.uber.org/zap"
)

// LLMClient sends a prompt to a language model and returns its text reply
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ProductLister loads the full catalog
type ProductLister interface {
	ListAll(ctx context.Context) ([]catalogapp.ProductResponse, error)
}

const analystPrompt = `You are a data analyst assistant for a product management system.

User Request: %s

%s

Based on the user's request and the available products, generate a detailed report.

Instructions:
1. Analyze the user's request to understand what filters they want (price range, stock level, category, etc.)
2. Filter the products according to the criteria
3. Generate a professional report in Portuguese (Brazil) with:
   - A summary of the request
   - The filtered products in a clear format
   - Statistics (total products found, average price, total stock, etc.)
   - Insights or recommendations if applicable

Format the response in a clear, professional manner with sections and bullet points.
`

const queryPrompt = `You are a SQL query generator for a product management system.

User Query: %s

%s

Based on the user's natural language query, determine which products match the criteria.

Respond ONLY with a JSON array of product IDs that match the criteria.
Format: ["id1", "id2", "id3"]

If no products match, return an empty array: []

Do not include any explanation, just the JSON array.
`

// Service generates AI reports over the catalog
type Service struct {
	llm      LLMClient
	products ProductLister
	logger   *zap.Logger
}

// NewService creates a new report Service
func NewService(llm LLMClient, products ProductLister, logger *zap.Logger) *Service {
	return &Service{
		llm:      llm,
		products: products,
		logger:   logger,
	}
}

// GenerateReport asks the model for a Portuguese report answering query
func (s *Service) GenerateReport(ctx context.Context, query string) (string, error) {
	s.logger.Info("Generating report", zap.String("query", query))

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Available products in database:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- ID: %s, Name: %s, Price: %s, Category: %s, Stock: %d, Description: %s\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Category, p.Stock, p.Description)
	}

	report, err := s.llm.Generate(ctx, "", fmt.Sprintf(analystPrompt, query, b.String()))
	if err != nil {
		return "", shared.WrapDomainError(shared.ErrLLMUnavailable.Code, shared.ErrLLMUnavailable.Message, err)
	}

	s.logger.Info("Report generated successfully")
	return report, nil
}

// SmartQuery returns the products the model selects for query, in catalog
// order. When the reply is not a JSON id array the full catalog is returned.
func (s *Service) SmartQuery(ctx context.Context, query string) ([]catalogapp.ProductResponse, error) {
	s.logger.Info("Executing smart query", zap.String("query", query))

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Database schema:\n")
	b.WriteString("Table: products\n")
	b.WriteString("Columns: id (UUID), name (String), description (String), price (Decimal), category (String), stock (Integer), created_at (DateTime)\n\n")
	b.WriteString("Products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s | %s | %s | %s | Stock: %d\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Category, p.Stock)
	}

	reply, err := s.llm.Generate(ctx, "", fmt.Sprintf(queryPrompt, query, b.String()))
	if err != nil {
		return nil, shared.WrapDomainError(shared.ErrLLMUnavailable.Code, shared.ErrLLMUnavailable.Message, err)
	}
	s.logger.Debug("AI response", zap.String("response", reply))

	ids, err := ParseIDList(reply)
	if err != nil {
		s.logger.Warn("Smart query reply is not an id list, returning all products",
			zap.String("reply", reply),
			zap.Error(err))
		return products, nil
	}

	selected := make([]catalogapp.ProductResponse, 0, len(ids))
	for _, p := range products {
		if _, ok := ids[strings.ToLower(p.ID.String())]; ok {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// ParseIDList extracts a JSON array of ids from a model reply. Markdown code
// fences and text around the array are tolerated. Ids are lowercased.
func ParseIDList(reply string) (map[string]struct{}, error) {
	text := strings.TrimSpace(reply)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in reply")
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode id array: %w", err)
	}

	ids := make(map[string]struct{}, len(raw))
	for _, id := range raw {
		ids[strings.ToLower(strings.TrimSpace(id))] = struct{}{}
	}
	return ids, nil
}
