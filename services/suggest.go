package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
)

// HistoryItem is one past order line given to the model.
type HistoryItem struct {
	ItemName string `json:"item_name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// DefaultHistory stands in for a real order history.
var DefaultHistory = []HistoryItem{
	{ItemName: "Cheeseburger Deluxe", Category: models.CategoryBurgers},
	{ItemName: "Crispy French Fries", Category: models.CategoryFries},
	{ItemName: "Cola", Category: models.CategoryBeverages},
	{ItemName: "Pepperoni Pizza", Category: models.CategoryPizza},
}

const DefaultPreferences = "I like spicy food and trying new things."

type SuggestRequest struct {
	History     []HistoryItem `json:"order_history"`
	Preferences string        `json:"preferences"`
}

type ComboItem struct {
	ProductID   uint            `json:"product_id"`
	ItemName    string          `json:"item_name"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
}

// ComboSuggestion is a validated combo. ProductIDs is the body the client
// posts to the bulk cart endpoint to accept it.
type ComboSuggestion struct {
	Items      []ComboItem     `json:"combo_suggestion"`
	Reasoning  string          `json:"reasoning"`
	Total      decimal.Decimal `json:"total"`
	ProductIDs []uint          `json:"product_ids"`
}

const comboPrompt = `You are a personalized junk food combo suggestion expert. You will use the user's order history and preferences to create a combo suggestion from the available menu items.

Available Menu Items:
{{.menu}}
User Order History:
{{.history}}
User Preferences: {{.preferences}}

Based on the user's order history, preferences, and the available menu items, suggest a personalized and creative junk food combo. Avoid suggesting the most obvious pairings. Provide a detailed reasoning behind the suggestion. The combo should have items from different categories and only contain items from the menu. Make the descriptions enticing. Be creative and do not suggest the same combo every time.

Respond with a single JSON object and nothing else, shaped like:
{"combo_suggestion": [{"product_id": 1, "item_name": "...", "category": "...", "description": "..."}], "reasoning": "..."}`

// ComboSuggester asks a language model for a combo and checks the answer
// against the catalog.
type ComboSuggester struct {
	Model   llms.Model
	Catalog *Catalog
	Timeout time.Duration
	Metrics *metrics.Metrics

	template prompts.PromptTemplate
}

func NewComboSuggester(model llms.Model, catalog *Catalog, timeout time.Duration) *ComboSuggester {
	return &ComboSuggester{
		Model:    model,
		Catalog:  catalog,
		Timeout:  timeout,
		template: prompts.NewPromptTemplate(comboPrompt, []string{"menu", "history", "preferences"}),
	}
}

// Suggest returns a validated combo. Every failure comes back as a
// *SuggestionError and nothing is retried.
func (s *ComboSuggester) Suggest(ctx context.Context, req SuggestRequest) (*ComboSuggestion, error) {
	start := time.Now()
	combo, err := s.suggest(ctx, req)
	if err != nil {
		s.Metrics.Suggestion("error", time.Since(start))
		utils.ErrorLogger.Printf("Combo suggestion failed: %v", err)
		return nil, &SuggestionError{Err: err}
	}
	s.Metrics.Suggestion("ok", time.Since(start))
	return combo, nil
}

func (s *ComboSuggester) suggest(ctx context.Context, req SuggestRequest) (*ComboSuggestion, error) {
	if s.Model == nil {
		return nil, ErrSuggesterDisabled
	}

	products, err := s.Catalog.List("")
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}

	prompt, err := s.render(products, req)
	if err != nil {
		return nil, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	resp, err := s.Model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}, llms.WithJSONMode(), llms.WithTemperature(0.9))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.New("empty response from model")
	}

	return parseCombo(resp.Choices[0].Content, products)
}

func (s *ComboSuggester) render(products []models.Product, req SuggestRequest) (string, error) {
	history := req.History
	if len(history) == 0 {
		history = DefaultHistory
	}
	preferences := strings.TrimSpace(req.Preferences)
	if preferences == "" {
		preferences = DefaultPreferences
	}

	var menu strings.Builder
	for _, p := range products {
		fmt.Fprintf(&menu, "- [%d] %s (%s)\n", p.ID, p.Name, p.Category)
	}
	var past strings.Builder
	for _, h := range history {
		fmt.Fprintf(&past, "- %s (%s)\n", h.ItemName, h.Category)
	}

	prompt, err := s.template.Format(map[string]any{
		"menu":        menu.String(),
		"history":     past.String(),
		"preferences": preferences,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return prompt, nil
}

type rawCombo struct {
	ComboSuggestion []struct {
		ProductID   uint   `json:"product_id"`
		ItemName    string `json:"item_name"`
		Category    string `json:"category"`
		Description string `json:"description"`
	} `json:"combo_suggestion"`
	Reasoning string `json:"reasoning"`
}

// parseCombo decodes the model output and resolves every item to a menu
// product, by id first and by name otherwise.
func parseCombo(content string, products []models.Product) (*ComboSuggestion, error) {
	var raw rawCombo
	if err := json.Unmarshal([]byte(stripFence(content)), &raw); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if len(raw.ComboSuggestion) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidSuggestion)
	}
	if strings.TrimSpace(raw.Reasoning) == "" {
		return nil, fmt.Errorf("%w: missing reasoning", ErrInvalidSuggestion)
	}

	byID := make(map[uint]models.Product, len(products))
	byName := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		byName[strings.ToLower(p.Name)] = p
	}

	combo := &ComboSuggestion{Reasoning: strings.TrimSpace(raw.Reasoning), Total: decimal.Zero}
	seen := make(map[uint]bool)
	for _, it := range raw.ComboSuggestion {
		p, ok := byID[it.ProductID]
		if !ok || (it.ItemName != "" && !strings.EqualFold(p.Name, strings.TrimSpace(it.ItemName))) {
			p, ok = byName[strings.ToLower(strings.TrimSpace(it.ItemName))]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q is not on the menu", ErrInvalidSuggestion, it.ItemName)
		}
		if it.Category != "" && !strings.EqualFold(it.Category, p.Category) {
			return nil, fmt.Errorf("%w: %s is not in %s", ErrInvalidSuggestion, p.Name, it.Category)
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		combo.Items = append(combo.Items, ComboItem{
			ProductID:   p.ID,
			ItemName:    p.Name,
			Category:    p.Category,
			Description: strings.TrimSpace(it.Description),
			Price:       p.Price,
			Image:       p.Image,
		})
		combo.Total = combo.Total.Add(p.Price)
		combo.ProductIDs = append(combo.ProductIDs, p.ID)
	}
	return combo, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
