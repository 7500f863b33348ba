package stock

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"
	"github.com/noname01054/LaCoupole-back/internal/utils/mailing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "stock").Logger()

type (
	StockService interface {
		GetIngredients(ctx context.Context) ([]domain.IngredientResponse, error)
		GetLowStock(ctx context.Context) ([]domain.IngredientResponse, error)
		Restock(ctx context.Context, id string, req domain.RestockRequest) (*domain.IngredientResponse, error)
		GetTransactions(ctx context.Context, ingredientID string, page, limit int) ([]*entities.StockTransaction, int64, error)
		SendLowStockAlert(ctx context.Context)
	}

	stockService struct {
		stockRepository StockRepository
		alertEmail      string
	}
)

func NewStockService(stockRepository StockRepository, alertEmail string) StockService {
	return &stockService{
		stockRepository: stockRepository,
		alertEmail:      alertEmail,
	}
}

func (s *stockService) GetIngredients(ctx context.Context) ([]domain.IngredientResponse, error) {
	ingredients, err := s.stockRepository.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return toIngredientResponses(ingredients), nil
}

func (s *stockService) GetLowStock(ctx context.Context) ([]domain.IngredientResponse, error) {
	ingredients, err := s.stockRepository.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toIngredientResponses(ingredients), nil
}

func (s *stockService) Restock(ctx context.Context, id string, req domain.RestockRequest) (*domain.IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	ingredient, err := s.stockRepository.Restock(ctx, ingredientID, req.Quantity, req.Reason)
	if err != nil {
		return nil, err
	}

	response := toIngredientResponse(ingredient)
	return &response, nil
}

func (s *stockService) GetTransactions(ctx context.Context, ingredientID string, page, limit int) ([]*entities.StockTransaction, int64, error) {
	id, err := uuid.Parse(ingredientID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}
	return s.stockRepository.ListTransactions(ctx, id, page, limit)
}

// SendLowStockAlert emails the configured staff address with every ingredient
// at or below its threshold. Failures are logged and never surfaced to the
// caller; the alert is strictly best-effort.
func (s *stockService) SendLowStockAlert(ctx context.Context) {
	if s.alertEmail == "" {
		return
	}

	ingredients, err := s.stockRepository.ListLowStock(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("low stock lookup failed")
		return
	}
	if len(ingredients) == 0 {
		return
	}

	var body strings.Builder
	body.WriteString("<p>The following ingredients are running low:</p><ul>")
	for _, ingredient := range ingredients {
		body.WriteString(fmt.Sprintf("<li>%s: %.2f %s remaining (threshold %.2f)</li>",
			ingredient.Name, ingredient.QuantityInStock, ingredient.Unit, ingredient.LowStockThreshold))
	}
	body.WriteString("</ul>")

	if err := mailing.SendMail(s.alertEmail, "Low stock alert", body.String()); err != nil {
		logger.Error().Err(err).Msg("low stock alert email failed")
		return
	}
	logger.Info().Int("ingredients", len(ingredients)).Msg("low stock alert sent")
}

func toIngredientResponses(ingredients []*entities.Ingredient) []domain.IngredientResponse {
	responses := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, toIngredientResponse(ingredient))
	}
	return responses
}

func toIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:                ingredient.ID.String(),
		Name:              ingredient.Name,
		Unit:              ingredient.Unit,
		QuantityInStock:   ingredient.QuantityInStock,
		LowStockThreshold: ingredient.LowStockThreshold,
		LowStock:          ingredient.QuantityInStock <= ingredient.LowStockThreshold,
	}
}
