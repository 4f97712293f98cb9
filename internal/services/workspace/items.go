package workspace

import (
	"context"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
)

// ItemInput serves create and partial update. Only name is required on
// create; on update absent fields stay as stored.
type ItemInput struct {
	Name        patch.Field[string] `json:"name"`
	SKU         patch.Field[string] `json:"sku"`
	UseCase     patch.Field[string] `json:"usecase"`
	Image       patch.Field[string] `json:"image"`
	Description patch.Field[string] `json:"description"`
}

func (in ItemInput) applyTo(it *models.Item) {
	if in.Name.Set {
		it.Name = strings.TrimSpace(in.Name.Value)
	}
	in.SKU.Apply(&it.SKU)
	in.UseCase.Apply(&it.UseCase)
	in.Image.Apply(&it.Image)
	in.Description.Apply(&it.Description)
}

func (s *Service) Items(ctx context.Context, clientID string) ([]models.Item, error) {
	c, err := s.Client(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}

func (s *Service) AddItem(ctx context.Context, clientID string, in ItemInput) (*models.Item, error) {
	if err := checkID("client", clientID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name.Value) == "" {
		return nil, apperr.Validation("item name is required")
	}
	it := models.Item{ID: models.NewID()}
	in.applyTo(&it)
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		c.Items = append(c.Items, it)
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "ITEM_CREATE", clientID, "", map[string]any{"item_id": it.ID})
	return &it, nil
}

func (s *Service) UpdateItem(ctx context.Context, clientID, itemID string, in ItemInput) (*models.Item, error) {
	if err := checkIDs("client", clientID, "item", itemID); err != nil {
		return nil, err
	}
	if in.Name.Set && strings.TrimSpace(in.Name.Value) == "" {
		return nil, apperr.Validation("item name cannot be empty")
	}
	c, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		it, err := c.Item(itemID)
		if err != nil {
			return err
		}
		in.applyTo(it)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, "ITEM_UPDATE", clientID, "", map[string]any{"item_id": itemID})
	return c.Item(itemID)
}

func (s *Service) DeleteItem(ctx context.Context, clientID, itemID string) error {
	if err := checkIDs("client", clientID, "item", itemID); err != nil {
		return err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		return c.RemoveItem(itemID)
	}); err != nil {
		return err
	}
	s.record(ctx, "ITEM_DELETE", clientID, "", map[string]any{"item_id": itemID})
	return nil
}
