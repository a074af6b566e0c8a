package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/listview"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/repository"

	"gorm.io/gorm"
)

// GroceryService manages the shared shopping list.
type GroceryService interface {
	List(ctx context.Context, userID uint) ([]GroceryResponse, error)
	Add(ctx context.Context, userID uint, req GroceryRequest) (*GroceryResponse, error)
	Update(ctx context.Context, userID, id uint, req UpdateGroceryRequest) (*GroceryResponse, error)
	SetDone(ctx context.Context, userID, id uint, done bool) (*GroceryResponse, error)
	Delete(ctx context.Context, userID, id uint) error
	Reorder(ctx context.Context, userID uint, ids []uint) error
	ClearDone(ctx context.Context, userID uint) (int64, error)
}

type groceryService struct {
	repo   repository.GroceryRepository
	events realtime.Publisher
}

func NewGroceryService(repo repository.GroceryRepository, events realtime.Publisher) GroceryService {
	return &groceryService{repo: repo, events: events}
}

func (s *groceryService) publish(action realtime.Action, id uint, userID *uint) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{Table: realtime.TableGrocery, Action: action, ID: id, UserID: userID})
}

func (s *groceryService) List(ctx context.Context, userID uint) ([]GroceryResponse, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	out := make([]GroceryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toGroceryResponse(it))
	}
	return out, nil
}

func (s *groceryService) Add(ctx context.Context, userID uint, req GroceryRequest) (*GroceryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name cannot be empty")
	}

	existing, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list for ordering: %w", err)
	}
	orders := make([]int, 0, len(existing))
	for _, it := range existing {
		orders = append(orders, it.Order)
	}

	item := &domain.GroceryItem{
		Name:   name,
		Amount: strings.TrimSpace(req.Amount),
		Order:  listview.NextOrder(orders),
		UserID: owner(req.Mine, userID),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create grocery item: %w", err)
	}
	s.publish(realtime.ActionInsert, item.ID, item.UserID)

	resp := toGroceryResponse(*item)
	return &resp, nil
}

func (s *groceryService) Update(ctx context.Context, userID, id uint, req UpdateGroceryRequest) (*GroceryResponse, error) {
	item, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "grocery item", id)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		item.Name = name
	}
	if req.Amount != nil {
		item.Amount = strings.TrimSpace(*req.Amount)
	}
	if req.Done != nil {
		item.Done = *req.Done
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update grocery item %d: %w", id, err)
	}
	s.publish(realtime.ActionUpdate, item.ID, item.UserID)

	resp := toGroceryResponse(*item)
	return &resp, nil
}

func (s *groceryService) SetDone(ctx context.Context, userID, id uint, done bool) (*GroceryResponse, error) {
	return s.Update(ctx, userID, id, UpdateGroceryRequest{Done: &done})
}

func (s *groceryService) Delete(ctx context.Context, userID, id uint) error {
	existing, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return notFound(err, "grocery item", id)
	}
	rows, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete grocery item %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("grocery item with ID %d %w", id, ErrNotFound)
	}
	s.publish(realtime.ActionDelete, id, existing.UserID)
	return nil
}

func (s *groceryService) Reorder(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return invalid("no items to reorder")
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load grocery list: %w", err)
	}
	if err := s.repo.Reorder(ctx, ids, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("some grocery items %w", ErrNotFound)
		}
		return fmt.Errorf("failed to reorder grocery items: %w", err)
	}

	reordered := make(map[uint]bool, len(ids))
	for _, id := range ids {
		reordered[id] = true
	}
	for _, it := range items {
		if reordered[it.ID] {
			s.publish(realtime.ActionUpdate, it.ID, it.UserID)
		}
	}
	return nil
}

func (s *groceryService) ClearDone(ctx context.Context, userID uint) (int64, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load grocery list: %w", err)
	}
	n, err := s.repo.DeleteDone(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear done grocery items: %w", err)
	}
	if n > 0 {
		for _, it := range items {
			if it.Done {
				s.publish(realtime.ActionDelete, it.ID, it.UserID)
			}
		}
	}
	return n, nil
}
