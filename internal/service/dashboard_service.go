package service

import (
	"time"

	"go-shopstock/internal/model"
	"go-shopstock/internal/repository"
)

// DashboardStats is the cross-shop overview for the admin console.
type DashboardStats struct {
	TotalShops      int64 `json:"total_shops"`
	ActiveShops     int64 `json:"active_shops"`
	PendingShops    int64 `json:"pending_shops"`
	PendingReceipts int64 `json:"pending_receipts"`
	LowStockCount   int64 `json:"low_stock_count"`
	OutOfStockCount int64 `json:"out_of_stock_count"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetMovementChart(days int) ([]repository.MovementChartRow, error)
}

type dashboardService struct {
	invRepo   repository.InventoryRepository
	shopRepo  repository.ShopRepository
	orderRepo repository.OrderRepository
}

func NewDashboardService(invRepo repository.InventoryRepository, shopRepo repository.ShopRepository, orderRepo repository.OrderRepository) DashboardService {
	return &dashboardService{
		invRepo:   invRepo,
		shopRepo:  shopRepo,
		orderRepo: orderRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	active, err := s.shopRepo.CountByStatus(model.ShopActive)
	if err != nil {
		return nil, err
	}
	pending, err := s.shopRepo.CountByStatus(model.ShopPending)
	if err != nil {
		return nil, err
	}
	suspended, err := s.shopRepo.CountByStatus(model.ShopSuspended)
	if err != nil {
		return nil, err
	}
	stats.ActiveShops = active
	stats.PendingShops = pending
	stats.TotalShops = active + pending + suspended

	receipts, err := s.orderRepo.CountPendingReceipts()
	if err != nil {
		return nil, err
	}
	stats.PendingReceipts = receipts

	low, out, err := s.invRepo.GetStockAlertCounts()
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = low
	stats.OutOfStockCount = out

	return stats, nil
}

func (s *dashboardService) GetMovementChart(days int) ([]repository.MovementChartRow, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.invRepo.GetMovementChart(startDate, endDate)
}
