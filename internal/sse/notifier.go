package sse

import (
	"time"

	"github.com/hemshop/hemshop-api/internal/models"
)

// OrderNotifier is the interface services use to emit marketplace events.
type OrderNotifier interface {
	NotifyProductPurchased(p *models.Purchase)
	NotifyDeliveryStatusUpdated(p *models.Purchase)
}

// HubNotifier implements OrderNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyProductPurchased(p *models.Purchase) {
	if n.hub.ClientCount() == 0 {
		return
	}
	total := p.TotalAmount
	qty := p.Quantity
	n.hub.Broadcast(&OrderEvent{
		Event:       EventProductPurchased,
		ProductID:   p.ProductID,
		Buyer:       p.Buyer,
		Seller:      p.Seller,
		TotalAmount: &total,
		Quantity:    &qty,
		Timestamp:   time.Now(),
	})
}

func (n *HubNotifier) NotifyDeliveryStatusUpdated(p *models.Purchase) {
	if n.hub.ClientCount() == 0 {
		return
	}
	delivered := p.IsDelivered
	n.hub.Broadcast(&OrderEvent{
		Event:       EventDeliveryStatusUpdated,
		ProductID:   p.ProductID,
		Buyer:       p.Buyer,
		Seller:      p.Seller,
		IsDelivered: &delivered,
		Timestamp:   time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyProductPurchased(p *models.Purchase)      {}
func (n *NopNotifier) NotifyDeliveryStatusUpdated(p *models.Purchase) {}
