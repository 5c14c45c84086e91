package dto

import (
	"time"

	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/google/uuid"
)

type CreateDeviceRequest struct {
	Name          string `json:"name"          validate:"required"`
	MAC           string `json:"macAddress"    validate:"required"`
	IP            string `json:"ipAddress"     validate:"omitempty,ip"`
	BroadcastAddr string `json:"broadcastAddr" validate:"omitempty,ip4_addr"`
	AgentEnabled  bool   `json:"agentEnabled"`
}

type UpdateDeviceRequest struct {
	Name          string `json:"name"          validate:"required"`
	MAC           string `json:"macAddress"    validate:"required"`
	IP            string `json:"ipAddress"     validate:"omitempty,ip"`
	BroadcastAddr string `json:"broadcastAddr" validate:"omitempty,ip4_addr"`
	AgentEnabled  bool   `json:"agentEnabled"`
}

type CreateDeviceResponse struct {
	ID uuid.UUID `json:"id"`
}

type DeviceResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	MAC           string     `json:"macAddress"`
	IP            *string    `json:"ipAddress"`
	BroadcastAddr string     `json:"broadcastAddr"`
	Icon          string     `json:"icon"`
	AgentEnabled  bool       `json:"agentEnabled"`
	Status        string     `json:"status"`
	LastSeenAt    *time.Time `json:"lastSeenAt"`
}

func DeviceToResponse(d *md.Device) *DeviceResponse {
	return &DeviceResponse{
		ID:            d.ID,
		Name:          d.Name,
		MAC:           d.MAC,
		IP:            d.IP,
		BroadcastAddr: d.BroadcastAddr,
		Icon:          d.Icon,
		AgentEnabled:  d.AgentEnabled,
		Status:        d.Status(),
		LastSeenAt:    d.LastSeenAt,
	}
}

type PaginatedDeviceResponse struct {
	Data        []*DeviceResponse `json:"data"`
	Count       int64             `json:"count"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	HasNextPage bool              `json:"hasNextPage"`
}

type PaginatedEventResponse struct {
	Data        []*md.DeviceEvent `json:"data"`
	Count       int64             `json:"count"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	HasNextPage bool              `json:"hasNextPage"`
}
