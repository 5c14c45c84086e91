package models

import (
	"time"

	"github.com/google/uuid"
)

// Reachability states reported for a device. A device without a
// configured IP address is never probed and stays "unknown".
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusUnknown = "unknown"
)

type Device struct {
	ID            uuid.UUID  `db:"id"             json:"id"`
	Name          string     `db:"name"           json:"name"`
	MAC           string     `db:"mac_address"    json:"macAddress"`
	IP            *string    `db:"ip_address"     json:"ipAddress"`
	BroadcastAddr string     `db:"broadcast_addr" json:"broadcastAddr"`
	Icon          string     `db:"icon"           json:"icon"`
	AgentEnabled  bool       `db:"agent_enabled"  json:"agentEnabled"`
	IsOnline      bool       `db:"is_online"      json:"isOnline"`
	LastSeenAt    *time.Time `db:"last_seen_at"   json:"lastSeenAt"`
	CreatedAt     time.Time  `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updatedAt"`
}

// Status derives the reported reachability from the cached flag.
func (d *Device) Status() string {
	if d.IP == nil || *d.IP == "" {
		return StatusUnknown
	}

	if d.IsOnline {
		return StatusOnline
	}

	return StatusOffline
}

type EventKind string

const (
	EventWake         EventKind = "wake"
	EventShutdown     EventKind = "shutdown"
	EventProbeOnline  EventKind = "probe_online"
	EventProbeOffline EventKind = "probe_offline"
)

// DeviceEvent is an append-only audit record. ActorID is nil for
// events generated by the background monitor.
type DeviceEvent struct {
	ID        uint64     `db:"id"         json:"id"`
	DeviceID  uuid.UUID  `db:"device_id"  json:"deviceId"`
	ActorID   *uuid.UUID `db:"actor_id"   json:"actorId"`
	Kind      EventKind  `db:"kind"       json:"kind"`
	Detail    string     `db:"detail"     json:"detail"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}
