package db

const deviceGetQ = `
SELECT
	d.id,
	d.name,
	d.mac_address,
	d.ip_address,
	d.broadcast_addr,
	d.icon,
	d.agent_enabled,
	d.is_online,
	d.last_seen_at,
	d.created_at,
	d.updated_at
FROM devices d
WHERE d.id = $1
`

const deviceProbeTargetsQ = `
SELECT
	d.id,
	d.name,
	d.mac_address,
	d.ip_address,
	d.broadcast_addr,
	d.icon,
	d.agent_enabled,
	d.is_online,
	d.last_seen_at,
	d.created_at,
	d.updated_at
FROM devices d
WHERE d.ip_address IS NOT NULL AND d.ip_address != ''
`

const deviceCreateQ = `
INSERT INTO devices (name, mac_address, ip_address, broadcast_addr, agent_enabled)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

const deviceUpdateQ = `
UPDATE devices
SET name = $1,
    mac_address = $2,
    ip_address = $3,
    broadcast_addr = $4,
	agent_enabled = $5,
	updated_at = NOW()
WHERE id = $6
`

const deviceSetIconQ = `
UPDATE devices
SET icon = $1,
	updated_at = NOW()
WHERE id = $2
`

const deviceDeleteQ = `
DELETE FROM devices
WHERE id = $1
`

const deviceReachabilityQ = `
UPDATE devices
SET is_online = $1,
    last_seen_at = $2,
	updated_at = NOW()
WHERE id = $3
`

const eventAppendQ = `
INSERT INTO device_events (device_id, actor_id, kind, detail)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at
`

const eventCountQ = `
SELECT COUNT(e.id)
FROM device_events e
WHERE e.device_id = $1
`

const eventListQ = `
SELECT
	e.id,
	e.device_id,
	e.actor_id,
	e.kind,
	e.detail,
	e.created_at
FROM device_events e
WHERE e.device_id = $1
ORDER BY e.created_at DESC
LIMIT $2 OFFSET $3
`
