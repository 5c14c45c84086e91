package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

func (r *Repository) ListDevices(
	ctx context.Context,
	page, size int,
	filters map[string]any,
) (*dto.PaginatedDeviceResponse, error) {
	const op = "devices.ListDevices.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	q, err := buildDeviceListQuery(ctx, page, size, filters)
	if err != nil {
		return nil, err
	}

	var count int64
	if err = r.conn.GetContext(ctx, &count, q.countQ, q.countArgs...); err != nil {
		zap.L().Error("failed to count devices", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	devices := make([]*md.Device, 0, size)
	if err = r.conn.SelectContext(ctx, &devices, q.dataQ, q.dataArgs...); err != nil {
		zap.L().Error("failed to list devices", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	data := make([]*dto.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		data = append(data, dto.DeviceToResponse(d))
	}

	totalPages := int((count + int64(size) - 1) / int64(size))
	return &dto.PaginatedDeviceResponse{
		Data:        data,
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
	}, nil
}

func (r *Repository) GetDevice(ctx context.Context, id uuid.UUID) (*md.Device, error) {
	const op = "devices.GetDevice.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res := &md.Device{}
	err := r.conn.GetContext(ctx, res, deviceGetQ, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}

		zap.L().Error("failed to get device", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return res, nil
}

// ListProbeTargets returns every device with a configured IP address.
// Devices without one are never probed.
func (r *Repository) ListProbeTargets(ctx context.Context) ([]*md.Device, error) {
	const op = "devices.ListProbeTargets.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	devices := make([]*md.Device, 0)
	if err := r.conn.SelectContext(ctx, &devices, deviceProbeTargetsQ); err != nil {
		zap.L().Error("failed to list probe targets", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return devices, nil
}

func (r *Repository) CreateDevice(
	ctx context.Context,
	req *dto.CreateDeviceRequest,
) (uuid.UUID, error) {
	const op = "devices.CreateDevice.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	var id uuid.UUID
	err := r.conn.QueryRowContext(
		ctx,
		deviceCreateQ,
		req.Name,
		req.MAC,
		nullable(req.IP),
		req.BroadcastAddr,
		req.AgentEnabled,
	).Scan(&id)
	if err != nil {
		zap.L().Error("failed to create device", zap.String("op", op), zap.Error(err))
		return uuid.Nil, err
	}

	return id, nil
}

func (r *Repository) UpdateDevice(
	ctx context.Context,
	id uuid.UUID,
	req *dto.UpdateDeviceRequest,
) error {
	const op = "devices.UpdateDevice.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(
		ctx,
		deviceUpdateQ,
		req.Name,
		req.MAC,
		nullable(req.IP),
		req.BroadcastAddr,
		req.AgentEnabled,
		id,
	)
	if err != nil {
		zap.L().Error("failed to update device", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *Repository) SetDeviceIcon(ctx context.Context, id uuid.UUID, url string) error {
	const op = "devices.SetDeviceIcon.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, deviceSetIconQ, url, id)
	if err != nil {
		zap.L().Error("failed to set device icon", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	const op = "devices.DeleteDevice.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, deviceDeleteQ, id)
	if err != nil {
		zap.L().Error("failed to delete device", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// UpdateDeviceReachability is the single-row write the monitor uses to
// reconcile probe outcomes. Command handlers never touch these columns.
func (r *Repository) UpdateDeviceReachability(
	ctx context.Context,
	id uuid.UUID,
	isOnline bool,
	lastSeen *time.Time,
) error {
	const op = "devices.UpdateDeviceReachability.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, deviceReachabilityQ, isOnline, lastSeen, id)
	if err != nil {
		zap.L().Error("failed to update reachability", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *Repository) AppendDeviceEvent(ctx context.Context, e *md.DeviceEvent) error {
	const op = "devices.AppendDeviceEvent.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	err := r.conn.QueryRowContext(
		ctx,
		eventAppendQ,
		e.DeviceID,
		e.ActorID,
		e.Kind,
		e.Detail,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		zap.L().Error("failed to append device event", zap.String("op", op), zap.Error(err))
		return err
	}

	return nil
}

func (r *Repository) ListDeviceEvents(
	ctx context.Context,
	deviceID uuid.UUID,
	page, size int,
) (*dto.PaginatedEventResponse, error) {
	const op = "devices.ListDeviceEvents.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	var count int64
	if err := r.conn.GetContext(ctx, &count, eventCountQ, deviceID); err != nil {
		zap.L().Error("failed to count device events", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	events := make([]*md.DeviceEvent, 0, size)
	err := r.conn.SelectContext(ctx, &events, eventListQ, deviceID, size, (page-1)*size)
	if err != nil {
		zap.L().Error("failed to list device events", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	totalPages := int((count + int64(size) - 1) / int64(size))
	return &dto.PaginatedEventResponse{
		Data:        events,
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
