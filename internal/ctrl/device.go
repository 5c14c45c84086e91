package ctrl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/config"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/niposch/wake-on-lan-web/internal/repo/s3"
	"github.com/niposch/wake-on-lan-web/internal/wol"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type deviceCtrl interface {
	ListDevices(
		ctx context.Context,
		page, size int,
		filters map[string]any,
	) (*dto.PaginatedDeviceResponse, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*dto.DeviceResponse, error)
	CreateDevice(
		ctx context.Context,
		req *dto.CreateDeviceRequest,
		file *s3.UploadFileRequest,
	) (*dto.CreateDeviceResponse, error)
	UpdateDevice(
		ctx context.Context,
		id uuid.UUID,
		req *dto.UpdateDeviceRequest,
		file *s3.UploadFileRequest,
	) error
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	ListDeviceEvents(
		ctx context.Context,
		deviceID uuid.UUID,
		page, size int,
	) (*dto.PaginatedEventResponse, error)
	SendWake(ctx context.Context, id, actor uuid.UUID) error
	SendShutdown(ctx context.Context, id, actor uuid.UUID) error
}

type deviceRepo interface {
	ListDevices(
		ctx context.Context,
		page, size int,
		filters map[string]any,
	) (*dto.PaginatedDeviceResponse, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*md.Device, error)
	CreateDevice(ctx context.Context, req *dto.CreateDeviceRequest) (uuid.UUID, error)
	UpdateDevice(ctx context.Context, id uuid.UUID, req *dto.UpdateDeviceRequest) error
	SetDeviceIcon(ctx context.Context, id uuid.UUID, url string) error
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	AppendDeviceEvent(ctx context.Context, e *md.DeviceEvent) error
	ListDeviceEvents(
		ctx context.Context,
		deviceID uuid.UUID,
		page, size int,
	) (*dto.PaginatedEventResponse, error)
}

const (
	deviceCacheKey = "device:%v"
	devicesListKey = "devices-list:%v:%v:%v"
	devicePattern  = "device*"
)

func (c *Controller) ListDevices(
	ctx context.Context,
	page, size int,
	filters map[string]any,
) (*dto.PaginatedDeviceResponse, error) {
	const op = "devices.ListDevices.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	cached := &dto.PaginatedDeviceResponse{}
	cacheKey := fmt.Sprintf(devicesListKey, page, size, filters)
	if err := c.cache.GetToStruct(ctx, cacheKey, cached); err == nil {
		return cached, nil
	}

	res, err := c.repo.ListDevices(ctx, page, size, filters)
	if err != nil {
		return nil, err
	}

	bytes, err := json.Marshal(res)
	if err == nil {
		c.cache.Set(ctx, config.DefaultCacheTime, cacheKey, bytes)
	}

	return res, nil
}

func (c *Controller) GetDevice(ctx context.Context, id uuid.UUID) (*dto.DeviceResponse, error) {
	const op = "devices.GetDevice.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	cached := &dto.DeviceResponse{}
	cacheKey := fmt.Sprintf(deviceCacheKey, id)
	if err := c.cache.GetToStruct(ctx, cacheKey, cached); err == nil {
		return cached, nil
	}

	d, err := c.repo.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res := dto.DeviceToResponse(d)
	bytes, err := json.Marshal(res)
	if err == nil {
		c.cache.Set(ctx, config.DefaultCacheTime, cacheKey, bytes)
	}

	return res, nil
}

func (c *Controller) CreateDevice(
	ctx context.Context,
	req *dto.CreateDeviceRequest,
	file *s3.UploadFileRequest,
) (*dto.CreateDeviceResponse, error) {
	const op = "devices.CreateDevice.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if _, err := wol.ParseMAC(req.MAC); err != nil {
		return nil, err
	}

	if req.BroadcastAddr == "" {
		req.BroadcastAddr = config.DefaultBroadcastAddr
	}

	id, err := c.repo.CreateDevice(ctx, req)
	if err != nil {
		return nil, err
	}

	if file != nil && len(file.File) > 0 {
		url, err := c.s3.UploadFile(ctx, file)
		if err != nil {
			return nil, err
		}

		if err = c.repo.SetDeviceIcon(ctx, id, url); err != nil {
			return nil, err
		}
	}

	go c.cache.InvalidateKeysByPattern(ctx, devicePattern)

	return &dto.CreateDeviceResponse{ID: id}, nil
}

func (c *Controller) UpdateDevice(
	ctx context.Context,
	id uuid.UUID,
	req *dto.UpdateDeviceRequest,
	file *s3.UploadFileRequest,
) error {
	const op = "devices.UpdateDevice.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if _, err := wol.ParseMAC(req.MAC); err != nil {
		return err
	}

	if req.BroadcastAddr == "" {
		req.BroadcastAddr = config.DefaultBroadcastAddr
	}

	if err := c.repo.UpdateDevice(ctx, id, req); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if file != nil && len(file.File) > 0 {
		url, err := c.s3.UploadFile(ctx, file)
		if err != nil {
			return err
		}

		if err = c.repo.SetDeviceIcon(ctx, id, url); err != nil {
			return err
		}
	}

	c.cache.Delete(ctx, fmt.Sprintf(deviceCacheKey, id))

	go c.cache.InvalidateKeysByPattern(ctx, devicePattern)

	return nil
}

func (c *Controller) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	const op = "devices.DeleteDevice.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if err := c.repo.DeleteDevice(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	c.cache.Delete(ctx, fmt.Sprintf(deviceCacheKey, id))

	go c.cache.InvalidateKeysByPattern(ctx, devicePattern)

	return nil
}

func (c *Controller) ListDeviceEvents(
	ctx context.Context,
	deviceID uuid.UUID,
	page, size int,
) (*dto.PaginatedEventResponse, error) {
	const op = "devices.ListDeviceEvents.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := c.repo.ListDeviceEvents(ctx, deviceID, page, size)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// SendWake builds and broadcasts a magic packet for the device. The
// cached reachability is left untouched: only the next probe cycle can
// confirm the device actually came up.
func (c *Controller) SendWake(ctx context.Context, id, actor uuid.UUID) error {
	const op = "devices.SendWake.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	d, err := c.repo.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	mac, err := wol.ParseMAC(d.MAC)
	if err != nil {
		return err
	}

	addr := d.BroadcastAddr
	if addr == "" {
		addr = config.DefaultBroadcastAddr
	}

	if err = c.wake.Send(ctx, wol.NewMagicPacket(mac), addr, c.wolPort); err != nil {
		return err
	}

	c.appendEvent(
		ctx, op, &md.DeviceEvent{
			DeviceID: id,
			ActorID:  &actor,
			Kind:     md.EventWake,
			Detail: fmt.Sprintf(
				"magic packet sent to %s",
				net.JoinHostPort(addr, strconv.Itoa(c.wolPort)),
			),
		},
	)

	return nil
}

// SendShutdown asks the device's companion agent to power the OS down.
func (c *Controller) SendShutdown(ctx context.Context, id, actor uuid.UUID) error {
	const op = "devices.SendShutdown.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	d, err := c.repo.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !d.AgentEnabled {
		return ErrAgentDisabled
	}

	if d.IP == nil || *d.IP == "" {
		return ErrNoIPAddress
	}

	if err = c.agent.Shutdown(ctx, *d.IP); err != nil {
		return err
	}

	c.appendEvent(
		ctx, op, &md.DeviceEvent{
			DeviceID: id,
			ActorID:  &actor,
			Kind:     md.EventShutdown,
			Detail:   fmt.Sprintf("shutdown requested via agent at %s", *d.IP),
		},
	)

	return nil
}

// appendEvent records a command in the audit trail. The signal is already
// on the wire at this point, so a failed write is logged rather than
// turned into a command failure.
func (c *Controller) appendEvent(ctx context.Context, op string, e *md.DeviceEvent) {
	if err := c.repo.AppendDeviceEvent(ctx, e); err != nil {
		zap.L().Error(
			"failed to append device event",
			zap.String("op", op),
			zap.String("kind", string(e.Kind)),
			zap.String("deviceId", e.DeviceID.String()),
			zap.Error(err),
		)
	}
}
