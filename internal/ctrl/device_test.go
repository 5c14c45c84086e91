package ctrl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/niposch/wake-on-lan-web/internal/repo/s3"
	"github.com/niposch/wake-on-lan-web/internal/wol"
	"github.com/niposch/wake-on-lan-web/tests/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string { return &s }

// expectPatternInvalidation synchronizes with the async cache sweep so
// the mock controller never sees a call after test cleanup.
func expectPatternInvalidation(t *testing.T, mockCache *mocks.MockCacheService) {
	done := make(chan struct{})
	mockCache.EXPECT().
		InvalidateKeysByPattern(gomock.Any(), "device*").
		Do(func(context.Context, string) { close(done) })

	t.Cleanup(
		func() {
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Error("cache invalidation never ran")
			}
		},
	)
}

func TestController_GetDevice(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	device := &md.Device{
		ID:            id,
		Name:          "nas",
		MAC:           "AA:BB:CC:DD:EE:FF",
		IP:            strPtr("192.168.1.10"),
		BroadcastAddr: "192.168.1.255",
		IsOnline:      true,
	}

	t.Run(
		"CacheMiss", func(t *testing.T) {
			c, _, _, mockRepo, mockCache, _, _, _ := newTestController(t)

			mockCache.EXPECT().
				GetToStruct(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(errors.New("cache miss"))
			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(device, nil)
			mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

			res, err := c.GetDevice(ctx, id)
			assert.NoError(t, err)
			assert.Equal(t, "nas", res.Name)
			assert.Equal(t, md.StatusOnline, res.Status)
		},
	)

	t.Run(
		"CacheHit", func(t *testing.T) {
			c, _, _, _, mockCache, _, _, _ := newTestController(t)

			mockCache.EXPECT().
				GetToStruct(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil)

			_, err := c.GetDevice(ctx, id)
			assert.NoError(t, err)
		},
	)

	t.Run(
		"NotFound", func(t *testing.T) {
			c, _, _, mockRepo, mockCache, _, _, _ := newTestController(t)

			mockCache.EXPECT().
				GetToStruct(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(errors.New("cache miss"))
			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(nil, repo.ErrNotFound)

			_, err := c.GetDevice(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound)
		},
	)
}

func TestController_CreateDevice(t *testing.T) {
	ctx := context.Background()

	t.Run(
		"MalformedMACRejectedBeforeRepo", func(t *testing.T) {
			c, _, _, _, _, _, _, _ := newTestController(t)

			_, err := c.CreateDevice(
				ctx, &dto.CreateDeviceRequest{Name: "nas", MAC: "not-a-mac"}, nil,
			)
			assert.ErrorIs(t, err, wol.ErrInvalidMAC)
		},
	)

	t.Run(
		"DefaultBroadcastApplied", func(t *testing.T) {
			c, _, _, mockRepo, mockCache, _, _, _ := newTestController(t)

			id := uuid.New()
			mockRepo.EXPECT().
				CreateDevice(gomock.Any(), gomock.Any()).
				DoAndReturn(
					func(_ context.Context, req *dto.CreateDeviceRequest) (uuid.UUID, error) {
						assert.Equal(t, "255.255.255.255", req.BroadcastAddr)
						return id, nil
					},
				)
			expectPatternInvalidation(t, mockCache)

			res, err := c.CreateDevice(
				ctx, &dto.CreateDeviceRequest{Name: "nas", MAC: "AA:BB:CC:DD:EE:FF"}, nil,
			)
			assert.NoError(t, err)
			assert.Equal(t, id, res.ID)
		},
	)

	t.Run(
		"IconUploaded", func(t *testing.T) {
			c, _, _, mockRepo, mockCache, mockS3, _, _ := newTestController(t)

			id := uuid.New()
			file := &s3.UploadFileRequest{
				Name:        "icon.png",
				ContentType: "image/png",
				File:        []byte{0x89, 0x50},
			}

			mockRepo.EXPECT().CreateDevice(gomock.Any(), gomock.Any()).Return(id, nil)
			mockS3.EXPECT().
				UploadFile(gomock.Any(), file).
				Return("http://minio/icons/icon.png", nil)
			mockRepo.EXPECT().
				SetDeviceIcon(gomock.Any(), id, "http://minio/icons/icon.png").
				Return(nil)
			expectPatternInvalidation(t, mockCache)

			_, err := c.CreateDevice(
				ctx,
				&dto.CreateDeviceRequest{Name: "nas", MAC: "AA:BB:CC:DD:EE:FF"},
				file,
			)
			assert.NoError(t, err)
		},
	)
}

func TestController_DeleteDevice(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run(
		"Success", func(t *testing.T) {
			c, _, _, mockRepo, mockCache, _, _, _ := newTestController(t)

			mockRepo.EXPECT().DeleteDevice(gomock.Any(), id).Return(nil)
			mockCache.EXPECT().Delete(gomock.Any(), gomock.Any())
			expectPatternInvalidation(t, mockCache)

			assert.NoError(t, c.DeleteDevice(ctx, id))
		},
	)

	t.Run(
		"NotFound", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().DeleteDevice(gomock.Any(), id).Return(repo.ErrNotFound)

			assert.ErrorIs(t, c.DeleteDevice(ctx, id), ErrNotFound)
		},
	)
}

func TestController_SendWake(t *testing.T) {
	ctx := context.Background()
	id, actor := uuid.New(), uuid.New()

	device := &md.Device{
		ID:            id,
		Name:          "nas",
		MAC:           "AA:BB:CC:DD:EE:FF",
		BroadcastAddr: "192.168.1.255",
	}

	t.Run(
		"Success", func(t *testing.T) {
			c, _, _, mockRepo, _, _, mockWake, _ := newTestController(t)

			expected := wol.NewMagicPacket([6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})

			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(device, nil)
			mockWake.EXPECT().
				Send(gomock.Any(), expected, "192.168.1.255", 9).
				Return(nil)
			mockRepo.EXPECT().
				AppendDeviceEvent(gomock.Any(), gomock.Any()).
				DoAndReturn(
					func(_ context.Context, e *md.DeviceEvent) error {
						assert.Equal(t, md.EventWake, e.Kind)
						assert.Equal(t, id, e.DeviceID)
						assert.Equal(t, actor, *e.ActorID)
						return nil
					},
				)

			assert.NoError(t, c.SendWake(ctx, id, actor))
		},
	)

	t.Run(
		"EmptyBroadcastFallsBackToLimited", func(t *testing.T) {
			c, _, _, mockRepo, _, _, mockWake, _ := newTestController(t)

			noAddr := *device
			noAddr.BroadcastAddr = ""

			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(&noAddr, nil)
			mockWake.EXPECT().
				Send(gomock.Any(), gomock.Any(), "255.255.255.255", 9).
				Return(nil)
			mockRepo.EXPECT().AppendDeviceEvent(gomock.Any(), gomock.Any()).Return(nil)

			assert.NoError(t, c.SendWake(ctx, id, actor))
		},
	)

	t.Run(
		"MalformedStoredMAC", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			bad := *device
			bad.MAC = "garbage"
			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(&bad, nil)

			assert.ErrorIs(t, c.SendWake(ctx, id, actor), wol.ErrInvalidMAC)
		},
	)

	t.Run(
		"EventWriteFailureDoesNotFailCommand", func(t *testing.T) {
			c, _, _, mockRepo, _, _, mockWake, _ := newTestController(t)

			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(device, nil)
			mockWake.EXPECT().
				Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil)
			mockRepo.EXPECT().
				AppendDeviceEvent(gomock.Any(), gomock.Any()).
				Return(errors.New("db down"))

			assert.NoError(t, c.SendWake(ctx, id, actor))
		},
	)

	t.Run(
		"NotFound", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(nil, repo.ErrNotFound)

			assert.ErrorIs(t, c.SendWake(ctx, id, actor), ErrNotFound)
		},
	)
}

func TestController_SendShutdown(t *testing.T) {
	ctx := context.Background()
	id, actor := uuid.New(), uuid.New()

	device := &md.Device{
		ID:           id,
		Name:         "desktop",
		MAC:          "AA:BB:CC:DD:EE:FF",
		IP:           strPtr("192.168.1.20"),
		AgentEnabled: true,
	}

	t.Run(
		"Success", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, mockAgent := newTestController(t)

			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(device, nil)
			mockAgent.EXPECT().Shutdown(gomock.Any(), "192.168.1.20").Return(nil)
			mockRepo.EXPECT().
				AppendDeviceEvent(gomock.Any(), gomock.Any()).
				DoAndReturn(
					func(_ context.Context, e *md.DeviceEvent) error {
						assert.Equal(t, md.EventShutdown, e.Kind)
						return nil
					},
				)

			assert.NoError(t, c.SendShutdown(ctx, id, actor))
		},
	)

	t.Run(
		"AgentDisabled", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			disabled := *device
			disabled.AgentEnabled = false
			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(&disabled, nil)

			assert.ErrorIs(t, c.SendShutdown(ctx, id, actor), ErrAgentDisabled)
		},
	)

	t.Run(
		"NoIPAddress", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			noIP := *device
			noIP.IP = nil
			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(&noIP, nil)

			assert.ErrorIs(t, c.SendShutdown(ctx, id, actor), ErrNoIPAddress)
		},
	)

	t.Run(
		"AgentFailureSkipsEvent", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, mockAgent := newTestController(t)

			boom := errors.New("agent unreachable")
			mockRepo.EXPECT().GetDevice(gomock.Any(), id).Return(device, nil)
			mockAgent.EXPECT().Shutdown(gomock.Any(), "192.168.1.20").Return(boom)

			assert.ErrorIs(t, c.SendShutdown(ctx, id, actor), boom)
		},
	)
}
