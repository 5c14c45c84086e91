package wol

import (
	"context"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Broadcaster hands magic packets to the network layer as single UDP
// datagrams. Delivery is fire-and-forget: the protocol carries no
// acknowledgment, so a nil error only means the datagram was sent.
type Broadcaster struct{}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

func (b *Broadcaster) Send(ctx context.Context, pkt MagicPacket, addr string, port int) error {
	const op = "wol.Send.broadcast"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return ErrInvalidBroadcastAddr
	}

	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return err
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		zap.L().Error("failed to open udp socket", zap.String("op", op), zap.Error(err))
		return err
	}
	defer conn.Close()

	if err = enableBroadcast(conn); err != nil {
		zap.L().Error("failed to enable broadcast", zap.String("op", op), zap.Error(err))
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err = conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	} else {
		if err = conn.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
			return err
		}
	}

	if _, err = conn.WriteToUDP(pkt[:], dst); err != nil {
		zap.L().Error(
			"failed to send magic packet",
			zap.String("op", op),
			zap.String("addr", dst.String()),
			zap.Error(err),
		)

		return err
	}

	zap.L().Debug(
		"magic packet sent",
		zap.String("addr", dst.String()),
	)

	return nil
}

// enableBroadcast sets SO_BROADCAST on the socket; without it the kernel
// rejects sends to broadcast-class addresses.
func enableBroadcast(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	err = raw.Control(
		func(fd uintptr) {
			sockErr = syscall.SetsockoptInt(
				int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1,
			)
		},
	)
	if err != nil {
		return err
	}

	return sockErr
}
