package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

var ErrInvalidIP = errors.New("invalid ip address")

// Result is the outcome of a single reachability probe. A probe that
// times out is a normal unreachable result, not an error.
type Result struct {
	Reachable bool
	Latency   time.Duration
}

// Pinger is safe for concurrent use; one instance serves the whole
// monitor fan-out.
type Pinger struct {
	seq atomic.Uint32
}

func NewPinger() *Pinger {
	return &Pinger{}
}

func (p *Pinger) nextSeq() int {
	return int(p.seq.Add(1)) & 0xffff
}

// Probe sends one ICMP echo request and waits for the matching reply.
// It uses unprivileged datagram ICMP sockets; if the host forbids those
// (see net.ipv4.ping_group_range on Linux) the error is returned so the
// caller can tell an unusable probe mechanism apart from a silent host.
func (p *Pinger) Probe(ctx context.Context, ip string, timeout time.Duration) (Result, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return Result{}, ErrInvalidIP
	}

	network, icmpType := "udp4", icmp.Type(ipv4.ICMPTypeEcho)
	listen := "0.0.0.0"
	if addr.To4() == nil {
		network, icmpType = "udp6", ipv6.ICMPTypeEchoRequest
		listen = "::"
	}

	conn, err := icmp.ListenPacket(network, listen)
	if err != nil {
		return Result{}, err
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err = conn.SetDeadline(deadline); err != nil {
		return Result{}, err
	}

	echo := &icmp.Echo{
		ID:   os.Getpid() & 0xffff,
		Seq:  p.nextSeq(),
		Data: []byte("wake-on-lan-web probe"),
	}

	msg, err := (&icmp.Message{Type: icmpType, Body: echo}).Marshal(nil)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	if _, err = conn.WriteTo(msg, &net.UDPAddr{IP: addr}); err != nil {
		if isTimeout(err) {
			return Result{}, nil
		}
		return Result{}, err
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if isTimeout(err) {
				return Result{}, nil
			}
			return Result{}, err
		}

		if !peerMatches(peer, addr) {
			continue
		}

		reply, err := icmp.ParseMessage(protoFor(addr), buf[:n])
		if err != nil {
			continue
		}

		body, ok := reply.Body.(*icmp.Echo)
		if !ok || body.Seq != echo.Seq {
			continue
		}

		return Result{Reachable: true, Latency: time.Since(start)}, nil
	}
}

func protoFor(addr net.IP) int {
	if addr.To4() != nil {
		return ipv4.ICMPTypeEchoReply.Protocol()
	}

	return ipv6.ICMPTypeEchoReply.Protocol()
}

func peerMatches(peer net.Addr, addr net.IP) bool {
	udp, ok := peer.(*net.UDPAddr)
	if !ok {
		return false
	}

	return udp.IP.Equal(addr)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
