package datagram

import (
	"net"
	"time"
)

// UDPChannel is a Channel backed by a real kernel UDP socket, bound to a
// local address and connected to a fixed remote address exactly as
// original_source's UDPBasedProtocol binds a SOCK_DGRAM socket and stashes
// the peer address for every subsequent sendto.
type UDPChannel struct {
	conn *net.UDPConn
}

// DialUDP binds localAddr and fixes remoteAddr as the channel's only peer.
// Both are IPv4 (or IPv6) host:port pairs, as accepted by net.ResolveUDPAddr
// (spec.md §6: "Addresses are IPv4 host-port pairs as accepted by the
// underlying datagram layer").
func DialUDP(localAddr, remoteAddr string) (*UDPChannel, error) {
	local, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, err
	}
	remote, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return nil, err
	}
	// DialUDP rather than ListenUDP+WriteTo: fixing the peer lets the
	// kernel filter datagrams from anyone else, and every send already
	// targets the one peer spec.md's data model assumes.
	conn, err := net.DialUDP("udp", local, remote)
	if err != nil {
		return nil, err
	}
	return &UDPChannel{conn: conn}, nil
}

// SendTo implements Channel.
func (c *UDPChannel) SendTo(b []byte) (int, error) {
	// The send path never suspends on a deadline set by a prior receive
	// (spec.md §4.4). On *net.UDPConn read and write deadlines are
	// independent, so the read deadline RecvFrom sets never applies to
	// writes; the write deadline is still cleared before every send.
	if err := c.conn.SetWriteDeadline(time.Time{}); err != nil {
		return 0, err
	}
	return c.conn.Write(b)
}

// RecvFrom implements Channel.
func (c *UDPChannel) RecvFrom(buf []byte, timeout time.Duration) (int, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	return c.conn.Read(buf)
}

// Close implements Channel.
func (c *UDPChannel) Close() error {
	return c.conn.Close()
}
