package datagram_test

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sorairo/reliudp/datagram"
)

func TestUDPChannelLoopbackRoundTrip(t *testing.T) {
	// Discover each side's ephemeral port first (DialUDP fixes the peer at
	// dial time, same as a real deployment where both addresses are known
	// upfront), then dial both ends knowing the other's address.
	aProbe, err := net.ListenUDP("udp", nil)
	if err != nil {
		t.Fatalf("probe a: %v", err)
	}
	aAddr := aProbe.LocalAddr().String()
	aProbe.Close()

	bProbe, err := net.ListenUDP("udp", nil)
	if err != nil {
		t.Fatalf("probe b: %v", err)
	}
	bAddr := bProbe.LocalAddr().String()
	bProbe.Close()

	a, err := datagram.DialUDP(aAddr, bAddr)
	if err != nil {
		t.Fatalf("DialUDP a: %v", err)
	}
	defer a.Close()

	b, err := datagram.DialUDP(bAddr, aAddr)
	if err != nil {
		t.Fatalf("DialUDP b: %v", err)
	}
	defer b.Close()

	if _, err := a.SendTo([]byte("ping")); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	buf := make([]byte, 16)
	n, err := b.RecvFrom(buf, time.Second)
	if err != nil {
		t.Fatalf("RecvFrom: %v", err)
	}
	if string(buf[:n]) != "ping" {
		t.Fatalf("RecvFrom = %q, want %q", buf[:n], "ping")
	}
}

func TestUDPChannelRecvTimeout(t *testing.T) {
	a, err := datagram.DialUDP("127.0.0.1:0", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer a.Close()

	buf := make([]byte, 16)
	_, err = a.RecvFrom(buf, 10*time.Millisecond)
	if err == nil {
		t.Fatal("RecvFrom with nothing sent should time out")
	}
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Fatalf("RecvFrom error = %v, want a timeout net.Error", err)
	}
}
