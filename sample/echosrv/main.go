// Command echosrv is a demo reliudp echo server: it accepts one reliable
// byte stream on a fixed local UDP address and echoes back every byte it
// reads, in order. It is not part of the reliudp library; it exists purely
// to exercise Stream end to end over real sockets, the same role the
// teacher's sample/tun_udp_echo program plays for its own transport.
package main

import (
	"log"
	"os"

	"github.com/sorairo/reliudp/reliudp"
	"github.com/sorairo/reliudp/datagram"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatal("Usage: ", os.Args[0], " <local-address> <remote-address>")
	}

	localAddr := os.Args[1]
	remoteAddr := os.Args[2]

	channel, err := datagram.DialUDP(localAddr, remoteAddr)
	if err != nil {
		log.Fatalf("echosrv: DialUDP failed: %v", err)
	}
	defer channel.Close()

	s := reliudp.NewStream(channel)
	defer s.Close()

	log.Printf("echosrv: listening on %s, echoing to %s", localAddr, remoteAddr)

	for {
		data, err := s.Recv(4096)
		if err != nil {
			log.Fatalf("echosrv: Recv failed: %v", err)
		}
		if len(data) == 0 {
			continue
		}
		if _, err := s.Send(data); err != nil {
			log.Fatalf("echosrv: Send failed: %v", err)
		}
	}
}
