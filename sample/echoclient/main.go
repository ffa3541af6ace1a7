// Command echoclient is the counterpart to echosrv: it reads lines from
// stdin, sends each one over a reliudp Stream, and prints back whatever the
// server echoes. Like echosrv, it exists only to drive Stream over real
// sockets; it is not part of the reliudp library.
package main

import (
	"bufio"
	"fmt"
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
		log.Fatalf("echoclient: DialUDP failed: %v", err)
	}
	defer channel.Close()

	s := reliudp.NewStream(channel)
	defer s.Close()

	log.Printf("echoclient: %s -> %s, type lines to echo", localAddr, remoteAddr)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := append(scanner.Bytes(), '\n')
		if _, err := s.Send(line); err != nil {
			log.Fatalf("echoclient: Send failed: %v", err)
		}

		got := make([]byte, 0, len(line))
		for len(got) < len(line) {
			chunk, err := s.Recv(len(line) - len(got))
			if err != nil {
				log.Fatalf("echoclient: Recv failed: %v", err)
			}
			got = append(got, chunk...)
		}
		fmt.Printf("echo: %s", got)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("echoclient: stdin read failed: %v", err)
	}
}
