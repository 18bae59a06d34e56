// Command demo wires the frame parser to a bare TCP listener: the
// minimal external-collaborator seam described alongside the core
// (accept a connection, read into the chunk stream, print what comes
// out). It performs no response writing, no routing, no TLS — all of
// that sits outside what this module covers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/httpframe/httpframe/config"
	"github.com/httpframe/httpframe/debugtrace"
	"github.com/httpframe/httpframe/frame"
)

var addr = flag.String("addr", "localhost:9090", "address to listen on")

func main() {
	flag.Parse()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}
	defer ln.Close()

	fmt.Println("listening on", *addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("accept:", err)
			continue
		}

		go handle(conn)
	}
}

func handle(conn net.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks := make(chan []byte)
	go readLoop(ctx, conn, chunks)

	cfg := config.Default()
	trace := debugtrace.New(true)
	p := frame.New(frame.RoleServer, cfg, trace)

	for res := range p.Parse(ctx, chunks) {
		if res.Err != nil {
			log.Println("parse error:", res.Err)
			return
		}

		req := res.Msg.Request
		fmt.Printf("%s %s %s\n", req.Method, req.RequestURI, req.Protocol)
		res.Msg.Headers.Each(func(name, value string) {
			fmt.Printf("  %s: %s\n", name, value)
		})

		for ev := range res.Msg.Body.Events() {
			fmt.Printf("  body: %q\n", ev.Data)
		}
		if err := res.Msg.Body.Err(); err != nil {
			log.Println("body error:", err)
			return
		}
	}
}

func readLoop(ctx context.Context, conn net.Conn, chunks chan<- []byte) {
	defer close(chunks)

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}
