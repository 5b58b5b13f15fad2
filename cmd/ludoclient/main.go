// File: cmd/ludoclient/main.go

// Command ludoclient is a line based terminal client for the ludo server.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/lguibr/asciiring/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/websocket"
)

const usage = `commands:
  join <room> [name]        join or create a room
  start | restart | pass    host start, host restart, end your turn
  roll                      roll the dice for your color
  move <token> <roll>       relay a token move
  kick <connectionId>       host only
  accept|reject <connId>    answer a mid game join request
  say <text>                send a chat interaction
  quit`

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	url := os.Getenv("LUDO_URL")
	if url == "" {
		url = "ws://localhost:3000/subscribe"
	}
	ws, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("error connecting to server")
	}
	defer ws.Close()

	st := &session{}
	helpers.ClearScreen()
	fmt.Println(usage)

	go func() {
		for {
			var frame []byte
			if err := websocket.Message.Receive(ws, &frame); err != nil {
				log.Error().Err(err).Msg("connection closed")
				os.Exit(1)
			}
			fmt.Println(st.observe(frame))
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		_ = ws.Close()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}
		msg, err := st.command(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if err := websocket.JSON.Send(ws, msg); err != nil {
			log.Error().Err(err).Msg("error sending to server")
			return
		}
	}
}
