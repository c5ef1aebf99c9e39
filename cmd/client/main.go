package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gatekv/internal/database/network"

	"go.uber.org/zap"
)

// Every line read from stdin is sent as one request body, e.g.
//
//	{"request": "SET", "key": "a", "value": 42}
//
// An empty line requests the index page.
func main() {
	address := flag.String("address", "localhost:9999", "tcp server address")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client, err := network.NewTCPClient(*address)
	if err != nil {
		logger.Fatal("invalid server address", zap.String("address", *address), zap.Error(err))
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			logger.Error("cannot read request", zap.Error(err))
			return
		}

		body := strings.TrimSpace(line)
		if body != "" || err == nil {
			request := network.NewRequest(*address, body)
			if body == "" {
				request = network.IndexRequest(*address)
			}

			response, execErr := client.Execute(request)
			if execErr != nil {
				logger.Error("cannot execute request",
					zap.String("body", body),
					zap.Error(execErr),
				)
			} else {
				fmt.Println(string(response))
			}
		}

		if errors.Is(err, io.EOF) {
			return
		}
	}
}
