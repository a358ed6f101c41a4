package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/appealsync-backend/internal/app"
	"github.com/yungbote/appealsync-backend/internal/transport/streams"
)

func main() {
	var stream string
	var limit int64
	flag.StringVar(&stream, "stream", "", "source stream whose :dead entries are replayed")
	flag.Int64Var(&limit, "limit", 100, "max entries to replay")
	flag.Parse()

	stream = strings.TrimSpace(stream)
	if stream == "" {
		fmt.Println("-stream is required")
		os.Exit(2)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if application.Clients.Redis == nil {
		fmt.Println("REDIS_ADDR not set")
		application.Close()
		os.Exit(1)
	}
	n, err := streams.ReplayDead(context.Background(), application.Clients.Redis, stream, limit)
	if err != nil {
		fmt.Printf("replay %s: %v\n", stream, err)
		application.Close()
		os.Exit(1)
	}
	fmt.Printf("replayed %d entries onto %s\n", n, stream)
}
