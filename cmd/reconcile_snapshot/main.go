package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/appealsync-backend/internal/app"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

// Runs one bulk snapshot pass against the configured upstream and exits.
func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 15*time.Minute, "abort the pass after this long")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := application.Services.Engine.ReconcileSnapshot(dbctx.Context{Ctx: ctx})
	if err != nil {
		fmt.Printf("reconcile snapshot: %v\n", err)
		application.Close()
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}
