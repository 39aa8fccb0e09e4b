// cmd/dccid/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trackworks/dccid/internal/config"
	"github.com/trackworks/dccid/internal/history"
	"github.com/trackworks/dccid/internal/identify"
	"github.com/trackworks/dccid/internal/prog"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: dccid <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Build the register access port
	// --------------------

	port, closePort, err := prog.Build(cfg.Identify)
	if err != nil {
		log.Fatalf("port build failed (driver=%s): %v", cfg.Identify.Driver, err)
	}
	defer func() {
		if err := closePort(); err != nil {
			log.Printf("port close failed: %v", err)
		}
	}()

	// --------------------
	// Run identification
	// --------------------

	res, err := identify.Run(ctx, port, consoleSink{})
	if err != nil {
		log.Fatalf("identification failed: %v", err)
	}

	// --------------------
	// Journal the result (optional)
	// --------------------

	if path := cfg.Identify.History.Path; path != "" {
		j, err := history.Open(path)
		if err != nil {
			log.Printf("history open failed: %v", err)
			return
		}
		defer j.Close()

		if err := j.Append(history.NewRecord(res)); err != nil {
			log.Printf("history append failed: %v", err)
		}
	}
}

// consoleSink prints identification progress and the final result.
type consoleSink struct{}

func (consoleSink) Progress(msg string) {
	log.Printf("identify: %s", msg)
}

func (consoleSink) Done(res identify.Result) {
	product := "none"
	if res.HasProductID {
		product = fmt.Sprintf("%d", res.ProductID)
	}
	log.Printf("identified: manufacturer=%s (code=%d) model=%d productID=%s",
		res.Manufacturer, res.ManufacturerCode, res.ModelCode, product)
}
