package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/stockwise/backend/pkg/config"
	"github.com/stockwise/backend/pkg/httputil"
	"github.com/stockwise/backend/pkg/logger"
)

// Example_basic demonstrates basic HTTP client usage
func Example_basic() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	// Create HTTP client
	client := httputil.New(cfg, log)

	// Make GET request
	ctx := context.Background()
	resp, err := client.Get(ctx, "https://api.example.com/data")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}

// Example_withRetry demonstrates retry configuration
func Example_withRetry() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	// Create client with custom retry settings
	client := httputil.New(cfg, log).
		WithRetry(5, 2*time.Second) // 5 retries, 2s initial delay

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://api.example.com/data")
	if err != nil {
		fmt.Printf("Request failed after retries: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println("Request succeeded")
}

// Example_postJSON demonstrates JSON POST requests
func Example_postJSON() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	client := httputil.New(cfg, log)

	// Prepare JSON data
	data := map[string]interface{}{
		"features": []float64{54.2, 2815.1, 2640.8},
	}

	// Send POST request with JSON body
	ctx := context.Background()
	resp, err := client.PostJSON(ctx, "https://predictor.example.com/predict", data)
	if err != nil {
		fmt.Printf("POST request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Prediction returned: %d\n", resp.StatusCode)
}
