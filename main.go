package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/sdk/config"
	"github.com/capforge/capsolve/sdk/event"
	"github.com/capforge/capsolve/sdk/solve"
)

func main() {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived termination signal. Shutting down...")
		cancel()
	}()

	// The token to solve; pass one as the first argument to override
	token := "demo-token"
	if len(os.Args) > 1 {
		token = os.Args[1]
	}

	// Create a solve client with default tuning and no persistence
	client, err := solve.NewClient(ctx, config.Config{}, nil, nil)
	if err != nil {
		log.Fatalf("Failed to create solve client: %v", err)
	}

	// Ensure client is closed when program exits
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := client.Close(closeCtx); err != nil {
			log.Printf("Error closing client: %v", err)
		}
	}()

	// Print every task event as it happens
	client.SubscribeToAllEvents(func(e event.Event) {
		fmt.Printf("[%s] task=%s %v\n", e.Type, e.TaskID, e.Data)
	})

	// Start solving a small batch
	taskID, err := client.StartSolve(ctx, token, capkit.ParamSpec{
		Count:      3,
		SaltLength: 16,
		Difficulty: 3,
	})
	if err != nil {
		log.Fatalf("Failed to start solve task: %v", err)
	}

	fmt.Printf("Solving token %q in task %s\n", token, taskID)

	// Wait for the ordered nonce list
	result, err := client.WaitForResult(ctx, taskID)
	if err != nil {
		log.Fatalf("Solve failed: %v", err)
	}

	payload, err := result.RedeemPayload()
	if err != nil {
		log.Fatalf("Failed to serialize redeem payload: %v", err)
	}

	fmt.Println("\nRedeem payload:")
	fmt.Println(string(payload))
}
