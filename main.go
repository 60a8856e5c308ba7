package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/tasks-service/config"
	"github.com/example/tasks-service/modules/activity"
	"github.com/example/tasks-service/modules/api"
	"github.com/example/tasks-service/modules/todo"
)

func main() {
	log.Println("=== Tasks Service - Groups, Todos and Subtasks ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// Order: independent modules first, then modules with dependencies
	app.Register(activity.NewModule(logger))                     // Event consumer (todo events)
	app.Register(todo.NewModule(cfg.Database, cfg.Todo, logger)) // Core domain (store, emits events)
	app.Register(api.NewModule(cfg.HTTP, logger))                // Driving adapter (depends on todo)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Database: %s (subtask delete policy: %s)", cfg.Database.Driver, cfg.Todo.SubtaskDeletePolicy)
	log.Println("")
	log.Printf("REST API Endpoints (%s):", cfg.HTTP.Addr)
	log.Println("  POST   /create/groups/              - Create a group")
	log.Println("  GET    /list/groups/                - List groups with their todos")
	log.Println("  GET    /get/groups/:group_id        - Get a group")
	log.Println("  DELETE /delete/groups/:group_id     - Delete a group and its todos")
	log.Println("  POST   /create/todos/               - Create a todo or subtask")
	log.Println("  GET    /list/todos/                 - List todos")
	log.Println("  GET    /get/grouped/todos           - List groups with their todos")
	log.Println("  GET    /get/todos/:todo_id          - Get a todo with its subtasks")
	log.Println("  PUT    /update/todos/:todo_id       - Partially update a todo")
	log.Println("  DELETE /delete/todos/:todo_id       - Delete a todo")
	log.Println("  GET    /health                      - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
