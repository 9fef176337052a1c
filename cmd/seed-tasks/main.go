// seed-tasks creates the task table and loads it from a JSON task file.
package main

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"task-manager/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("task seeding starting")

	connStr := os.Getenv("STORAGE_CONNECTION_STRING")
	if connStr == "" {
		log.Fatal("missing STORAGE_CONNECTION_STRING")
	}
	table := os.Getenv("TASKS_TABLE")
	if table == "" {
		log.Fatal("missing TASKS_TABLE")
	}
	file := os.Getenv("TASKS_FILE")
	if file == "" {
		file = "data/tasks.json"
	}

	ctx := context.Background()

	tasks, err := storage.NewFileStore(file, log.StandardLogger()).FetchTasks(ctx)
	if err != nil {
		log.Fatalf("read tasks: %v", err)
	}

	store, err := storage.NewTableStore(connStr, table)
	if err != nil {
		log.Fatalf("table client: %v", err)
	}
	if err := store.EnsureTable(ctx); err != nil {
		log.Fatalf("create table: %v", err)
	}
	if err := store.PutTasks(ctx, tasks); err != nil {
		log.Fatalf("write tasks: %v", err)
	}

	log.WithFields(log.Fields{"table": table, "tasks": len(tasks)}).Info("task seeding complete")
}
