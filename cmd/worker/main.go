package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"schoolapp/internal/announcements"
	"schoolapp/internal/config"
	"schoolapp/internal/notifications"
	"schoolapp/internal/queue"
	"schoolapp/internal/store"
	"schoolapp/internal/users"
)

// Worker consumes announcement messages and fans them out as per-user
// notification rows.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "schoolapp:notifications")
	}

	announcementRepo := announcements.NewRepository(db.Client)
	notificationRepo := notifications.NewRepository(db.Client)
	userRepo := users.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeAnnouncement {
			continue
		}

		id, err := strconv.Atoi(string(msg.Body))
		if err != nil {
			log.Printf("bad announcement id %q: %v", msg.Body, err)
			continue
		}

		a, err := announcementRepo.Get(ctx, id)
		if err != nil {
			log.Printf("fetch announcement %d failed: %v", id, err)
			continue
		}

		list, err := userRepo.List(ctx, "")
		if err != nil {
			log.Printf("list users failed: %v", err)
			continue
		}
		userIDs := make([]int, 0, len(list))
		for _, u := range list {
			userIDs = append(userIDs, u.ID)
		}

		if err := notificationRepo.AddForUsers(ctx, a.Title, a.Message, userIDs); err != nil {
			log.Printf("fan-out for announcement %d failed: %v", id, err)
			continue
		}
		log.Printf("announcement %d fanned out to %d users", id, len(userIDs))
	}

	log.Println("worker stopped")
}
