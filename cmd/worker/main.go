package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Misakaaaaaz/Parent-Portal/internal/config"
	"github.com/Misakaaaaaz/Parent-Portal/internal/metrics"
	"github.com/Misakaaaaaz/Parent-Portal/internal/notify"
	"github.com/Misakaaaaaz/Parent-Portal/internal/queue"
	"github.com/Misakaaaaaz/Parent-Portal/internal/store"
)

// Worker consumes queued account notices and delivers them by email.
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

	var q queue.Queue
	switch cfg.QueueBackend {
	case "memory":
		log.Fatal("memory queue cannot be shared with the api process; use redis or amqp")
	case "amqp":
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL, cfg.NotifyQueueKey)
		if err != nil {
			log.Fatalf("amqp connect failed: %v", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
	default:
		redisClient := store.NewRedis(cfg.RedisAddr)
		q = queue.NewRedisQueue(redisClient.Client, cfg.NotifyQueueKey)
	}

	// Delivery counters live in this process, so the worker exposes its own
	// /metrics endpoint; the api's /metrics never sees them.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("metrics listening on :%s", cfg.MetricsPort)
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for notices...")
	for msg := range messages {
		if msg.Type != notify.MessageType {
			continue
		}

		notice, err := notify.Decode(msg.Body)
		if err != nil {
			log.Printf("bad notice payload: %v", err)
			continue
		}

		if err := mailer.Send(notice); err != nil {
			metrics.NoticeDeliveries.WithLabelValues(notice.Kind, "failed").Inc()
			log.Printf("send %s notice to %s failed: %v", notice.Kind, notice.Email, err)
			continue
		}
		metrics.NoticeDeliveries.WithLabelValues(notice.Kind, "ok").Inc()
		log.Printf("sent %s notice to %s", notice.Kind, notice.Email)
	}

	log.Println("worker stopped")
}
