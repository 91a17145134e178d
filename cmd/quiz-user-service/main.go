package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quizbank/internal/userclient"
)

func main() {
	defaultServer := os.Getenv("QUIZ_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://127.0.0.1:8080"
	}

	server := flag.String("server", defaultServer, "quiz-service base URL")
	maxInvalid := flag.Int("max-invalid", 3, "invalid answers before a question is skipped")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP request timeout")
	flag.Parse()

	cfg := userclient.Config{
		ServerURL:         *server,
		MaxInvalidAnswers: *maxInvalid,
		HTTPTimeout:       *timeout,
	}
	if err := userclient.Run(context.Background(), os.Stdin, os.Stdout, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
