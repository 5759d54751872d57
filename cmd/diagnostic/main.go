// File: cmd/diagnostic/main.go
//
// diagnostic checks that the chat API answers every endpoint with the shape
// the front-ends expect.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iyunix/go-chatfront/internal/config"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/api"
)

func main() {
	send := flag.String("send", "", "also send this text (adds two messages to the history)")
	model := flag.String("model", "", "model id used with -send (default: first listed)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	cfg := config.Load()
	hostname := config.Hostname()

	client, err := api.NewClient(&api.Config{
		BaseURL: config.ResolveBaseURL(cfg.APIBaseOverride, hostname),
		Origin:  api.DefaultOrigin(hostname),
	}, services.NewLogger("diagnostic"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🔎 Checking %s\n", client.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	failed := 0
	check := func(name string, res *api.Result, err error, detail string) {
		switch {
		case err != nil:
			failed++
			fmt.Printf("❌ %-14s %v\n", name, err)
		case !res.Success:
			failed++
			fmt.Printf("❌ %-14s HTTP %d %s\n", name, res.HTTPStatus, describe(res))
		default:
			fmt.Printf("✅ %-14s HTTP %d %s\n", name, res.HTTPStatus, detail)
		}
	}

	models, err := client.ListModels(ctx)
	if err == nil {
		check("models", &models.Result, nil, fmt.Sprintf("%d models", len(models.Models)))
	} else {
		check("models", nil, err, "")
	}

	msgs, err := client.ListMessages(ctx)
	if err == nil {
		check("messages", &msgs.Result, nil, fmt.Sprintf("%d messages", len(msgs.Messages)))
	} else {
		check("messages", nil, err, "")
	}

	stats, err := client.GetStats(ctx)
	if err == nil {
		check("stats", &stats.Result, nil, fmt.Sprintf("%d msgs, %d tokens", stats.TotalMessages, stats.TotalTokens))
	} else {
		check("stats", nil, err, "")
	}

	if *send != "" {
		m := *model
		if m == "" && models != nil && len(models.Models) > 0 {
			m = models.Models[0].ID
		}
		res, err := client.SendMessage(ctx, *send, m)
		if err == nil {
			detail := "empty history"
			if n := len(res.Messages); n > 0 {
				last := res.Messages[n-1]
				detail = fmt.Sprintf("%s replied (%d tokens): %.60q", last.Author(), last.TokenCount(), last.Text)
			}
			check("send", &res.Result, nil, detail)
		} else {
			check("send", nil, err, "")
		}
	}

	if failed > 0 {
		fmt.Printf("🛑 %d check(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("🎉 All checks passed")
}

func describe(res *api.Result) string {
	if res.Error != "" {
		return res.Error
	}
	if res.Raw != "" {
		return fmt.Sprintf("non-JSON body: %.80q", res.Raw)
	}
	return "success=false"
}
