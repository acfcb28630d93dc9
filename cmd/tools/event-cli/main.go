package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/voxel-engine/internal/eventbus"
)

const (
	defaultServerAddr = "http://localhost:8088"
	timeFormat        = "2006-01-02T15:04:05Z"
)

func main() {
	var (
		serverAddr = flag.String("server", defaultServerAddr, "Адрес отладочного REST API")
		command    = flag.String("cmd", "tail", "Command: tail, stats, types")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		sources    = flag.String("sources", "", "Sources filter (comma-separated)")
		since      = flag.String("since", "1h", "Time duration since now (e.g., 1h, 30m)")
		limit      = flag.Int("limit", 100, "Maximum number of events")
		follow     = flag.Bool("follow", false, "Follow new events (like tail -f)")
		interval   = flag.Duration("interval", time.Second, "Polling interval in follow mode")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := NewClient(*serverAddr)
	from, err := parseSinceTime(*since, time.Now())
	if err != nil {
		log.Fatalf("❌ invalid since time: %v", err)
	}
	filter := eventbus.Filter{Types: parseStringList(*eventTypes), Sources: parseStringList(*sources)}

	switch *command {
	case "tail":
		err = tailEvents(ctx, client, &TailOptions{
			Filter:   filter,
			Since:    from,
			Limit:    *limit,
			Follow:   *follow,
			Interval: *interval,
		})
	case "stats":
		err = showStats(ctx, client, filter, from)
	case "types":
		err = showTypes(ctx, client, from)
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, stats, types")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}

type TailOptions struct {
	Filter   eventbus.Filter
	Since    time.Time
	Limit    int
	Follow   bool
	Interval time.Duration
}

// tailEvents выводит события; в режиме follow опрашивает сервер до отмены ctx
func tailEvents(ctx context.Context, client *Client, opts *TailOptions) error {
	fmt.Printf("🎬 Tailing events (limit: %d, follow: %v)\n", opts.Limit, opts.Follow)

	seen := make(map[string]bool)
	eventCount := 0
	for {
		evs, err := client.Events(ctx, "")
		if err != nil {
			return err
		}
		for _, ev := range selectEvents(evs, opts.Filter, opts.Since) {
			if seen[ev.ID] {
				continue
			}
			seen[ev.ID] = true
			printEvent(ev)
			eventCount++
			if !opts.Follow && eventCount >= opts.Limit {
				break
			}
		}

		if !opts.Follow {
			break
		}
		select {
		case <-ctx.Done():
			fmt.Printf("\n📊 Total events: %d\n", eventCount)
			return nil
		case <-time.After(opts.Interval):
		}
	}

	fmt.Printf("\n📊 Total events: %d\n", eventCount)
	return nil
}

// showStats выводит число событий по типам
func showStats(ctx context.Context, client *Client, filter eventbus.Filter, since time.Time) error {
	evs, err := client.Events(ctx, "")
	if err != nil {
		return err
	}
	evs = selectEvents(evs, filter, since)

	fmt.Println("📊 Event statistics")
	fmt.Printf("Since: %s\n", since.UTC().Format(timeFormat))
	fmt.Printf("Total events: %d\n", len(evs))
	fmt.Println("\nBy event type:")
	for _, s := range countByType(evs) {
		fmt.Printf("  %s: %d events\n", s.Type, s.Count)
	}
	return nil
}

// showTypes выводит встреченные типы событий
func showTypes(ctx context.Context, client *Client, since time.Time) error {
	evs, err := client.Events(ctx, "")
	if err != nil {
		return err
	}
	fmt.Println("📋 Available event types")
	for _, s := range countByType(selectEvents(evs, eventbus.Filter{}, since)) {
		fmt.Printf("Type: %s\n", s.Type)
		fmt.Printf("  Count: %d\n", s.Count)
		fmt.Printf("  Sources: %v\n", s.Sources)
		fmt.Printf("  First seen: %s\n", s.First.Format(timeFormat))
		fmt.Printf("  Last seen: %s\n", s.Last.Format(timeFormat))
		fmt.Println()
	}
	return nil
}

// TypeStats сводка по одному типу событий
type TypeStats struct {
	Type        string
	Count       int
	Sources     []string
	First, Last time.Time
}

func countByType(evs []*eventbus.Envelope) []TypeStats {
	byType := make(map[string]*TypeStats)
	for _, ev := range evs {
		s, ok := byType[ev.EventType]
		if !ok {
			s = &TypeStats{Type: ev.EventType, First: ev.Timestamp}
			byType[ev.EventType] = s
		}
		s.Count++
		s.Last = ev.Timestamp
		if !containsString(s.Sources, ev.Source) {
			s.Sources = append(s.Sources, ev.Source)
		}
	}

	out := make([]TypeStats, 0, len(byType))
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// selectEvents оставляет события, подходящие под фильтр и не старше since
func selectEvents(evs []*eventbus.Envelope, f eventbus.Filter, since time.Time) []*eventbus.Envelope {
	out := make([]*eventbus.Envelope, 0, len(evs))
	for _, ev := range evs {
		if ev.Timestamp.Before(since) {
			continue
		}
		if len(f.Types) > 0 && !containsString(f.Types, ev.EventType) {
			continue
		}
		if len(f.Sources) > 0 && !containsString(f.Sources, ev.Source) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// printEvent выводит событие в читаемом формате
func printEvent(ev *eventbus.Envelope) {
	fmt.Printf("[%s] %s [%s] %s\n", ev.Timestamp.Format("15:04:05"), ev.Source, ev.EventType, ev.ID)
	if len(ev.Payload) > 0 {
		fmt.Printf("  %s\n", ev.Payload)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parseStringList парсит строку с разделителями-запятыми
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseSinceTime парсит относительное время типа "1h", "30m"
func parseSinceTime(since string, from time.Time) (time.Time, error) {
	if since == "" {
		return time.Time{}, nil
	}

	duration, err := time.ParseDuration(since)
	if err != nil {
		// Пробуем парсить как абсолютное время
		return time.Parse(timeFormat, since)
	}

	return from.Add(-duration), nil
}
