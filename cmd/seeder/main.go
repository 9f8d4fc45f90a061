package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/chatsift"
	"github.com/poiesic/chatsift/core"
)

// seedMessage is one scripted message of the built-in conversation.
type seedMessage struct {
	sender   string
	channel  string
	threadId string
	contents string
	offset   time.Duration
}

// The built-in script mixes plain channel traffic with threaded
// exchanges that end in short replies, so contextual embedding has
// something to chew on out of the box.
var script = []seedMessage{
	{"alice", "engineering", "", "morning folks, starting on the payment service refactor today", 0},
	{"bob", "engineering", "", "the staging database migration finished overnight without errors", 2 * time.Minute},
	{"carol", "engineering", "T100", "proposal: move session storage from redis to the new cache layer", 5 * time.Minute},
	{"bob", "engineering", "T100", "what does that do to cold start latency?", 7 * time.Minute},
	{"carol", "engineering", "T100", "adds about 3ms on first read, nothing after warmup", 9 * time.Minute},
	{"alice", "engineering", "T100", "lgtm", 11 * time.Minute},
	{"bob", "engineering", "T100", "👍", 12 * time.Minute},
	{"dave", "ops", "", "heads up, rotating the TLS certs on the edge proxies at noon", 15 * time.Minute},
	{"erin", "ops", "", "pagerduty schedule for next week is posted", 18 * time.Minute},
	{"dave", "ops", "T200", "the disk alert on db-3 fired again, third time this week", 25 * time.Minute},
	{"erin", "ops", "T200", "compaction backlog, I bumped the throttle. watching it now", 28 * time.Minute},
	{"dave", "ops", "T200", "ack", 30 * time.Minute},
	{"alice", "engineering", "", "payment refactor branch is up, review when you get a chance", 45 * time.Minute},
	{"bob", "engineering", "", "kafka consumer lag is back to normal after the partition rebalance", 50 * time.Minute},
	{"carol", "random", "", "the coffee machine on floor 3 is fixed", 55 * time.Minute},
	{"erin", "random", "", "anyone want the spare standing desk by the window?", 60 * time.Minute},
	{"dave", "ops", "", "cert rotation done, zero dropped connections", 65 * time.Minute},
	{"alice", "engineering", "T300", "should we pin the go version in CI? the 1.25 bump broke two jobs", 70 * time.Minute},
	{"bob", "engineering", "T300", "yes, pin it and upgrade deliberately", 72 * time.Minute},
	{"carol", "engineering", "T300", "+1", 73 * time.Minute},
	{"bob", "engineering", "", "deployed the search index rebuild, queries are 40% faster", 90 * time.Minute},
	{"erin", "ops", "", "quarterly failover drill is scheduled for thursday morning", 95 * time.Minute},
	{"alice", "engineering", "", "merged the payment refactor, release notes in the doc", 120 * time.Minute},
	{"dave", "ops", "", "grafana dashboards migrated to the new folder layout", 125 * time.Minute},
}

var (
	seedFileName = flag.String("src", "", "file of seed data, one message per line")
	dbPath       = flag.String("db", "./history_db", "path to BadgerDB database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// messagesFromLines turns plain text lines into channel messages with
// round-robin senders and spaced timestamps.
func messagesFromLines(source iter.Seq[string], base time.Time) iter.Seq[*core.Message] {
	senders := []string{"alice", "bob", "carol", "dave", "erin"}
	return func(yield func(*core.Message) bool) {
		i := 0
		for line := range source {
			if line == "" {
				continue
			}
			msg := &core.Message{
				SourceId:  fmt.Sprintf("seed-%d", i),
				Sender:    senders[i%len(senders)],
				Contents:  line,
				Channel:   "general",
				Type:      core.MessageTypeRegular,
				Timestamp: base.Add(time.Duration(i) * time.Minute),
			}
			i++
			if !yield(msg) {
				return
			}
		}
	}
}

// messagesFromScript turns the built-in script into messages.
func messagesFromScript(base time.Time) iter.Seq[*core.Message] {
	return func(yield func(*core.Message) bool) {
		for i, s := range script {
			msgType := core.MessageTypeRegular
			if s.threadId != "" {
				msgType = core.MessageTypeReply
			}
			msg := &core.Message{
				SourceId:  fmt.Sprintf("seed-%d", i),
				Sender:    s.sender,
				Contents:  s.contents,
				Channel:   s.channel,
				ThreadId:  s.threadId,
				Type:      msgType,
				Timestamp: base.Add(s.offset),
			}
			if !yield(msg) {
				return
			}
		}
	}
}

func main() {
	db, err := chatsift.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	base := time.Now().Add(-4 * time.Hour).UTC()

	var source iter.Seq[*core.Message]
	if seedFileName != nil && *seedFileName != "" {
		lines, err := linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
		source = messagesFromLines(lines, base)
	} else {
		source = messagesFromScript(base)
	}

	count := 0
	for msg := range source {
		result, err := pipeline.Ingest(ctx, msg)
		if err != nil {
			panic(err)
		}
		slog.Info("seeded", "channel", msg.Channel, "status", result.Status.String(), "id", result.MessageId)
		count++
	}
	slog.Info("seeding complete", "messages", count)
}
