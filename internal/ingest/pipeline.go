// Package ingest drives a log stream through the decoder and the tree
// builder and publishes the results on a feed.Hub.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/justinpbarnett/logtree/internal/decode"
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/logtree"
)

const DefaultBatchSize = 500

type Options struct {
	// BatchSize caps how many messages are folded in before a delivery.
	BatchSize      int
	ExpandFailures bool
	// RunID names this ingestion session. A random UUID is used when empty.
	RunID string
}

type Pipeline struct {
	hub       *feed.Hub
	builder   *logtree.Builder
	parser    *decode.Parser
	batchSize int
	delivered bool
}

func New(hub *feed.Hub, src io.Reader, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Pipeline{
		hub:       hub,
		builder:   logtree.NewBuilder(opts.RunID, opts.ExpandFailures),
		parser:    decode.NewParser(src, opts.BatchSize),
		batchSize: opts.BatchSize,
	}
}

// RunID returns the session id stamped on every RunInfo this pipeline emits.
func (p *Pipeline) RunID() string {
	return p.builder.RunInfo().ID
}

// Run consumes the source until EOF or cancellation. Messages are applied in
// batches; each batch ends when the parser has nothing more buffered or the
// batch size is reached, and is then delivered to the hub.
func (p *Pipeline) Run(ctx context.Context) error {
	go p.parser.Parse(ctx)

	msgs := p.parser.Messages()
	for {
		msg, ok := <-msgs
		if !ok {
			break
		}
		p.builder.Apply(msg)
		ok = p.drain(msgs)
		p.deliver()
		if !ok {
			break
		}
	}

	err := <-p.parser.Done()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("ingest %s: %v", p.RunID(), err)
		p.builder.Fail(err)
	}
	if p.builder.Pending() || !p.delivered {
		p.deliver()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("reading log: %w", err)
	}
	return nil
}

// drain applies whatever is already buffered, up to the batch size. It
// reports false once the channel is closed.
func (p *Pipeline) drain(msgs <-chan decode.Message) bool {
	for n := 1; n < p.batchSize; n++ {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			p.builder.Apply(msg)
		default:
			return true
		}
	}
	return true
}

func (p *Pipeline) deliver() {
	batch := p.builder.Flush()
	p.hub.DeliverEntries(batch.Entries, batch.NewExpanded, batch.Console, batch.UpdatedFrom)
	if batch.RunInfoChanged || !p.delivered {
		p.hub.DeliverRunInfo(batch.RunInfo)
	}
	p.delivered = true
}
