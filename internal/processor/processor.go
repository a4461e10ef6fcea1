package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/config"
	"github.com/majorwise/majorwise/internal/logger"
	"github.com/majorwise/majorwise/internal/recommend"
	"github.com/majorwise/majorwise/pkg/facts"
)

// FactsRequest is the message consumed from the facts subject.
type FactsRequest struct {
	RequestID string      `json:"request_id,omitempty"`
	TopN      int         `json:"top_n,omitempty"`
	Facts     facts.Facts `json:"facts"`
}

// RecommendationReply is published for every consumed request.
type RecommendationReply struct {
	RequestID       string                     `json:"request_id,omitempty"`
	RunID           string                     `json:"run_id,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
	Error           string                     `json:"error,omitempty"`
}

// Advisor produces recommendation runs.
type Advisor interface {
	Recommend(ctx context.Context, f facts.Facts, topN int, source string) (advisor.Run, error)
}

type Processor struct {
	cfg     config.NATSConfig
	nc      *nats.Conn
	sub     *nats.Subscription
	advisor Advisor
	log     *logger.Logger
}

func New(cfg config.NATSConfig, adv Advisor, log *logger.Logger) (*Processor, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("majorwise"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &Processor{
		cfg:     cfg,
		nc:      nc,
		advisor: adv,
		log:     log,
	}, nil
}

// Close drains the subscription and the connection. It is safe to call more
// than once.
func (p *Processor) Close() {
	if p.nc == nil || p.nc.IsClosed() || p.nc.IsDraining() {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("drain nats", "error", err)
		p.nc.Close()
	}
}

// Status reports the connection state, e.g. CONNECTED.
func (p *Processor) Status() string {
	if p.nc == nil {
		return "DISCONNECTED"
	}
	return p.nc.Status().String()
}

func (p *Processor) Start(ctx context.Context) error {
	sub, err := p.nc.QueueSubscribe(p.cfg.SubjectFacts, p.cfg.QueueGroup, p.handleFacts)
	if err != nil {
		return err
	}
	p.sub = sub

	if err := p.nc.Flush(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		p.Close()
	}()

	p.log.Info("nats processor started", "subject", p.cfg.SubjectFacts, "queue", p.cfg.QueueGroup)
	return nil
}

func (p *Processor) handleFacts(msg *nats.Msg) {
	reply := p.process(context.Background(), msg.Data)
	if reply.Error != "" && msg.Reply == "" {
		p.log.Warn("drop facts message", "subject", msg.Subject, "error", reply.Error)
		return
	}

	payload, err := json.Marshal(reply)
	if err != nil {
		p.log.Error("encode recommendation reply", "error", err)
		return
	}

	subject := msg.Reply
	if subject == "" {
		subject = p.cfg.SubjectRecommendations
	}
	if subject == "" {
		return
	}
	if err := p.nc.Publish(subject, payload); err != nil {
		p.log.Error("publish recommendations", "subject", subject, "error", err)
	}
}

// process decodes one facts message and evaluates it. Failures are reported
// in the reply rather than dropped.
func (p *Processor) process(ctx context.Context, data []byte) RecommendationReply {
	var req FactsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		p.log.Warn("decode facts request", "error", err)
		return RecommendationReply{Error: fmt.Sprintf("decode facts request: %v", err)}
	}

	req.Facts.Normalize()
	if err := req.Facts.Valid(); err != nil {
		return RecommendationReply{RequestID: req.RequestID, Error: err.Error()}
	}

	run, err := p.advisor.Recommend(ctx, req.Facts, req.TopN, "nats")
	if err != nil {
		return RecommendationReply{RequestID: req.RequestID, Error: err.Error()}
	}

	return RecommendationReply{
		RequestID:       req.RequestID,
		RunID:           run.ID.String(),
		Recommendations: run.Recommendations,
	}
}
