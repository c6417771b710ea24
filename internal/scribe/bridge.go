package scribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/csjayzz/medlink-er-coordination/internal/metrics"
)

// maxToolRounds bounds how many completion round-trips a single utterance
// may trigger before the bridge gives up and returns what it has.
const maxToolRounds = 4

// Result describes what a single utterance changed.
type Result struct {
	// Reply is the model's spoken-back text, possibly empty.
	Reply string
	// Updated is true when at least one update_form call was applied.
	Updated bool
	// Transmit is true when the model asked to send the alert. The caller
	// performs the commit; the bridge never touches the board.
	Transmit bool
}

// Bridge drives one medic's tool-calling conversation with the extraction
// model. It keeps the running message history so corrections ("no, sorry,
// BP is 90 over 60") resolve against earlier context. Not safe for
// concurrent use; each voice connection owns its bridge.
type Bridge struct {
	svc     *Service
	medicID string
	history []openai.ChatCompletionMessage
}

// NewBridge returns a bridge bound to the medic's shared draft. It fails
// when the service has no extraction client configured, so a missing
// credential surfaces before any audio session starts.
func (s *Service) NewBridge(medicID string) (*Bridge, error) {
	if s.client == nil {
		return nil, ErrNoClient
	}
	return &Bridge{
		svc:     s,
		medicID: medicID,
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		},
	}, nil
}

// HandleUtterance feeds one transcribed utterance through the model,
// applies any tool calls to the medic's draft, and reports what changed.
// On a transport or model error the draft is left as it was.
func (b *Bridge) HandleUtterance(ctx context.Context, text string) (Result, error) {
	var res Result
	b.history = append(b.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := b.svc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    b.svc.model,
			Messages: b.history,
			Tools:    scribeTools(),
		})
		if err != nil {
			return res, fmt.Errorf("scribe completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return res, fmt.Errorf("scribe completion: empty response")
		}

		msg := resp.Choices[0].Message
		b.history = append(b.history, msg)
		if msg.Content != "" {
			res.Reply = msg.Content
		}
		if len(msg.ToolCalls) == 0 {
			return res, nil
		}

		for _, call := range msg.ToolCalls {
			ack := b.applyToolCall(call, &res)
			b.history = append(b.history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    ack,
			})
		}
	}
	return res, nil
}

func (b *Bridge) applyToolCall(call openai.ToolCall, res *Result) string {
	metrics.ScribeToolCallsTotal.WithLabelValues(call.Function.Name).Inc()
	switch call.Function.Name {
	case ToolUpdateForm:
		var obs Observation
		if err := json.Unmarshal([]byte(call.Function.Arguments), &obs); err != nil {
			log.Printf("scribe: discarding malformed update_form args: %v", err)
			return `{"result":"error","message":"malformed arguments"}`
		}
		b.svc.Observe(b.medicID, obs)
		res.Updated = true
		return `{"result":"ok"}`
	case ToolTransmitAlert:
		res.Transmit = true
		return `{"result":"transmitting"}`
	default:
		log.Printf("scribe: model called unknown tool %q", call.Function.Name)
		return `{"result":"error","message":"unknown tool"}`
	}
}
