package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/estudio/internal/llm"
)

// ScriptedClient is an llm.LLMClient that replays canned replies per task.
// A task with no script and no error fails with llm.ErrUnavailable, so an
// empty ScriptedClient drives every caller onto its fallback path.
type ScriptedClient struct {
	mu       sync.Mutex
	replies  map[llm.TaskType][]string
	errs     map[llm.TaskType]error
	failAll  error
	requests []llm.GenerateRequest

	// Gate, when set, blocks every Generate call until it receives a value
	// or is closed.
	Gate chan struct{}
	// Started, when set, receives the task of every call before it blocks on Gate.
	Started chan llm.TaskType
}

func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{
		replies: map[llm.TaskType][]string{},
		errs:    map[llm.TaskType]error{},
	}
}

// Reply queues texts for task. They are consumed in order and the last one
// repeats.
func (c *ScriptedClient) Reply(task llm.TaskType, texts ...string) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies[task] = append(c.replies[task], texts...)
	delete(c.errs, task)
	return c
}

// Fail makes every call for task return err.
func (c *ScriptedClient) Fail(task llm.TaskType, err error) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[task] = err
	return c
}

// FailAll makes every call return err regardless of scripts.
func (c *ScriptedClient) FailAll(err error) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAll = err
	return c
}

func (c *ScriptedClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	gate, started := c.Gate, c.Started
	c.mu.Unlock()

	if started != nil {
		started <- req.Task
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll != nil {
		return nil, c.failAll
	}
	if err, ok := c.errs[req.Task]; ok {
		return nil, err
	}
	queue := c.replies[req.Task]
	if len(queue) == 0 {
		return nil, fmt.Errorf("%w: no scripted reply for %s", llm.ErrUnavailable, req.Task)
	}
	text := queue[0]
	if len(queue) > 1 {
		c.replies[req.Task] = queue[1:]
	}
	return &llm.GenerateResponse{Text: text, Model: "scripted"}, nil
}

func (c *ScriptedClient) Available(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failAll == nil
}

// Calls returns how many requests were made for task.
func (c *ScriptedClient) Calls(task llm.TaskType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.requests {
		if r.Task == task {
			n++
		}
	}
	return n
}

// Last returns the most recent request for task.
func (c *ScriptedClient) Last(task llm.TaskType) (llm.GenerateRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.requests) - 1; i >= 0; i-- {
		if c.requests[i].Task == task {
			return c.requests[i], true
		}
	}
	return llm.GenerateRequest{}, false
}
