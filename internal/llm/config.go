package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskAgenda          TaskType = "agenda"
	TaskSubTopics       TaskType = "subtopics"
	TaskApproach        TaskType = "approach"
	TaskInitialQuestion TaskType = "initial_question"
	TaskBriefing        TaskType = "briefing"
	TaskFinalContent    TaskType = "final_content"
	TaskRefine          TaskType = "refine"
)

// AllTasks lists every task type in wizard order.
var AllTasks = []TaskType{
	TaskAgenda, TaskSubTopics, TaskApproach, TaskInitialQuestion,
	TaskBriefing, TaskFinalContent, TaskRefine,
}

type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled   bool
	LogCalls  bool
	Provider  Provider
	Endpoint  string
	Model     string
	APIKey    string
	TimeoutMs int
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:   false,
		LogCalls:  false,
		Provider:  ProviderOllama,
		Endpoint:  "http://localhost:11434",
		Model:     "llama3.2",
		TimeoutMs: 30000,
		Tasks: map[TaskType]TaskConfig{
			TaskAgenda:          {Temperature: 0.7, MaxTokens: 256, TimeoutMs: 15000},
			TaskSubTopics:       {Temperature: 0.8, MaxTokens: 2048, TimeoutMs: 30000},
			TaskApproach:        {Temperature: 0.5, MaxTokens: 4096, TimeoutMs: 60000},
			TaskInitialQuestion: {Temperature: 0.6, MaxTokens: 256, TimeoutMs: 15000},
			TaskBriefing:        {Temperature: 0.4, MaxTokens: 1024, TimeoutMs: 30000},
			TaskFinalContent:    {Temperature: 0.7, MaxTokens: 8192, TimeoutMs: 120000},
			TaskRefine:          {Temperature: 0.4, MaxTokens: 8192, TimeoutMs: 90000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// SetTaskTimeout overrides the timeout of a single task. Non-positive values
// are ignored.
func (c *LLMConfig) SetTaskTimeout(task TaskType, ms int) {
	if ms <= 0 {
		return
	}
	if c.Tasks == nil {
		c.Tasks = map[TaskType]TaskConfig{}
	}
	tc := c.Tasks[task]
	tc.TimeoutMs = ms
	c.Tasks[task] = tc
}

// params resolves temperature and token limits for req.
func (c LLMConfig) params(req GenerateRequest) (float64, int) {
	tc := c.Tasks[req.Task]
	temp, maxTok := tc.Temperature, tc.MaxTokens
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}
