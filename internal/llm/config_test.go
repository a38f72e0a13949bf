package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_EveryTaskConfigured(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	for _, task := range AllTasks {
		tc, ok := cfg.Tasks[task]
		assert.True(t, ok, "task %s should have defaults", task)
		assert.Positive(t, tc.MaxTokens)
		assert.Positive(t, cfg.TaskTimeout(task))
	}
}

func TestTaskTimeout_FallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutMs = 9000
	cfg.Tasks[TaskAgenda] = TaskConfig{Temperature: 0.1, MaxTokens: 10}

	assert.Equal(t, 9000, cfg.TaskTimeout(TaskAgenda))
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskType("unknown")))
}

func TestSetTaskTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetTaskTimeout(TaskRefine, 1234)
	cfg.SetTaskTimeout(TaskAgenda, -1)

	assert.Equal(t, 1234, cfg.TaskTimeout(TaskRefine))
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskAgenda))
	assert.Equal(t, 0.4, cfg.Tasks[TaskRefine].Temperature, "override keeps other fields")
}

func TestParams_RequestOverridesWin(t *testing.T) {
	cfg := DefaultConfig()
	temp, tok := cfg.params(GenerateRequest{Task: TaskBriefing})
	assert.Equal(t, 0.4, temp)
	assert.Equal(t, 1024, tok)

	hot, few := 1.2, 7
	temp, tok = cfg.params(GenerateRequest{Task: TaskBriefing, Temperature: &hot, MaxTokens: &few})
	assert.Equal(t, 1.2, temp)
	assert.Equal(t, 7, tok)
}
