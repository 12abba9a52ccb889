package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/RajoGon/ai-workout-assistant/pkg/testutil"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRuleMatch(t *testing.T) {
	gen := &testutil.FakeGenerator{Default: "rag"}
	svc := NewService(gen)

	// 动作 + 锻炼关键词同时命中
	got := svc.Classify("Schedule a run for tomorrow")
	assert.Equal(t, CategoryAgent, got)
	assert.Empty(t, gen.Prompts)
}

func TestClassifyRuleMissIsRag(t *testing.T) {
	gen := &testutil.FakeGenerator{Default: "agent"}
	svc := NewService(gen)

	// 规则模式未命中直接归 rag，不调用模型
	got := svc.Classify("update my calendar")
	assert.Equal(t, CategoryRag, got)
	assert.Empty(t, gen.Prompts)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	svc := NewService(&testutil.FakeGenerator{})

	got := svc.Classify("CANCEL my YOGA")
	assert.Equal(t, CategoryAgent, got)
}

func TestClassifyWithModel(t *testing.T) {
	gen := &testutil.FakeGenerator{Default: "Category: agent"}
	svc := NewService(gen)

	got := svc.ClassifyWithModel(context.Background(), "please put something on my plan")
	assert.Equal(t, CategoryAgent, got)
	assert.Len(t, gen.Prompts, 1)
}

func TestClassifyWithModelSaysRag(t *testing.T) {
	gen := &testutil.FakeGenerator{Default: "rag"}
	svc := NewService(gen)

	got := svc.ClassifyWithModel(context.Background(), "what should I do today")
	assert.Equal(t, CategoryRag, got)
}

func TestClassifyWithModelErrorDefaultsToRag(t *testing.T) {
	gen := &testutil.FakeGenerator{Err: errors.New("model down")}
	svc := NewService(gen)

	got := svc.ClassifyWithModel(context.Background(), "what should I do today")
	assert.Equal(t, CategoryRag, got)
}
