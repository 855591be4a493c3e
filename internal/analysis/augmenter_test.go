package analysis

import (
	"context"
	"errors"
	"testing"
)

func TestAugmentParsesItems(t *testing.T) {
	client := &fakeLLM{reply: `[{"text": "Do the thing", "priority": "high"}, {"text": "Do the other thing", "priority": "low"}]`}
	augmenter := &Augmenter{LLM: client}

	items := augmenter.Augment(context.Background(), Result{Insights: []string{"i"}, Topics: []string{"t"}}, Input{ContentType: "web"})

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Text != "Do the thing" || items[0].Priority != "high" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
}

func TestAugmentFallbackOnError(t *testing.T) {
	client := &fakeLLM{err: errors.New("timeout")}
	augmenter := &Augmenter{LLM: client}

	items := augmenter.Augment(context.Background(), Result{}, Input{ContentType: "web"})
	if len(items) != 2 {
		t.Fatalf("expected 2 fallback items, got %d", len(items))
	}
	if items[0].Priority != "high" || items[1].Priority != "medium" {
		t.Fatalf("unexpected fallback priorities: %+v", items)
	}
	if client.calls != 1 {
		t.Fatalf("no retry allowed, got %d calls", client.calls)
	}
}

func TestAugmentFallbackOnEmptyArray(t *testing.T) {
	client := &fakeLLM{reply: `[]`}
	augmenter := &Augmenter{LLM: client}

	items := augmenter.Augment(context.Background(), Result{}, Input{ContentType: "document"})
	if len(items) != 2 {
		t.Fatalf("expected fallback items for empty reply, got %d", len(items))
	}
}
