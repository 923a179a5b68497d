package llm

import (
	"errors"
	"sync"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	valid := Request{Prompt: "hello", MaxTokens: 100, Temperature: 0.5}
	if err := validateRequest(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name string
		req  Request
	}{
		{"empty prompt", Request{Prompt: "", MaxTokens: 100}},
		{"whitespace prompt", Request{Prompt: "   \n\t ", MaxTokens: 100}},
		{"zero max tokens", Request{Prompt: "hi", MaxTokens: 0}},
		{"negative max tokens", Request{Prompt: "hi", MaxTokens: -5}},
		{"temperature too low", Request{Prompt: "hi", MaxTokens: 10, Temperature: -0.1}},
		{"temperature too high", Request{Prompt: "hi", MaxTokens: 10, Temperature: 1.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRequest(tc.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var inv *InvalidArgumentError
			if !errors.As(err, &inv) {
				t.Fatalf("expected *InvalidArgumentError, got %T", err)
			}
		})
	}
}

func TestValidateRequestBoundaryTemperatures(t *testing.T) {
	for _, temp := range []float64{0.0, 1.0} {
		req := Request{Prompt: "hi", MaxTokens: 10, Temperature: temp}
		if err := validateRequest(req); err != nil {
			t.Fatalf("temperature %g should be valid: %v", temp, err)
		}
	}
}

func TestUsageCounterAccumulates(t *testing.T) {
	var u usageCounter
	u.add(50, 25)
	u.add(75, 30)

	got := u.usage()
	if got.InputTokens != 125 || got.OutputTokens != 55 {
		t.Fatalf("usage = %+v, want 125/55", got)
	}

	u.reset()
	if got := u.usage(); got.InputTokens != 0 || got.OutputTokens != 0 {
		t.Fatalf("usage after reset = %+v, want zeroes", got)
	}
	u.reset() // second reset is a no-op
	if got := u.usage(); got.InputTokens != 0 || got.OutputTokens != 0 {
		t.Fatalf("usage after double reset = %+v, want zeroes", got)
	}
}

func TestUsageCounterConcurrent(t *testing.T) {
	var u usageCounter
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				u.add(1, 2)
			}
		}()
	}
	wg.Wait()

	got := u.usage()
	if got.InputTokens != 2000 || got.OutputTokens != 4000 {
		t.Fatalf("usage = %+v, want 2000/4000", got)
	}
}
