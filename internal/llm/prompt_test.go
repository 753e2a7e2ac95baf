package llm

import (
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	functions := "- get_time(): Get the current time\n- shutdown(): Shut down"
	p := SystemPrompt("Iris", functions)

	if !strings.HasPrefix(p, "You are Iris, named after the Greek goddess Iris") {
		t.Errorf("prompt does not open with the identity: %q", p[:60])
	}
	if !strings.Contains(p, "the iris of the eye, the part that lets light in") {
		t.Error("prompt missing the identity backstory")
	}
	if !strings.Contains(p, functions) {
		t.Error("prompt missing the function listing")
	}
	if !strings.Contains(p, `{"function": "<name>", "args": {"<key>": <value>}}`) {
		t.Error("prompt missing the call shape")
	}
}

func TestSystemPromptOtherName(t *testing.T) {
	p := SystemPrompt("Hal", "- shutdown(): Shut down")

	if !strings.HasPrefix(p, "Your name is Hal.") {
		t.Errorf("prompt does not open with the plain identity: %q", p[:40])
	}
	if strings.Contains(p, "goddess") {
		t.Error("backstory leaked into a renamed assistant")
	}
}
