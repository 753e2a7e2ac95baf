// Package llm provides the text-generation backends the conversation
// loop talks to: a hosted chat-completions API and a local CLI tool.
package llm

import "fmt"

// greetingPrompt opens every fresh conversation so the assistant speaks
// first.
const greetingPrompt = "Introduce yourself briefly."

const irisIdentity = "You are Iris, named after the Greek goddess Iris, " +
	"the messenger of the gods who bridged heaven and earth, " +
	"and also for the iris of the eye, the part that lets light in."

const promptTemplate = `%[1]s You are a voice assistant. The user talks to you through a microphone and hears your replies through a speaker, so keep responses short and conversational. Use one or two sentences unless asked for more.

You can perform local actions by embedding a JSON object in your reply, in this exact shape:
{"function": "<name>", "args": {"<key>": <value>}}

Everything outside the JSON is spoken aloud. You may include more than one call in a reply; they run in order. Only call functions from this list:
%[2]s

Rules:
- Call a function whenever the request matches one; do not pretend to act.
- Never invent function names or arguments.
- When you have nothing to do, just answer conversationally with no JSON.
- After a function runs you will receive its result and should summarize it in plain speech.`

// identity gives the assistant its persona. Only the default name
// carries the full backstory; anything else gets a plain introduction.
func identity(name string) string {
	if name == "Iris" {
		return irisIdentity
	}
	return fmt.Sprintf("Your name is %s.", name)
}

// SystemPrompt renders the system prompt for the backend. The functions
// listing comes from the registry's prompt description and is the only
// way the backend learns what it may call.
func SystemPrompt(name, functions string) string {
	return fmt.Sprintf(promptTemplate, identity(name), functions)
}
