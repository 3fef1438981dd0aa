// Package llm provides the model provider clients behind the scaffolding
// pipeline: intent extraction, feature enhancement, spec generation, and
// migration SQL all go through the same Client interface.
//
// Three providers are supported (Anthropic, OpenAI, Gemini), selected by
// configuration. All share client-side rate limiting, bounded retries with
// exponential backoff for transport and 429/5xx failures, markdown fence
// stripping, and secret scrubbing of error bodies before they can reach
// logs. The Fake client scripts responses for tests.
package llm
