// Package translation turns English card text into the target language
// through a chat-completion backend (OpenAI, Gemini or a local Ollama
// server). The Translator renders a deterministic prompt, retries transient
// failures with exponential backoff and reports retry exhaustion as a
// *TranslationError.
package translation
