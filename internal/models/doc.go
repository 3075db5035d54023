// Package models lists the chat models an OpenAI account can use for card
// translation.
package models
