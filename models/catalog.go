package models

// GitHubModel is a model ID string for the GitHub Models API.
// Model IDs use the format "publisher/model-name".
//
// This list may not be exhaustive. To get the full, up-to-date
// catalog, query the GitHub Models REST API:
//
//	curl -H "Authorization: Bearer $GITHUB_TOKEN" \
//	  https://models.github.ai/catalog/models
//
// Each returned object has an "id" field with the model ID
// string. See: https://docs.github.com/en/rest/models/catalog
type GitHubModel = string

// -------------------------------------------------------------------
// OpenAI (publisher: openai)
// -------------------------------------------------------------------

const (
	// GPT-4.1 family
	GHGPT41     GitHubModel = "openai/gpt-4.1"
	GHGPT41Mini GitHubModel = "openai/gpt-4.1-mini"
	GHGPT41Nano GitHubModel = "openai/gpt-4.1-nano"

	// GPT-4o family
	GHGPT4o     GitHubModel = "openai/gpt-4o"
	GHGPT4oMini GitHubModel = "openai/gpt-4o-mini"

	// GPT-5 family
	GHGPT5     GitHubModel = "openai/gpt-5"
	GHGPT5Mini GitHubModel = "openai/gpt-5-mini"
	GHGPT5Nano GitHubModel = "openai/gpt-5-nano"

	// OpenAI reasoning models
	GHO3Mini GitHubModel = "openai/o3-mini"
	GHO4Mini GitHubModel = "openai/o4-mini"
)

// -------------------------------------------------------------------
// Anthropic (publisher: anthropic)
// -------------------------------------------------------------------

const (
	GHClaude4Opus    GitHubModel = "anthropic/claude-4-opus"
	GHClaude4Sonnet  GitHubModel = "anthropic/claude-4-sonnet"
	GHClaude37Sonnet GitHubModel = "anthropic/claude-3.7-sonnet"
	GHClaude35Haiku  GitHubModel = "anthropic/claude-3.5-haiku"
)

// -------------------------------------------------------------------
// Google (publisher: google)
// -------------------------------------------------------------------

const (
	GHGemini25Pro   GitHubModel = "google/gemini-2.5-pro"
	GHGemini25Flash GitHubModel = "google/gemini-2.5-flash"
)

// -------------------------------------------------------------------
// Meta (publisher: meta)
// -------------------------------------------------------------------

const (
	GHLlama4Scout    GitHubModel = "meta/llama-4-scout"
	GHLlama4Maverick GitHubModel = "meta/llama-4-maverick"
)
