// Package driven holds the interfaces the core calls out through: the vector
// index, the embedding and LLM providers, text extraction and chunking, and
// the config and prompt files.
//
// Services treat LLMService and PromptStore as optional. A nil LLMService
// disables question answering; a nil PromptStore means the built-in prompts.
// Everything else must be wired before a service is constructed.
//
// This package imports domain and nothing else from the module.
package driven
