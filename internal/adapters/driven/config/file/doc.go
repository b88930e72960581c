// Package file keeps ragindex's user-editable state under ~/.ragindex:
// settings in config.toml and LLM prompts in prompts.toml.
package file
