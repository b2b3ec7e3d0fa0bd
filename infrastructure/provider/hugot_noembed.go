//go:build !embed_model

package provider

import "embed"

// Empty when built without the embed_model tag; the model must exist on disk.
var embeddedModelFS embed.FS

const hasEmbeddedModel = false
