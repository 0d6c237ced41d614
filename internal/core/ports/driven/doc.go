// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Vector similarity search and exact fetch by identifier
//   - LLMService: Language model generation and token streaming
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - EmbeddingService: Generates vector embeddings. Consumed by ChunkStore
//     adapters, never called by the core pipeline directly.
//   - PromptStore: User-editable prompt templates; adapters fall back to
//     embedded defaults when it is nil.
//   - DocumentStore: Page persistence used by ingestion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
