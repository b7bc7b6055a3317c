package config

import "time"

const (
	// MaxChatTitleLength is the number of characters of the first message
	// used as the chat title.
	MaxChatTitleLength = 100

	// MaxMessageLength bounds a single user utterance.
	MaxMessageLength = 4000

	// MaxHistoryLength bounds the free-text watch history spliced into the
	// system prompt. Longer blobs crowd out the transcript in small context windows.
	MaxHistoryLength = 8000

	// ConversationStarterCount is how many starters the model is asked for.
	ConversationStarterCount = 4

	// MaxMoviesPerCard caps the showMovies payload accepted from the model.
	// It only guards against runaway output; the prompt asks for far fewer.
	MaxMoviesPerCard = 50

	// EnrichmentConcurrency bounds in-flight metadata lookups per batch.
	EnrichmentConcurrency = 8

	// ActorsPerMovie is how many cast members are joined into Movie.Actors.
	ActorsPerMovie = 4

	// TurnTimeout bounds a whole turn (LLM call plus enrichment) once the
	// request context has been detached.
	TurnTimeout = 2 * time.Minute
)
