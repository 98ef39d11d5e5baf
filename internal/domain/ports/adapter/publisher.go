package adapter

import "context"

// PublisherAdapter is the boundary to the note-taking publishing service.
// Only the contract lives here; jobs hand a finished article over and get
// back the published page URL.
type PublisherAdapter interface {
	PublishArticle(ctx context.Context, title, markdown string) (string, error)
}
