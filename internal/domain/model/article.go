package model

import "time"

// Article is the output of one article-generation job.
type Article struct {
	VideoID          string    `json:"video_id"`
	Title            string    `json:"title"`
	Markdown         string    `json:"markdown"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	CreatedAt        time.Time `json:"created_at"`
}
