package models

import "time"

// Message is a single chat turn. The JSON shape matches what the browser
// keeps in memory, so stored documents round-trip unchanged.
type Message struct {
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	IsImage   bool   `json:"isImage,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	IsLoading bool   `json:"isLoading,omitempty"`
}

// Chats maps a conversation title to its ordered message list. Titles are
// unique per user and are the only conversation identifier.
type Chats map[string][]Message

// User is one row of the users table. Chats is stored as a single JSONB
// document.
type User struct {
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Chats     Chats     `json:"chats"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
}

// ChatResponse is the normalized envelope returned for every chat mode.
type ChatResponse struct {
	Reply    string `json:"reply,omitempty"`
	Thoughts string `json:"thoughts,omitempty"`
	Image    string `json:"image,omitempty"`
}

// ImageUploadRequest is the body of POST /chat/image-upload.
type ImageUploadRequest struct {
	Message     string `json:"message"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// SyncRequest is the body of POST /user/sync.
type SyncRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateRequest is the body of POST /user/update. Field names mirror the
// browser's wire format, including the capitalized Title key.
type UpdateRequest struct {
	Title    string    `json:"Title"`
	Messages []Message `json:"messages"`
	Check    bool      `json:"check"`
	Email    string    `json:"email"`
}

// TitleUpdateRequest is the body of POST /user/titleupdate.
type TitleUpdateRequest struct {
	Title    string `json:"Title"`
	NewTitle string `json:"newTitle"`
	Email    string `json:"email"`
}

// DeleteRequest is the body of POST /user/delete.
type DeleteRequest struct {
	Title string `json:"Title"`
	Email string `json:"email"`
}

// StatusResponse wraps rename and delete results.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *User  `json:"data"`
}
