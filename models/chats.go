package models

// Upsert replaces the full message list stored under a title, creating
// the title when new. Repeating the same upsert leaves the document
// unchanged.
func (c Chats) Upsert(title string, messages []Message) {
	c[title] = messages
}

// Rename moves a conversation to a new title. Returns false when the old
// title is absent. Renaming onto an existing title overwrites it; renaming
// a title onto itself is a no-op rather than a copy-then-delete, which
// would discard the conversation.
func (c Chats) Rename(oldTitle, newTitle string) bool {
	messages, ok := c[oldTitle]
	if !ok {
		return false
	}
	if newTitle == oldTitle {
		return true
	}
	c[newTitle] = messages
	delete(c, oldTitle)
	return true
}

// Delete removes a conversation. Returns false when the title is absent.
func (c Chats) Delete(title string) bool {
	if _, ok := c[title]; !ok {
		return false
	}
	delete(c, title)
	return true
}
