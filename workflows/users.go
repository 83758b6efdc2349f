package workflows

import (
	"context"
	"errors"
	"sync"

	"gemini-chat/models"
	"gemini-chat/store"

	"github.com/dbos-inc/dbos-transact-golang/dbos"
)

// ErrChatNotFound is returned when a mutation addresses a title that is
// not in the user's chats document.
var ErrChatNotFound = errors.New("chat title not found")

// UserWorkflows contains DBOS workflows for the per-user chats document.
// Every mutation is a whole-document read-modify-write, so workflows for
// the same user are serialized with a per-email lock; without it two
// concurrent writes could silently drop each other's conversations.
type UserWorkflows struct {
	store *store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserWorkflows creates a new UserWorkflows instance
func NewUserWorkflows(st *store.Store) *UserWorkflows {
	return &UserWorkflows{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the lock guarding one user's document. Entries are
// never removed, so the map holds one mutex per distinct email for the
// process lifetime.
func (w *UserWorkflows) userLock(email string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.locks[email]
	if !ok {
		l = &sync.Mutex{}
		w.locks[email] = l
	}
	return l
}

// SyncUserInput contains the input for the SyncUser workflow
type SyncUserInput struct {
	Email    string
	FullName string
}

// SyncUserWorkflow finds or creates the user row for an email. Repeated
// calls with the same email return the same record.
func (w *UserWorkflows) SyncUserWorkflow(ctx dbos.DBOSContext, input SyncUserInput) (models.User, error) {
	user, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (*models.User, error) {
		user, err := w.store.GetUser(stepCtx, input.Email)
		if errors.Is(err, store.ErrUserNotFound) {
			return w.store.CreateUser(stepCtx, input.Email, input.FullName)
		}
		return user, err
	})
	if err != nil {
		return models.User{}, err
	}
	return *user, nil
}

// UpsertChatInput contains the input for the UpsertChat workflow
type UpsertChatInput struct {
	Email    string
	Title    string
	Messages []models.Message
}

// UpsertChatWorkflow replaces one conversation's full message list in the
// user's chats document, creating the title if new.
func (w *UserWorkflows) UpsertChatWorkflow(ctx dbos.DBOSContext, input UpsertChatInput) (models.User, error) {
	lock := w.userLock(input.Email)
	lock.Lock()
	defer lock.Unlock()

	user, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (*models.User, error) {
		return w.store.GetUser(stepCtx, input.Email)
	})
	if err != nil {
		return models.User{}, err
	}

	user.Chats.Upsert(input.Title, input.Messages)

	if _, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (bool, error) {
		err := w.store.SaveChats(stepCtx, input.Email, user.Chats)
		return err == nil, err
	}); err != nil {
		return models.User{}, err
	}

	return *user, nil
}

// RenameChatInput contains the input for the RenameChat workflow
type RenameChatInput struct {
	Email    string
	Title    string
	NewTitle string
}

// RenameChatWorkflow moves a conversation to a new title. Renaming onto a
// title that already exists overwrites it, last write wins.
func (w *UserWorkflows) RenameChatWorkflow(ctx dbos.DBOSContext, input RenameChatInput) (models.User, error) {
	lock := w.userLock(input.Email)
	lock.Lock()
	defer lock.Unlock()

	user, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (*models.User, error) {
		return w.store.GetUser(stepCtx, input.Email)
	})
	if err != nil {
		return models.User{}, err
	}

	if !user.Chats.Rename(input.Title, input.NewTitle) {
		return models.User{}, ErrChatNotFound
	}

	if _, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (bool, error) {
		err := w.store.SaveChats(stepCtx, input.Email, user.Chats)
		return err == nil, err
	}); err != nil {
		return models.User{}, err
	}

	return *user, nil
}

// DeleteChatInput contains the input for the DeleteChat workflow
type DeleteChatInput struct {
	Email string
	Title string
}

// DeleteChatWorkflow removes a conversation from the user's chats document.
func (w *UserWorkflows) DeleteChatWorkflow(ctx dbos.DBOSContext, input DeleteChatInput) (models.User, error) {
	lock := w.userLock(input.Email)
	lock.Lock()
	defer lock.Unlock()

	user, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (*models.User, error) {
		return w.store.GetUser(stepCtx, input.Email)
	})
	if err != nil {
		return models.User{}, err
	}

	if !user.Chats.Delete(input.Title) {
		return models.User{}, ErrChatNotFound
	}

	if _, err := dbos.RunAsStep(ctx, func(stepCtx context.Context) (bool, error) {
		err := w.store.SaveChats(stepCtx, input.Email, user.Chats)
		return err == nil, err
	}); err != nil {
		return models.User{}, err
	}

	return *user, nil
}
