package cli

import (
	"github.com/julianstephens/habitbot/internal/storage"
	"github.com/julianstephens/habitbot/internal/tracker"
)

// Context carries the explicitly constructed store and service into command
// handlers. There is no package-level store singleton.
type Context struct {
	Store   storage.Provider
	Tracker *tracker.Service
	Debug   bool
}

// ResolveOwner maps a chat id onto its internal owner id, creating the user
// row on first use. CLI commands run against chat id 0 ("local") by default.
func (c *Context) ResolveOwner(chatID int64) (string, error) {
	u, err := c.Tracker.UpsertUser(chatID, "local")
	if err != nil {
		return "", err
	}
	return u.ID, nil
}
