package notify

import (
	"context"
	"fmt"
	"regexp"

	"github.com/beratcankara/inoflow/internal/models"
)

// Mention spans in note HTML carry the mentioned user's id, e.g.
// <span data-mention-id="...">@Name</span>.
var mentionRe = regexp.MustCompile(`data-mention-id="([0-9a-fA-F-]{36})"`)

// Mentions extracts the mentioned user ids from note content, in order
// of first appearance, deduplicated.
func Mentions(content string) []string {
	matches := mentionRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// SendMentions notifies every user mentioned in a note, skipping the
// author. Anyone who can write a note may mention anyone.
func SendMentions(ctx context.Context, task *models.Task, authorID, authorName, content string) {
	for _, uid := range Mentions(content) {
		if uid == authorID {
			continue
		}
		Send(ctx, models.Notification{
			TaskID:     task.ID,
			SenderID:   authorID,
			ReceiverID: uid,
			Type:       models.NotifTaskComment,
			Title:      "You Were Mentioned",
			Message:    fmt.Sprintf("%s mentioned you in a note on %q.", authorName, task.Title),
		})
	}
}
