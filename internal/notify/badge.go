package notify

import (
	"strconv"

	"github.com/nhle/todo-client/internal/model"
)

// Badge is the unread indicator.
type Badge struct {
	Count   int
	Visible bool
}

// BadgeFor counts the notifications that have not been sent. The badge is
// hidden when the count is zero.
func BadgeFor(ns []model.Notification) Badge {
	n := 0
	for _, x := range ns {
		if !x.Sent {
			n++
		}
	}
	return Badge{Count: n, Visible: n > 0}
}

// String returns the badge text, or "" when hidden.
func (b Badge) String() string {
	if !b.Visible {
		return ""
	}
	return strconv.Itoa(b.Count)
}
