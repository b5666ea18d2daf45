package events

import (
	"strconv"
	"strings"
)

// SuperUsers are moderators allowed to act on reports, by username or numeric id
type SuperUsers []string

// IsSuper checks if the user is in the list, any user is allowed if the list is empty
func (s SuperUsers) IsSuper(userName string, userID int64) bool {
	if len(s) == 0 {
		return true
	}
	id := strconv.FormatInt(userID, 10)
	for _, super := range s {
		super = strings.TrimPrefix(strings.TrimSpace(super), "@")
		if (userName != "" && strings.EqualFold(userName, super)) || (userID != 0 && super == id) {
			return true
		}
	}
	return false
}
