package teams

import (
	"errors"
	"strings"

	"github.com/preston-bernstein/nba-roster-service/internal/notify"
	"github.com/preston-bernstein/nba-roster-service/internal/roster"
)

const (
	msgTeamCreated     = "Team created successfully"
	msgTeamUpdated     = "Team updated successfully"
	msgTeamDeleted     = "Team deleted successfully"
	msgPlayerAdded     = "Player added to team"
	msgPlayerRemoved   = "Player removed from team"
	msgAlreadyRostered = "Player is already in a team"
	msgNameTaken       = "Team name must be unique"
	msgInvalidTeam     = "Team could not be saved"
	msgTeamNotFound    = "Team not found"
	msgCommandFailed   = "Something went wrong"
)

// failureNotice maps a rejected command to the notification shown for it.
func failureNotice(err error) notify.Notification {
	if vErr, ok := roster.AsValidationError(err); ok {
		reasons := make([]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			reasons = append(reasons, f.Reason)
		}
		title := msgInvalidTeam
		if vErr.DuplicateName() {
			title = msgNameTaken
		}
		return notify.Notification{Severity: notify.SeverityError, Title: title, Description: strings.Join(reasons, ". ")}
	}
	switch {
	case errors.Is(err, roster.ErrAlreadyRostered):
		return notify.Notification{Severity: notify.SeverityError, Title: msgAlreadyRostered}
	case errors.Is(err, roster.ErrNotFound):
		return notify.Notification{Severity: notify.SeverityWarning, Title: msgTeamNotFound}
	}
	return notify.Notification{Severity: notify.SeverityError, Title: msgCommandFailed, Description: err.Error()}
}
