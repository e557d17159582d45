package cli

import "fmt"

type errNotLoggedIn struct{}

func (errNotLoggedIn) Error() string {
	return "not logged in: run `loandesk login <name>` or pass --actor"
}

type unknownSectionError struct {
	section string
}

func (e unknownSectionError) Error() string {
	return fmt.Sprintf("unknown status section: %s (want new|pending|approval|approved|reverted)", e.section)
}

type invalidStageError struct {
	stage string
}

func (e invalidStageError) Error() string {
	return fmt.Sprintf("invalid revert target stage: %s", e.stage)
}
