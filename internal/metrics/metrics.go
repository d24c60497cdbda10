package metrics

// Metrics defines what the lobby and HTTP layers record.
type Metrics interface {
	IncLobbiesCreated()
	IncCommand(cmdType string)
	IncCommandRejected(reason string)
	IncDraftsCompleted()
	IncSaved()
	SetActiveLobbies(n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncLobbiesCreated() {}
func (Nop) IncCommand(string) {}
func (Nop) IncCommandRejected(string) {}
func (Nop) IncDraftsCompleted() {}
func (Nop) IncSaved() {}
func (Nop) SetActiveLobbies(int) {}
