package team

import "fmt"

// Team is an amateur football club. The captain acts on its behalf: creating
// matches, answering invites, approving roster spots, submitting scores.
type Team struct {
	ID        string
	Name      string
	Short     string
	CaptainID string
	City      string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.CaptainID == "" {
		return fmt.Errorf("team captain is required")
	}

	return nil
}
