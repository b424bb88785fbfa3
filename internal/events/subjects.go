package events

const (
	SubjectBountyRequest = "bounty.request"
	SubjectBountyStats   = "bounty.stats"

	StreamName   = "BOUNTY_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectBountyCreated(bountyID string) string   { return "bounty." + bountyID + ".created" }
func SubjectBountyAssigned(bountyID string) string  { return "bounty." + bountyID + ".assigned" }
func SubjectBountyUnmatched(bountyID string) string { return "bounty." + bountyID + ".unmatched" }

func SubjectTeamCreated(teamID string) string { return "team." + teamID + ".created" }
