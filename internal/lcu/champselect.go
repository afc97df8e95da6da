package lcu

import (
	"draftcoach/internal/draft"
)

// ChampSelectSession represents the champion select session data
type ChampSelectSession struct {
	GameID            int64                 `json:"gameId"`
	Timer             ChampSelectTimer      `json:"timer"`
	MyTeam            []ChampSelectPlayer   `json:"myTeam"`
	TheirTeam         []ChampSelectPlayer   `json:"theirTeam"`
	Actions           [][]ChampSelectAction `json:"actions"`
	LocalPlayerCellID int                   `json:"localPlayerCellId"`
}

// ChampSelectTimer is the phase clock
type ChampSelectTimer struct {
	Phase            string `json:"phase"`
	TotalTimeInPhase int    `json:"totalTimeInPhase"`
	TimeLeftInPhase  int    `json:"timeLeftInPhase"`
}

// ChampSelectPlayer is one cell of either team
type ChampSelectPlayer struct {
	CellID           int    `json:"cellId"`
	ChampionID       int    `json:"championId"`
	SummonerID       int64  `json:"summonerId"`
	AssignedPosition string `json:"assignedPosition"`
	Position         string `json:"position"`
	SelectedPosition string `json:"selectedPosition"`
	Team             int    `json:"team"`
}

// GetPosition returns the player's position from available fields
func (p *ChampSelectPlayer) GetPosition() string {
	if p.AssignedPosition != "" {
		return p.AssignedPosition
	}
	if p.Position != "" {
		return p.Position
	}
	return p.SelectedPosition
}

// ChampSelectAction is a pick or ban
type ChampSelectAction struct {
	ID           int    `json:"id"`
	ActorCellID  int    `json:"actorCellId"`
	ChampionID   int    `json:"championId"`
	Type         string `json:"type"` // "pick", "ban"
	Completed    bool   `json:"completed"`
	IsInProgress bool   `json:"isInProgress"`
}

// positions are the client's lane names in draft order
var positions = []string{"top", "jungle", "middle", "bottom", "utility"}

// ChampionNamer maps the client's numeric champion ids to names
type ChampionNamer interface {
	ChampionName(key int) (string, bool)
}

// Draft is what champ select tells us about a game
type Draft struct {
	GameID     int64
	ChampionID int
	Locked     bool
	Position   string
	Allies     []int
	Enemies    []int
}

// Ready reports whether the draft names a champion and a position
func (d Draft) Ready() bool {
	return d.ChampionID > 0 && d.Position != ""
}

// DeriveDraft reads the local player's champion and position plus both
// rosters from a session. A blank position is inferred from the one lane
// nobody on the team claims. Hovered picks count until the player locks.
func DeriveDraft(session *ChampSelectSession) Draft {
	d := Draft{GameID: session.GameID}

	found := false
	for i := range session.MyTeam {
		p := &session.MyTeam[i]
		if p.CellID == session.LocalPlayerCellID {
			d.ChampionID = p.ChampionID
			d.Position = p.GetPosition()
			d.Locked = p.ChampionID > 0
			found = true
			continue
		}
		if p.ChampionID > 0 {
			d.Allies = append(d.Allies, p.ChampionID)
		}
	}

	if found && d.Position == "" {
		d.Position = inferPosition(session.MyTeam)
	}

	// a pick in progress overrides the cell's champion until locked
	for _, group := range session.Actions {
		for _, action := range group {
			if action.ActorCellID == session.LocalPlayerCellID && action.Type == "pick" &&
				!action.Completed && action.ChampionID > 0 {
				d.ChampionID = action.ChampionID
				d.Locked = false
			}
		}
	}

	for _, enemy := range session.TheirTeam {
		if enemy.ChampionID > 0 {
			d.Enemies = append(d.Enemies, enemy.ChampionID)
		}
	}
	return d
}

// inferPosition returns the first lane nobody has claimed when exactly one
// teammate position is missing
func inferPosition(team []ChampSelectPlayer) string {
	taken := make(map[string]bool, len(positions))
	for i := range team {
		if pos := team[i].GetPosition(); pos != "" {
			taken[pos] = true
		}
	}
	var missing []string
	for _, pos := range positions {
		if !taken[pos] {
			missing = append(missing, pos)
		}
	}
	if len(missing) != 1 {
		return ""
	}
	return missing[0]
}

// Request converts a ready draft into a build request using names
func (d Draft) Request(names ChampionNamer, patch string) (draft.Request, bool) {
	if !d.Ready() {
		return draft.Request{}, false
	}
	champ, ok := names.ChampionName(d.ChampionID)
	if !ok {
		return draft.Request{}, false
	}

	req := draft.Request{Patch: patch, ChampionID: champ, Role: draft.Role(d.Position)}
	for _, id := range d.Allies {
		if name, ok := names.ChampionName(id); ok {
			req.Allies = append(req.Allies, name)
		}
	}
	for _, id := range d.Enemies {
		if name, ok := names.ChampionName(id); ok {
			req.Enemies = append(req.Enemies, name)
		}
	}
	return req, true
}
