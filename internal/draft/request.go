package draft

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Role is a lane assignment
type Role string

const (
	RoleTop     Role = "top"
	RoleJungle  Role = "jungle"
	RoleMid     Role = "mid"
	RoleADC     Role = "adc"
	RoleSupport Role = "support"
)

// Roles lists every valid role in display order
var Roles = []Role{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}

const (
	// MaxAllies is the number of teammates besides the local player
	MaxAllies = 4
	// MaxEnemies is the size of the opposing team
	MaxEnemies = 5

	keyDelimiter    = "|"
	rosterDelimiter = ","
)

var (
	ErrMissingChampion = errors.New("champion is required")
	ErrMissingRole     = errors.New("role is required")
	ErrUnknownRole     = errors.New("unknown role")
	ErrTooManyAllies   = errors.New("too many allies")
	ErrTooManyEnemies  = errors.New("too many enemies")
)

// ValidationError reports a request that must be rejected without touching
// the cache or the model
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseRole converts a role name (including client position names) to a Role
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", ErrMissingRole
	case "top":
		return RoleTop, nil
	case "jungle", "jg":
		return RoleJungle, nil
	case "mid", "middle":
		return RoleMid, nil
	case "adc", "bottom", "bot":
		return RoleADC, nil
	case "support", "utility", "sup":
		return RoleSupport, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// ItemSlots returns how many core items a build for this role should list.
// Bottom laners get a seventh slot.
func (r Role) ItemSlots() int {
	if r == RoleADC {
		return 7
	}
	return 6
}

// Request describes a single build question
type Request struct {
	Patch      string   `json:"patch"`
	ChampionID string   `json:"myChampion"`
	Role       Role     `json:"role"`
	Allies     []string `json:"allies"`
	Enemies    []string `json:"enemies"`
}

// Normalize validates the request and returns a copy with the role parsed and
// the rosters reduced to sorted sets
func (r Request) Normalize() (Request, error) {
	champ := strings.TrimSpace(r.ChampionID)
	if champ == "" {
		return Request{}, &ValidationError{Field: "myChampion", Err: ErrMissingChampion}
	}

	role, err := ParseRole(string(r.Role))
	if err != nil {
		return Request{}, &ValidationError{Field: "role", Err: err}
	}

	allies := rosterSet(r.Allies)
	if len(allies) > MaxAllies {
		return Request{}, &ValidationError{Field: "allies", Err: fmt.Errorf("%w: %d > %d", ErrTooManyAllies, len(allies), MaxAllies)}
	}
	enemies := rosterSet(r.Enemies)
	if len(enemies) > MaxEnemies {
		return Request{}, &ValidationError{Field: "enemies", Err: fmt.Errorf("%w: %d > %d", ErrTooManyEnemies, len(enemies), MaxEnemies)}
	}

	return Request{
		Patch:      strings.TrimSpace(r.Patch),
		ChampionID: champ,
		Role:       role,
		Allies:     allies,
		Enemies:    enemies,
	}, nil
}

// Key derives the cache key. Roster order and duplicates do not matter.
func (r Request) Key() string {
	return strings.Join([]string{
		r.Patch,
		r.ChampionID,
		string(r.Role),
		strings.Join(rosterSet(r.Allies), rosterDelimiter),
		strings.Join(rosterSet(r.Enemies), rosterDelimiter),
	}, keyDelimiter)
}

// rosterSet trims, drops blanks and duplicates, and sorts
func rosterSet(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
