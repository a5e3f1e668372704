package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

// ParseAccounts decodes and validates raw account JSON. A malformed payload
// returns an error without producing a partial result, so the caller keeps
// the prior snapshot intact.
func ParseAccounts(raw []byte) ([]fleet.AccountSnapshot, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty snapshot payload")
	}

	var accounts []fleet.AccountSnapshot
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("decoding accounts: %w", err)
	}

	if err := validateAccounts(accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func validateAccounts(accounts []fleet.AccountSnapshot) error {
	for ai, acct := range accounts {
		if acct.Nickname == "" {
			return fmt.Errorf("account %d: missing nickname", ai)
		}
		for ci, ch := range acct.Characters {
			if ch.CID == 0 {
				return fmt.Errorf("account %q character %d: missing cid", acct.Nickname, ci)
			}
			if ch.Name == "" {
				return fmt.Errorf("account %q character %d: missing name", acct.Nickname, ci)
			}
			if len(ch.Submarines) > 4 {
				return fmt.Errorf("character %q: reports %d submarines", ch.Name, len(ch.Submarines))
			}
			for _, sub := range ch.Submarines {
				if sub.Name == "" {
					return fmt.Errorf("character %q: submarine with no name", ch.Name)
				}
				if sub.Level < 1 || sub.Level > gamedata.MaxLevel {
					return fmt.Errorf("submarine %q: level %d out of range", sub.Name, sub.Level)
				}
			}
		}
	}
	return nil
}
