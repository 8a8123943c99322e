package core

import (
	"context"

	"prixfinance-backend-go/internal/db"
)

// TrophyLinks records which trophies a user has earned.
type TrophyLinks struct {
	trophies *Repository
	links    *Repository
}

// NewTrophyLinks creates TrophyLinks over the trophy and link repositories.
func NewTrophyLinks(trophies, links *Repository) *TrophyLinks {
	return &TrophyLinks{trophies: trophies, links: links}
}

// Earn links trophyName to the user. The trophy must exist and must not
// already be linked. Returns the link id.
func (t *TrophyLinks) Earn(ctx context.Context, userID, trophyName string) (string, error) {
	trophyKey, err := t.trophies.KeyOf(trophyName)
	if err != nil {
		return "", err
	}
	if _, err := t.trophies.locate(ctx, trophyKey); err != nil {
		return "", err
	}

	linkKey, err := t.links.KeyOf(userID, trophyName)
	if err != nil {
		return "", err
	}
	return t.links.Create(ctx, linkKey, nil)
}

// List returns the user's links joined with their trophy definitions. Links
// whose trophy no longer exists are left out.
func (t *TrophyLinks) List(ctx context.Context, userID string) ([]map[string]interface{}, error) {
	links, err := t.links.List(ctx, []db.Filter{{Field: "userId", Value: userID}})
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(links))
	for _, link := range links {
		trophyName := link["trophyName"]
		key, err := t.trophies.KeyOf(trophyName)
		if err != nil {
			continue
		}
		docs, err := t.trophies.find(ctx, key, 1)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			continue
		}

		entry := map[string]interface{}{
			"userTrophyId": link["id"],
			"userId":       userID,
			"earnedAt":     link["earnedAt"],
			"trophyName":   trophyName,
		}
		for k, v := range docs[0].Data {
			entry[k] = v
		}
		out = append(out, entry)
	}
	return out, nil
}

// Remove deletes the link between the user and trophyName.
func (t *TrophyLinks) Remove(ctx context.Context, userID, trophyName string) error {
	key, err := t.links.KeyOf(userID, trophyName)
	if err != nil {
		return err
	}
	_, err = t.links.Delete(ctx, key)
	return err
}
