package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
)

// GetProfile returns nil, nil when the user has no stored profile.
func GetProfile(ctx context.Context, db *sql.DB, userID string) (*domain.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	var skillsJSON, pref string
	err := db.QueryRowContext(ctx,
		`SELECT skills, remote_preference FROM profiles WHERE user_id = ? LIMIT 1;`,
		userID,
	).Scan(&skillsJSON, &pref)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p := &domain.UserProfile{UserID: userID}
	if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
		return nil, fmt.Errorf("profile %s skills: %w", userID, err)
	}
	if p.RemotePreference, err = domain.ParseRemotePreference(pref); err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return p, nil
}

func UpsertProfile(ctx context.Context, db *sql.DB, p domain.UserProfile) error {
	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return fmt.Errorf("upsert profile: empty user id")
	}
	skills, err := json.Marshal(nonNil(p.Skills))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO profiles(user_id, skills, remote_preference, updated_at)
VALUES(?,?,?,?)
ON CONFLICT(user_id) DO UPDATE SET
  skills = excluded.skills,
  remote_preference = excluded.remote_preference,
  updated_at = excluded.updated_at;
`, userID, string(skills), string(p.RemotePreference), time.Now().UTC().Format(time.RFC3339))

	return err
}
