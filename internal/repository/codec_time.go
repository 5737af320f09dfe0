package repository

import "time"

// legacyTimeLayout is the timestamp format used by the legacy rule store.
const legacyTimeLayout = time.RFC3339

func parseLegacyTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(legacyTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
