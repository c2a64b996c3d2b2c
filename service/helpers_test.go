package service

import (
	"os"
	"testing"
)

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0o644)
}

// stubBalances backs leaderboard tests with fixed per-user totals.
type stubBalances map[int64]int64

func (s stubBalances) GetBalances(serverID, userID int64) (int64, int64) {
	return s[userID], 0
}
