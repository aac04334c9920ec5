// Package export pulls finished sessions from a running server and archives
// them as JSON files, one per session. A local SQLite state database makes
// repeated runs incremental.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meltforce/ironlog/internal/models"
)

const pageSize = 50

// Result summarizes one export run.
type Result struct {
	Seen    int
	Written int
	Skipped int
}

// Run fetches every finished session from the server and writes the new or
// changed ones to outDir as <completed-date>-<id>.json.
func Run(client *Client, state *StateDB, outDir string, log *slog.Logger) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir %s: %w", outDir, err)
	}

	result := &Result{}
	for page := 1; ; page++ {
		sessions, total, err := client.FetchHistoryPage(page, pageSize)
		if err != nil {
			return nil, err
		}
		if len(sessions) == 0 {
			break
		}

		for _, summary := range sessions {
			result.Seen++
			written, err := exportSession(client, state, outDir, summary, log)
			if err != nil {
				return nil, err
			}
			if written {
				result.Written++
			} else {
				result.Skipped++
			}
		}

		if result.Seen >= total {
			break
		}
	}

	log.Info("export finished", "seen", result.Seen, "written", result.Written, "skipped", result.Skipped)
	return result, nil
}

func exportSession(client *Client, state *StateDB, outDir string, summary models.Session, log *slog.Logger) (bool, error) {
	session, err := client.FetchSession(summary.ID)
	if err != nil {
		return false, err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshaling session %s: %w", session.ID, err)
	}

	hash := hashBytes(data)
	done, err := state.IsExported(session.ID.String(), hash)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	name := session.StartedAt.Format("2006-01-02") + "-" + session.ID.String() + ".json"
	if session.CompletedAt != nil {
		name = session.CompletedAt.Format("2006-01-02") + "-" + session.ID.String() + ".json"
	}

	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}

	if err := state.MarkExported(session.ID.String(), hash); err != nil {
		return false, err
	}

	log.Info("session exported", "session_id", session.ID, "file", name)
	return true, nil
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
