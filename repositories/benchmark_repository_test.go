package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/database"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_ChatHistory_Performance(t *testing.T) {
	req := require.New(t)
	path := t.TempDir()
	db, err := badger.Open(badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	defer db.Close()

	log := slog.Default()
	limit := 50
	// No bluge writer: seeding skips the search index on purpose, the scan
	// path is what this test measures.
	repo := NewHistoryRepository(db, nil, log, lo.ToPtr(limit))

	totalMessages := 200_000
	targetSession := "session-42"

	// --- Phase 1: SEEDING ---
	fmt.Printf("Starting seeding of %d messages...\n", totalMessages)
	startSeed := time.Now()
	wb := db.NewWriteBatch()

	for i := 0; i < totalMessages; i++ {
		sessionID := fmt.Sprintf("session-%d", i%100)                 // Distribution over 100 sessions
		at := time.Now().Add(time.Duration(i) * time.Nanosecond)      // Nanoseconds avoid key collisions
		author := fmt.Sprintf("user_%d", i%500)

		message := ArchivedMessage{
			ID:      uuid.NewString(),
			Session: sessionID,
			Author:  author,
			Content: "Hello world, this is a performance test for Collab-Lab!",
			At:      at,
		}
		bytes, _ := json.Marshal(message)

		key := fmt.Sprintf("msg:%s:%019d:%s", sessionID, at.UnixNano(), message.ID)
		_ = wb.Set([]byte(key), bytes)

		if i%50_000 == 0 && i > 0 {
			fmt.Printf("  -> Inserted %d messages...\n", i)
		}
	}

	err = wb.Flush()
	req.NoError(err)

	fmt.Printf("✅ Seeded %d messages in %v\n", totalMessages, time.Since(startSeed))

	// --- Phase 2: LATEST PAGE FETCH ---
	fmt.Printf("Retrieving last %d messages for %s...\n", limit, targetSession)
	startGet := time.Now()

	messages, cursor, err := repo.GetChatMessages(targetSession, nil)
	req.NoError(err)

	duration := time.Since(startGet)
	fmt.Printf("✅ Retrieved %d messages for %s in %v\n", len(messages), targetSession, duration)

	// --- VERIFICATION ---
	req.Len(messages, limit)
	req.NotNil(cursor)
	for _, message := range messages {
		req.Equal(targetSession, message.Session)
	}
}

// Test_HistoryRepository_ConcurrentStores validates thread-safety when
// multiple goroutines archive edits and messages simultaneously.
func Test_HistoryRepository_ConcurrentStores(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(database.DefaultPath)
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repo := NewHistoryRepository(badgerDB, blugeWriter, log, lo.ToPtr(100))
	sessionID := "concurrent-session"

	const (
		numGoroutines    = 10
		writesPerRoutine = 50
		totalWrites      = numGoroutines * writesPerRoutine
	)

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var errorCount atomic.Int32

	// When: Multiple goroutines write concurrently
	startTime := time.Now()

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(routineID int) {
			defer wg.Done()

			for j := 0; j < writesPerRoutine; j++ {
				message := ArchivedMessage{
					ID:      uuid.NewString(),
					Session: sessionID,
					Author:  fmt.Sprintf("user_%d", routineID),
					Content: fmt.Sprintf("Routine %d - Message %d", routineID, j),
					At:      time.Now().UTC(),
				}

				if err := repo.StoreChatMessage(message); err != nil {
					t.Logf("Store error in routine %d: %v", routineID, err)
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(startTime)

	// Then: All writes should succeed
	req.Equal(int32(totalWrites), successCount.Load(), "All stores should succeed")
	req.Zero(errorCount.Load())
	t.Logf("Completed %d concurrent writes in %v", totalWrites, duration)
}
