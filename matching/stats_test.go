package matching

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats_SnapshotIsConsistentUnderConcurrentRecording(t *testing.T) {
	var s Stats
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.recordTrade(1, 100)
			s.recordLimitMatch()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Equal(t, uint64(100), snap.TotalTrades)
	require.Equal(t, uint64(100), snap.TotalVolume)
	require.Equal(t, uint64(100), snap.LimitOrdersMatched)
}
