package labsim

import (
	"errors"
	"fmt"
)

// ErrBoardInconsistent reports a board that breaks its ordering rules.
var ErrBoardInconsistent = errors.New("discovery board inconsistent")

// verifyBoard checks that entries are ordered by significance with dense
// ranks: equal scores share a rank and the next distinct score gets the
// next integer.
func verifyBoard(board []Entry) error {
	seen := make(map[string]struct{}, len(board))
	for i, e := range board {
		if _, dup := seen[e.DiscoveryID]; dup {
			return fmt.Errorf("%w: discovery %s listed twice", ErrBoardInconsistent, e.DiscoveryID)
		}
		seen[e.DiscoveryID] = struct{}{}

		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: first rank is %d", ErrBoardInconsistent, e.Rank)
			}
			continue
		}
		prev := board[i-1]
		switch {
		case e.Significance > prev.Significance:
			return fmt.Errorf("%w: entry %d scores above entry %d", ErrBoardInconsistent, i, i-1)
		case e.Significance == prev.Significance && e.Rank != prev.Rank:
			return fmt.Errorf("%w: tied entries %d and %d have ranks %d and %d", ErrBoardInconsistent, i-1, i, prev.Rank, e.Rank)
		case e.Significance < prev.Significance && e.Rank != prev.Rank+1:
			return fmt.Errorf("%w: entry %d has rank %d after rank %d", ErrBoardInconsistent, i, e.Rank, prev.Rank)
		}
	}
	return nil
}
