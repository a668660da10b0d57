package booster

import "fmt"

// UnknownSetError indicates a requested set code or selector token does not
// resolve to any loaded set.
type UnknownSetError struct {
	Code string
}

func (e *UnknownSetError) Error() string {
	return fmt.Sprintf("unknown set: %s", e.Code)
}

// EmptySheetError indicates a set's data is missing a rarity sheet that its
// composition requires. It signals bad or partial input data, not bad luck.
type EmptySheetError struct {
	SetCode string
	Sheet   string
}

func (e *EmptySheetError) Error() string {
	return fmt.Sprintf("set %s has no cards on the %s sheet", e.SetCode, e.Sheet)
}

// JumpstartUnavailableError indicates no theme decks are loaded, usually
// because the deck data has not been synced yet.
type JumpstartUnavailableError struct{}

func (e *JumpstartUnavailableError) Error() string {
	return "no jumpstart decks loaded"
}

// InsufficientCardsError indicates a sheet has fewer eligible cards than the
// composition requires for one pack.
type InsufficientCardsError struct {
	SetCode string
	Sheet   string
	Need    int
	Have    int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("set %s sheet %s has %d eligible cards, need %d",
		e.SetCode, e.Sheet, e.Have, e.Need)
}
