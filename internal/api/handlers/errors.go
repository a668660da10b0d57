package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/booster-sim/internal/api/response"
	"github.com/ramonehamilton/booster-sim/internal/booster"
)

// writeError maps generator errors onto HTTP status codes. Unknown set
// codes are a client problem; sheet errors mean the loaded data cannot
// serve the request until the next sync.
func writeError(w http.ResponseWriter, err error) {
	var unknownSet *booster.UnknownSetError
	if errors.As(err, &unknownSet) {
		response.NotFound(w, err)
		return
	}

	var emptySheet *booster.EmptySheetError
	var insufficient *booster.InsufficientCardsError
	var noDecks *booster.JumpstartUnavailableError
	if errors.As(err, &emptySheet) || errors.As(err, &insufficient) || errors.As(err, &noDecks) {
		response.ServiceUnavailable(w, err)
		return
	}

	response.InternalError(w, err)
}
