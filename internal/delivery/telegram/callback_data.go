package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Callback action constants.
const (
	actionConfirm = "confirm"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildConfirmCallback builds callback data for grading one slot of an attempt.
func buildConfirmCallback(attemptID uuid.UUID, slot int) string {
	return callbackData{
		Action: actionConfirm,
		Params: []string{attemptID.String(), strconv.Itoa(slot)},
	}.encode()
}

func parseConfirmCallback(cd callbackData) (uuid.UUID, int, error) {
	if cd.Action != actionConfirm || len(cd.Params) != 2 {
		return uuid.Nil, 0, fmt.Errorf("malformed confirm callback %q", cd.Raw)
	}

	id, err := uuid.Parse(cd.Params[0])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("parse attempt id: %w", err)
	}

	slot, err := strconv.Atoi(cd.Params[1])
	if err != nil || slot < 0 {
		return uuid.Nil, 0, fmt.Errorf("invalid slot in %q", cd.Raw)
	}

	return id, slot, nil
}
