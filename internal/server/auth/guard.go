package auth

import (
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// CorrectUser allows caller to act only on their own username.
func CorrectUser(caller, userName string) error {
	if caller == "" || caller != userName {
		return fmt.Errorf("%w: %s may not access %s", common.ErrorUnauthorized, caller, userName)
	}
	return nil
}

// MessageParty allows the sender or the recipient of msg.
func MessageParty(caller string, msg *models.MessageDetail) error {
	if caller != "" && (caller == msg.FromUser.UserName || caller == msg.ToUser.UserName) {
		return nil
	}
	return fmt.Errorf("%w: %s is not a party to message %d", common.ErrorUnauthorized, caller, msg.ID)
}

// MessageRecipient allows only the recipient of msg.
func MessageRecipient(caller string, msg *models.MessageDetail) error {
	if caller != "" && caller == msg.ToUser.UserName {
		return nil
	}
	return fmt.Errorf("%w: %s is not the recipient of message %d", common.ErrorUnauthorized, caller, msg.ID)
}
