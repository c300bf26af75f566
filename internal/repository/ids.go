package repository

import "codebin/pkg/utils"

// fallbackID is used when a caller hands the repository an entity without an
// id. Services normally assign IDs up front; this keeps inserts total.
func fallbackID(prefix string) string {
	return utils.GenerateID(prefix)
}
