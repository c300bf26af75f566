// Package core - Core Business Logic
// Protocol-agnostic services for snippets, comment threads and moderation
// flags, shared by every transport.
package core

import "codebin/pkg/models"

// The access policy is the single place ownership and visibility are
// decided. Every read and write against a content item routes through it, so
// the existence-hiding contract holds uniformly: a denied caller receives the
// same ErrNotFound a missing resource produces, and can never distinguish
// "private" from "nonexistent".
//
// The policy is pure. It takes already-fetched entities and performs no I/O.

// CanRead reports whether the caller may view the content item. Public items
// are readable by anyone, including anonymous callers; private items only by
// their owner or an admin.
func CanRead(item models.ContentItem, caller *models.Identity) bool {
	if item.GetIsPublic() {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.ID == item.GetOwnerID() || caller.Role == models.UserRoleAdmin
}

// CanModify reports whether the caller may write or administer the content
// item. Public visibility grants no write access.
func CanModify(item models.ContentItem, caller *models.Identity) bool {
	if caller == nil {
		return false
	}
	return caller.ID == item.GetOwnerID() || caller.Role == models.UserRoleAdmin
}

// AssertReadable returns ErrNotFound when the caller may not view the item.
// Never a forbidden-style error: that would leak that the item exists.
func AssertReadable(item models.ContentItem, caller *models.Identity) error {
	if !CanRead(item, caller) {
		return models.ErrNotFound
	}
	return nil
}

// AssertOwnerOrAdmin returns ErrNotFound when the caller may not modify the
// item. Same existence-hiding contract as AssertReadable, applied to writes.
func AssertOwnerOrAdmin(item models.ContentItem, caller *models.Identity) error {
	if !CanModify(item, caller) {
		return models.ErrNotFound
	}
	return nil
}
