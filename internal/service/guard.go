package service

import "multiuser_blog/internal/models"

// AuthorizeMutation is the only write policy: the requester must be
// authenticated and must own the record.
func AuthorizeMutation(id models.Identity, ownerID int) error {
	if !id.Authenticated {
		return models.ErrNotAuthenticated
	}
	if id.UserID != ownerID {
		return models.ErrNotOwner
	}
	return nil
}
