package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebin/pkg/models"
)

type flagFixture struct {
	*commentFixture
	flags    FlagService
	flagRepo *fakeFlagRepo
}

func newFlagFixture(t *testing.T) *flagFixture {
	t.Helper()
	cf := newCommentFixture(t)
	flagRepo := newFakeFlagRepo()
	return &flagFixture{
		commentFixture: cf,
		flags:          NewFlagService(flagRepo, cf.comments),
		flagRepo:       flagRepo,
	}
}

func TestDuplicateFlagScenario(t *testing.T) {
	f := newFlagFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "pub", callerU1, "flag me", nil)

	res, err := f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	require.NoError(t, err)
	assert.True(t, res.Flagged)

	// Identical second flag: same success, still one stored row
	res, err = f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	require.NoError(t, err)
	assert.True(t, res.Flagged)

	stored, total, err := f.flagRepo.ListOpen(ctx, &a.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].ReporterUserID)
	assert.Equal(t, "u2", *stored[0].ReporterUserID)

	// A different reason from the same reporter is a distinct flag
	_, err = f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonAbuse})
	require.NoError(t, err)
	_, total, err = f.flagRepo.ListOpen(ctx, &a.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestAnonymousFlagsShareBucket(t *testing.T) {
	f := newFlagFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "pub", callerU1, "spam?", nil)

	// Two anonymous reports with the same reason deduplicate against each
	// other: anonymous reporters are deliberately not distinguished.
	_, err := f.flags.Flag(ctx, a.ID, nil, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	require.NoError(t, err)
	_, err = f.flags.Flag(ctx, a.ID, nil, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	require.NoError(t, err)

	_, total, err := f.flagRepo.ListOpen(ctx, &a.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestUnflagAlwaysSucceeds(t *testing.T) {
	f := newFlagFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "pub", callerU1, "calm down", nil)

	// Nothing to remove yet
	res, err := f.flags.Unflag(ctx, a.ID, callerU2, models.FlagReasonSpam)
	require.NoError(t, err)
	assert.True(t, res.Unflagged)

	// Round trip: flag, unflag, gone
	_, err = f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	require.NoError(t, err)
	_, err = f.flags.Unflag(ctx, a.ID, callerU2, models.FlagReasonSpam)
	require.NoError(t, err)

	_, total, err := f.flagRepo.ListOpen(ctx, &a.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	// Even a nonexistent comment id does not error
	res, err = f.flags.Unflag(ctx, "no-such-comment", callerU2, models.FlagReasonOther)
	require.NoError(t, err)
	assert.True(t, res.Unflagged)
}

func TestFlagValidation(t *testing.T) {
	f := newFlagFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "pub", callerU1, "target", nil)

	_, err := f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{Reason: "ugly"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	long := make([]byte, models.MaxFlagMessageLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{
		Reason:  models.FlagReasonOther,
		Message: string(long),
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestFlagTargetVisibility(t *testing.T) {
	f := newFlagFixture(t)
	ctx := context.Background()

	// Comments on private snippets cannot be flagged by outsiders, and the
	// failure is the same NotFound a missing comment produces.
	hidden := f.mustCreate(t, "priv", callerU1, "private talk", nil)

	_, errPrivate := f.flags.Flag(ctx, hidden.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	_, errMissing := f.flags.Flag(ctx, "no-such-comment", callerU2, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	assert.ErrorIs(t, errPrivate, models.ErrNotFound)
	assert.Equal(t, errPrivate, errMissing)

	// Deleted comments flag like missing ones for strangers
	c := f.mustCreate(t, "pub", callerU1, "deleted soon", nil)
	require.NoError(t, f.comments.SoftDelete(ctx, c.ID, callerU1))
	_, err := f.flags.Flag(ctx, c.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonSpam})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListFlagsRequiresModerator(t *testing.T) {
	f := newFlagFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "pub", callerU1, "reported", nil)
	_, err := f.flags.Flag(ctx, a.ID, callerU2, models.FlagCommentRequest{Reason: models.FlagReasonAbuse, Message: "rude"})
	require.NoError(t, err)

	_, err = f.flags.ListFlags(ctx, callerU2, nil, 1, 20)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.flags.ListFlags(ctx, nil, nil, 1, 20)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	mod := &models.Identity{ID: "m1", Role: models.UserRoleModerator}
	res, err := f.flags.ListFlags(ctx, mod, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, models.FlagReasonAbuse, res.Data[0].Reason)
	assert.Equal(t, "rude", res.Data[0].Message)
}
