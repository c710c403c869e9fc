package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
)

func setupReactionService(t *testing.T) (photoTestEnv, *ReactionService) {
	t.Helper()

	env := setupPhotoTestEnv(t)
	reactionRepo := repository.NewReactionRepository(env.db)
	return env, NewReactionService(reactionRepo, env.photoRepo)
}

func TestReactionService_React_Toggle(t *testing.T) {
	env, reactions := setupReactionService(t)
	user := createTestUser(t, env.db, "reactor")
	photo := uploadTestPhoto(t, env, user.ID, "Reacted", "")

	result, err := reactions.React(user.ID, photo.ID, "like")
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	require.Equal(t, models.ReactionLike, *result.Value)
	require.Equal(t, int64(1), result.Likes)
	require.Zero(t, result.Dislikes)

	// Repeating the same reaction removes it.
	result, err = reactions.React(user.ID, photo.ID, "like")
	require.NoError(t, err)
	require.Nil(t, result.Value)
	require.Zero(t, result.Likes)
	require.Zero(t, result.Dislikes)
}

func TestReactionService_React_Flip(t *testing.T) {
	env, reactions := setupReactionService(t)
	user := createTestUser(t, env.db, "reactor")
	photo := uploadTestPhoto(t, env, user.ID, "Flipped", "")

	_, err := reactions.React(user.ID, photo.ID, "like")
	require.NoError(t, err)

	// The opposite reaction replaces the existing one instead of stacking.
	result, err := reactions.React(user.ID, photo.ID, "dislike")
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	require.Equal(t, models.ReactionDislike, *result.Value)
	require.Zero(t, result.Likes)
	require.Equal(t, int64(1), result.Dislikes)

	var count int64
	require.NoError(t, env.db.Model(&models.Reaction{}).
		Where("user_id = ? AND photo_id = ?", user.ID, photo.ID).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestReactionService_React_MultipleUsers(t *testing.T) {
	env, reactions := setupReactionService(t)
	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	carol := createTestUser(t, env.db, "carol")
	photo := uploadTestPhoto(t, env, alice.ID, "Popular", "")

	_, err := reactions.React(alice.ID, photo.ID, "like")
	require.NoError(t, err)
	_, err = reactions.React(bob.ID, photo.ID, "like")
	require.NoError(t, err)
	result, err := reactions.React(carol.ID, photo.ID, "dislike")
	require.NoError(t, err)

	require.Equal(t, int64(2), result.Likes)
	require.Equal(t, int64(1), result.Dislikes)
}

func TestReactionService_React_Invalid(t *testing.T) {
	env, reactions := setupReactionService(t)
	user := createTestUser(t, env.db, "reactor")
	photo := uploadTestPhoto(t, env, user.ID, "Validated", "")

	_, err := reactions.React(user.ID, photo.ID, "love")
	require.ErrorIs(t, err, ErrInvalidReaction)

	_, err = reactions.React(user.ID, photo.ID+999, "like")
	require.ErrorIs(t, err, ErrPhotoNotFound)
}
