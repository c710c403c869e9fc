package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/photoboard/photoboard/internal/constants"
	"github.com/photoboard/photoboard/internal/database"
	"github.com/photoboard/photoboard/internal/dto"
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
	"github.com/photoboard/photoboard/internal/services"
	"github.com/photoboard/photoboard/internal/storage"
)

type commentTestEnv struct {
	db             *gorm.DB
	handler        *CommentHandler
	commentService *services.CommentService
}

func setupCommentTestEnv(t *testing.T) commentTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Permission{},
		&models.Group{},
		&models.Photo{},
		&models.Tag{},
		&models.Comment{},
		&models.Reaction{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authz := services.NewAuthzService(userRepo, roleRepo)
	photoService := services.NewPhotoService(photoRepo, tagRepo, storage.NewMemoryStorage(), authz)
	commentService := services.NewCommentService(commentRepo, photoRepo, authz)
	handler := NewCommentHandler(commentService, photoService)

	gin.SetMode(gin.TestMode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return commentTestEnv{
		db:             db,
		handler:        handler,
		commentService: commentService,
	}
}

func (env commentTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env commentTestEnv) createPhoto(t *testing.T, slug string, uploaderID uint64) *models.Photo {
	t.Helper()

	photo := &models.Photo{
		Title:      slug,
		Slug:       slug,
		ObjectKey:  "photos/" + slug,
		Category:   models.CategoryOther,
		UploaderID: &uploaderID,
	}
	require.NoError(t, env.db.Create(photo).Error)
	return photo
}

func postComment(t *testing.T, env commentTestEnv, slug string, userID uint64, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", fmt.Sprintf("/api/photos/%s/comments", slug), bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "slug", Value: slug}}
	c.Set(constants.ContextKeyUserID, userID)

	env.handler.AddComment(c)
	return w
}

func TestCommentHandler_AddComment(t *testing.T) {
	env := setupCommentTestEnv(t)
	user := env.createUser(t, "commenter")
	photo := env.createPhoto(t, "commented", user.ID)

	w := postComment(t, env, photo.Slug, user.ID, map[string]interface{}{
		"text": "What lens did you use?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.CommentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "What lens did you use?", response.Text)
}

func TestCommentHandler_AddComment_TooShort(t *testing.T) {
	env := setupCommentTestEnv(t)
	user := env.createUser(t, "commenter")
	photo := env.createPhoto(t, "commented", user.ID)

	w := postComment(t, env, photo.Slug, user.ID, map[string]interface{}{
		"text": "ok",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentHandler_AddComment_BlockedWord(t *testing.T) {
	env := setupCommentTestEnv(t)
	user := env.createUser(t, "commenter")
	photo := env.createPhoto(t, "commented", user.ID)

	w := postComment(t, env, photo.Slug, user.ID, map[string]interface{}{
		"text": "check out my casino site",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentHandler_AddComment_ReplyDepth(t *testing.T) {
	env := setupCommentTestEnv(t)
	user := env.createUser(t, "commenter")
	photo := env.createPhoto(t, "commented", user.ID)

	top, err := env.commentService.AddComment(services.AddCommentInput{
		PhotoID: photo.ID, UserID: user.ID, Text: "top level",
	})
	require.NoError(t, err)
	reply, err := env.commentService.AddComment(services.AddCommentInput{
		PhotoID: photo.ID, UserID: user.ID, ParentID: &top.ID, Text: "a reply",
	})
	require.NoError(t, err)

	w := postComment(t, env, photo.Slug, user.ID, map[string]interface{}{
		"text":      "reply to a reply",
		"parent_id": reply.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentHandler_ListComments(t *testing.T) {
	env := setupCommentTestEnv(t)
	user := env.createUser(t, "commenter")
	photo := env.createPhoto(t, "commented", user.ID)

	top, err := env.commentService.AddComment(services.AddCommentInput{
		PhotoID: photo.ID, UserID: user.ID, Text: "top level",
	})
	require.NoError(t, err)
	_, err = env.commentService.AddComment(services.AddCommentInput{
		PhotoID: photo.ID, UserID: user.ID, ParentID: &top.ID, Text: "a reply",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", fmt.Sprintf("/api/photos/%s/comments", photo.Slug), nil)
	c.Params = gin.Params{{Key: "slug", Value: photo.Slug}}

	env.handler.ListComments(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Comments []dto.CommentDTO `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Comments, 1)
	require.Len(t, response.Comments[0].Replies, 1)
}

func TestCommentHandler_DeleteComment_NotAuthor(t *testing.T) {
	env := setupCommentTestEnv(t)
	author := env.createUser(t, "author")
	stranger := env.createUser(t, "stranger")
	photo := env.createPhoto(t, "commented", author.ID)

	comment, err := env.commentService.AddComment(services.AddCommentInput{
		PhotoID: photo.ID, UserID: author.ID, Text: "my comment",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", fmt.Sprintf("/api/comments/%d", comment.ID), nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", comment.ID)}}
	c.Set(constants.ContextKeyUserID, stranger.ID)

	env.handler.DeleteComment(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
