package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/photoboard/photoboard/internal/database"
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
	"github.com/photoboard/photoboard/internal/storage"
)

type photoTestEnv struct {
	db           *gorm.DB
	blobs        *storage.MemoryStorage
	photoService *PhotoService
	photoRepo    repository.PhotoRepository
	tagRepo      repository.TagRepository
}

func setupPhotoTestEnv(t *testing.T) photoTestEnv {
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

	blobs := storage.NewMemoryStorage()
	authz := NewAuthzService(userRepo, roleRepo)
	photoService := NewPhotoService(photoRepo, tagRepo, blobs, authz)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return photoTestEnv{
		db:           db,
		blobs:        blobs,
		photoService: photoService,
		photoRepo:    photoRepo,
		tagRepo:      tagRepo,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func makeTestImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadTestPhoto(t *testing.T, env photoTestEnv, userID uint64, title, tags string) *models.Photo {
	t.Helper()

	photo, err := env.photoService.CreatePhoto(context.Background(), CreatePhotoInput{
		Title:       title,
		Description: "test photo",
		Category:    models.CategoryNature,
		Tags:        tags,
		Image:       makeTestImage(t),
		ContentType: "image/png",
		UploaderID:  userID,
	})
	require.NoError(t, err)
	return photo
}

func TestPhotoService_CreatePhoto_SlugCollision(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	first := uploadTestPhoto(t, env, user.ID, "Sunset", "")
	require.Equal(t, "sunset", first.Slug)

	second := uploadTestPhoto(t, env, user.ID, "Sunset", "")
	require.Equal(t, "sunset-1", second.Slug)

	third := uploadTestPhoto(t, env, user.ID, "Sunset", "")
	require.Equal(t, "sunset-2", third.Slug)
}

func TestPhotoService_CreatePhoto_SlugFallback(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	// A title with no transliterable characters gets a generated stub.
	photo := uploadTestPhoto(t, env, user.ID, "???", "")
	require.Regexp(t, `^photo-[0-9a-f]{8}$`, photo.Slug)
}

func TestPhotoService_CreatePhoto_StoresBlobs(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	photo := uploadTestPhoto(t, env, user.ID, "Harbor", "")
	require.True(t, env.blobs.Has(photo.ObjectKey))
	require.True(t, env.blobs.Has(photo.ThumbKey))
}

func TestPhotoService_CreatePhoto_RejectsInvalidInput(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	_, err := env.photoService.CreatePhoto(context.Background(), CreatePhotoInput{
		Title:       "",
		Image:       makeTestImage(t),
		ContentType: "image/png",
		UploaderID:  user.ID,
	})
	require.ErrorIs(t, err, ErrPhotoTitleRequired)

	_, err = env.photoService.CreatePhoto(context.Background(), CreatePhotoInput{
		Title:       "Nice",
		Category:    "landscape",
		Image:       makeTestImage(t),
		ContentType: "image/png",
		UploaderID:  user.ID,
	})
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = env.photoService.CreatePhoto(context.Background(), CreatePhotoInput{
		Title:       "Nice",
		Image:       []byte("definitely not an image"),
		ContentType: "image/png",
		UploaderID:  user.ID,
	})
	require.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = env.photoService.CreatePhoto(context.Background(), CreatePhotoInput{
		Title:       "Nice",
		Image:       makeTestImage(t),
		ContentType: "text/plain",
		UploaderID:  user.ID,
	})
	require.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestPhotoService_GetPhotoBySlug_CountsViews(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")
	photo := uploadTestPhoto(t, env, user.ID, "Viewed", "")

	for i := 0; i < 3; i++ {
		_, err := env.photoService.GetPhotoBySlug(photo.Slug)
		require.NoError(t, err)
	}

	reloaded, err := env.photoRepo.FindByID(photo.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(3), reloaded.ViewCount)
}

func TestPhotoService_ListPhotos_RejectsUnknownSort(t *testing.T) {
	env := setupPhotoTestEnv(t)

	_, _, err := env.photoService.ListPhotos(ListPhotosInput{Sort: "password_hash"})
	require.ErrorIs(t, err, ErrInvalidSortField)

	_, _, err = env.photoService.ListPhotos(ListPhotosInput{Sort: "-view_count"})
	require.NoError(t, err)
}

func seedPhotoAt(t *testing.T, env photoTestEnv, userID uint64, title, slug string, category models.PhotoCategory, uploadedAt time.Time) *models.Photo {
	t.Helper()

	photo := &models.Photo{
		Title:      title,
		Slug:       slug,
		ObjectKey:  "photos/" + slug,
		Category:   category,
		UploaderID: &userID,
		UploadedAt: uploadedAt,
	}
	require.NoError(t, env.photoRepo.Create(photo))
	return photo
}

func TestPhotoService_AdjacentPhotos(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	older := seedPhotoAt(t, env, user.ID, "Older", "older", models.CategoryNature, base.Add(-time.Hour))
	middle := seedPhotoAt(t, env, user.ID, "Middle", "middle", models.CategoryPeople, base)
	newer := seedPhotoAt(t, env, user.ID, "Newer", "newer", models.CategoryNature, base.Add(time.Hour))

	prev, next, err := env.photoService.AdjacentPhotos(middle, false)
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.Equal(t, older.ID, prev.ID)
	require.NotNil(t, next)
	require.Equal(t, newer.ID, next.ID)

	// The oldest photo has no predecessor.
	prev, next, err = env.photoService.AdjacentPhotos(older, false)
	require.NoError(t, err)
	require.Nil(t, prev)
	require.NotNil(t, next)
	require.Equal(t, middle.ID, next.ID)

	// Category-scoped navigation skips photos from other categories.
	prev, next, err = env.photoService.AdjacentPhotos(newer, true)
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.Equal(t, older.ID, prev.ID)
	require.Nil(t, next)
}

func TestPhotoService_RelatedPhotos(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	target := uploadTestPhoto(t, env, user.ID, "Target", "sea, sky, rocks")
	twoShared := uploadTestPhoto(t, env, user.ID, "Two shared", "sea, sky")
	oneShared := uploadTestPhoto(t, env, user.ID, "One shared", "sea, boats")
	_ = uploadTestPhoto(t, env, user.ID, "Unrelated", "forest")

	related, err := env.photoService.RelatedPhotos(target)
	require.NoError(t, err)
	require.Len(t, related, 2)
	require.Equal(t, twoShared.ID, related[0].ID)
	require.Equal(t, oneShared.ID, related[1].ID)

	// A photo without tags has no related photos.
	untagged := uploadTestPhoto(t, env, user.ID, "Untagged", "")
	related, err = env.photoService.RelatedPhotos(untagged)
	require.NoError(t, err)
	require.Empty(t, related)
}

func TestPhotoService_SetTags_ReplaceSemantics(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	photo := uploadTestPhoto(t, env, user.ID, "Tagged", " sea , sky, sea ,  , sky")
	loaded, err := env.photoRepo.FindByID(photo.ID, "Tags")
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 2)

	// Setting a new list replaces the old one entirely.
	require.NoError(t, env.photoService.SetTags(loaded, "mountains"))
	loaded, err = env.photoRepo.FindByID(photo.ID, "Tags")
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	require.Equal(t, "mountains", loaded.Tags[0].Name)

	// Reusing an existing name does not create a duplicate tag.
	var tagCount int64
	require.NoError(t, env.db.Model(&models.Tag{}).Where("name = ?", "mountains").Count(&tagCount).Error)
	require.Equal(t, int64(1), tagCount)
}

func TestPhotoService_SetTags_SlugCollision(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	// Names that normalize to the same slug resolve to one tag row.
	first := uploadTestPhoto(t, env, user.ID, "First", "Go!")
	second := uploadTestPhoto(t, env, user.ID, "Second", "Go")

	firstLoaded, err := env.photoRepo.FindByID(first.ID, "Tags")
	require.NoError(t, err)
	secondLoaded, err := env.photoRepo.FindByID(second.ID, "Tags")
	require.NoError(t, err)
	require.Len(t, firstLoaded.Tags, 1)
	require.Len(t, secondLoaded.Tags, 1)
	require.Equal(t, firstLoaded.Tags[0].ID, secondLoaded.Tags[0].ID)
	require.Equal(t, "go", firstLoaded.Tags[0].Slug)

	// Case-only differences collapse the same way.
	sunset, err := env.tagRepo.GetOrCreate("Sunset")
	require.NoError(t, err)
	lower, err := env.tagRepo.GetOrCreate("sunset")
	require.NoError(t, err)
	require.Equal(t, sunset.ID, lower.ID)

	var tagCount int64
	require.NoError(t, env.db.Model(&models.Tag{}).Where("slug = ?", "go").Count(&tagCount).Error)
	require.Equal(t, int64(1), tagCount)
}

type failingTagRepo struct {
	repository.TagRepository
}

func (failingTagRepo) GetOrCreate(name string) (*models.Tag, error) {
	return nil, errors.New("tag store down")
}

func TestPhotoService_CreatePhoto_TagFailureRollsBack(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")

	userRepo := repository.NewUserRepository(env.db)
	roleRepo := repository.NewRoleRepository(env.db)
	authz := NewAuthzService(userRepo, roleRepo)
	service := NewPhotoService(env.photoRepo, failingTagRepo{env.tagRepo}, env.blobs, authz)

	_, err := service.CreatePhoto(context.Background(), CreatePhotoInput{
		Title:       "Doomed",
		Category:    models.CategoryNature,
		Tags:        "sea",
		Image:       makeTestImage(t),
		ContentType: "image/png",
		UploaderID:  user.ID,
	})
	require.Error(t, err)

	// Neither the row nor the blobs survive the failed upload.
	var photoCount int64
	require.NoError(t, env.db.Model(&models.Photo{}).Count(&photoCount).Error)
	require.Equal(t, int64(0), photoCount)
	require.Equal(t, 0, env.blobs.Len())
}

func TestPhotoService_DeletePhoto_Permissions(t *testing.T) {
	env := setupPhotoTestEnv(t)
	owner := createTestUser(t, env.db, "owner")
	stranger := createTestUser(t, env.db, "stranger")
	staff := createTestUser(t, env.db, "staff")
	require.NoError(t, env.db.Model(staff).Update("is_staff", true).Error)

	photo := uploadTestPhoto(t, env, owner.ID, "Mine", "")

	err := env.photoService.DeletePhoto(context.Background(), photo.ID, stranger.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, env.photoService.DeletePhoto(context.Background(), photo.ID, staff.ID))
	require.False(t, env.blobs.Has(photo.ObjectKey))
	require.False(t, env.blobs.Has(photo.ThumbKey))

	_, err = env.photoRepo.FindByID(photo.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPhotoService_DeletePhoto_CascadesComments(t *testing.T) {
	env := setupPhotoTestEnv(t)
	owner := createTestUser(t, env.db, "owner")
	photo := uploadTestPhoto(t, env, owner.ID, "Commented", "")

	comment := &models.Comment{PhotoID: photo.ID, UserID: owner.ID, Text: "great shot"}
	require.NoError(t, env.db.Create(comment).Error)
	reaction := &models.Reaction{PhotoID: photo.ID, UserID: owner.ID, Value: models.ReactionLike}
	require.NoError(t, env.db.Create(reaction).Error)

	require.NoError(t, env.photoService.DeletePhoto(context.Background(), photo.ID, owner.ID))

	var commentCount, reactionCount int64
	require.NoError(t, env.db.Model(&models.Comment{}).Where("photo_id = ?", photo.ID).Count(&commentCount).Error)
	require.NoError(t, env.db.Model(&models.Reaction{}).Where("photo_id = ?", photo.ID).Count(&reactionCount).Error)
	require.Zero(t, commentCount)
	require.Zero(t, reactionCount)
}

func TestPhotoService_Stats(t *testing.T) {
	env := setupPhotoTestEnv(t)

	// An empty collection reports zeros without dividing by zero.
	stats, err := env.photoService.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.Total)
	require.Nil(t, stats.Earliest)
	require.Nil(t, stats.Latest)
	for _, stat := range stats.PerCategory {
		require.Zero(t, stat.Count)
		require.Zero(t, stat.Percentage)
	}

	user := createTestUser(t, env.db, "uploader")
	base := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedPhotoAt(t, env, user.ID, "A", "a", models.CategoryNature, base)
	seedPhotoAt(t, env, user.ID, "B", "b", models.CategoryNature, base.AddDate(1, 0, 0))
	seedPhotoAt(t, env, user.ID, "C", "c", models.CategoryPeople, base.AddDate(1, 1, 0))
	seedPhotoAt(t, env, user.ID, "D", "d", models.CategoryOther, base.AddDate(1, 2, 0))

	stats, err = env.photoService.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(2), stats.PerCategory[models.CategoryNature].Count)
	require.InDelta(t, 50.0, stats.PerCategory[models.CategoryNature].Percentage, 0.001)
	require.InDelta(t, 25.0, stats.PerCategory[models.CategoryPeople].Percentage, 0.001)
	require.Zero(t, stats.PerCategory[models.CategoryAnimals].Count)
	require.Equal(t, int64(1), stats.PerYear[2023])
	require.Equal(t, int64(3), stats.PerYear[2024])
	require.NotNil(t, stats.Earliest)
	require.Equal(t, "a", stats.Earliest.Slug)
	require.NotNil(t, stats.Latest)
	require.Equal(t, "d", stats.Latest.Slug)
}

func TestPhotoService_UpdatePhoto_KeepsSlug(t *testing.T) {
	env := setupPhotoTestEnv(t)
	user := createTestUser(t, env.db, "uploader")
	photo := uploadTestPhoto(t, env, user.ID, "Original", "")

	newTitle := "Renamed completely"
	updated, err := env.photoService.UpdatePhoto(photo.ID, user.ID, UpdatePhotoInput{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "Renamed completely", updated.Title)
	require.Equal(t, photo.Slug, updated.Slug)
}
