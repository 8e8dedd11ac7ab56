package pg

import (
	"context"
	"testing"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesAndDishes(t *testing.T) {
	ctx := context.Background()

	cat, err := storage.SaveCategory(ctx, domain.Category{Name: "Starters", ImageURL: "/media/a.png", ImageKey: "a.png"})
	require.NoError(t, err)
	assert.Greater(t, cat.Id, int64(0))

	_, err = storage.SaveCategory(ctx, domain.Category{Name: "Starters"})
	assert.ErrorIs(t, err, errors.Conflict(""), "duplicate names are a conflict")

	dish, err := storage.SaveDish(ctx, domain.Dish{Name: "Samosa", Price: 4.5, Description: "*crispy*", CategoryId: cat.Id})
	require.NoError(t, err)
	require.NotNil(t, dish.Category)
	assert.Equal(t, "Starters", dish.Category.Name)

	_, err = storage.SaveDish(ctx, domain.Dish{Name: "Ghost", Price: 1, CategoryId: 999999})
	assert.ErrorIs(t, err, errors.Validation(""), "unknown category is a validation error")

	_, err = storage.DeleteCategory(ctx, cat.Id)
	assert.ErrorIs(t, err, errCategoryInUse)

	dish.Price = 5
	dish.ImageKey = "dish.png"
	updated, err := storage.UpdateDish(ctx, dish)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Price)
	assert.Equal(t, "dish.png", updated.ImageKey)

	dishes, err := storage.Dishes(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, dishes)

	deletedDish, err := storage.DeleteDish(ctx, dish.Id)
	require.NoError(t, err)
	assert.Equal(t, "dish.png", deletedDish.ImageKey)
	_, err = storage.Dish(ctx, dish.Id)
	assert.True(t, errors.IsNotFound(err))

	deleted, err := storage.DeleteCategory(ctx, cat.Id)
	require.NoError(t, err)
	assert.Equal(t, "a.png", deleted.ImageKey)

	_, err = storage.DeleteCategory(ctx, cat.Id)
	assert.True(t, errors.IsNotFound(err))
}

func TestMenuItems(t *testing.T) {
	ctx := context.Background()

	item, err := storage.SaveMenuItem(ctx, domain.MenuItem{Title: "Gold package", Price: 1200, Points: domain.Points{"Biryani", "Dessert"}})
	require.NoError(t, err)

	got, err := storage.MenuItem(ctx, item.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.Points{"Biryani", "Dessert"}, got.Points)

	got.Points = nil
	got.Title = "Silver package"
	updated, err := storage.UpdateMenuItem(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Silver package", updated.Title)
	assert.Empty(t, updated.Points)

	_, err = storage.DeleteMenuItem(ctx, item.Id)
	require.NoError(t, err)
	_, err = storage.DeleteMenuItem(ctx, item.Id)
	assert.True(t, errors.IsNotFound(err))
	_, err = storage.UpdateMenuItem(ctx, domain.MenuItem{Id: item.Id, Title: "x"})
	assert.True(t, errors.IsNotFound(err))
}

func TestPosters(t *testing.T) {
	ctx := context.Background()
	resetTables(t, "posters")

	first, err := storage.SavePoster(ctx, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	second, err := storage.SavePoster(ctx, "https://cdn.example.com/b.png")
	require.NoError(t, err)

	// updating the first one moves it to the top
	_, err = storage.UpdatePoster(ctx, first.Id, "https://cdn.example.com/c.png")
	require.NoError(t, err)

	posters, err := storage.Posters(ctx)
	require.NoError(t, err)
	require.Len(t, posters, 2)
	assert.Equal(t, first.Id, posters[0].Id)
	assert.Equal(t, "https://cdn.example.com/c.png", posters[0].Link)

	require.NoError(t, storage.DeletePoster(ctx, second.Id))
	assert.True(t, errors.IsNotFound(storage.DeletePoster(ctx, second.Id)))
	_, err = storage.UpdatePoster(ctx, second.Id, "https://cdn.example.com/d.png")
	assert.True(t, errors.IsNotFound(err))
}

func TestGalleryImages(t *testing.T) {
	ctx := context.Background()
	resetTables(t, "gallery_images")

	for i, category := range []domain.ImageCategory{domain.ImageCategoryVenue, domain.ImageCategoryDecor, domain.ImageCategoryVenue} {
		_, err := storage.SaveGalleryImage(ctx, domain.GalleryImage{Link: "/media/img.png", Key: "key-" + string(rune('a'+i)), Category: category})
		require.NoError(t, err)
	}

	venue, err := storage.GalleryImagesByCategory(ctx, domain.ImageCategoryVenue)
	require.NoError(t, err)
	assert.Len(t, venue, 2)

	random, err := storage.RandomGalleryImages(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, random, 2)

	all, err := storage.GalleryImages(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	deleted, err := storage.DeleteGalleryImage(ctx, all[0].Id)
	require.NoError(t, err)
	assert.Equal(t, all[0].Key, deleted.Key)
	_, err = storage.DeleteGalleryImage(ctx, all[0].Id)
	assert.True(t, errors.IsNotFound(err))
}

func TestContactMessages(t *testing.T) {
	msg, err := storage.SaveContactMessage(context.Background(), domain.ContactMessage{Name: "Bob", Email: "bob@example.com", Message: "Hello"})
	require.NoError(t, err)
	assert.Greater(t, msg.Id, int64(0))
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestPing(t *testing.T) {
	assert.NoError(t, storage.Ping(context.Background()))
}
