package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/internal/service/servicetest"
	"go-vidtube/pkg/apierror"
)

func listQuery(page int, limit int) model.ListQuery {
	return model.ListQuery{Page: page, Limit: limit, Desc: true}
}

func TestIsOwner(t *testing.T) {
	t.Parallel()

	video := model.Video{OwnerID: "alice"}
	assert.True(t, IsOwner(video, "alice"))
	assert.False(t, IsOwner(video, "bob"))
	assert.False(t, IsOwner(model.Video{}, ""))
}

func TestCommentServiceOwnership(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	video := mem.SeedVideo(alice.ID, "intro")
	svc := NewCommentService(mem.Comments(), mem.Videos())
	ctx := context.Background()

	comment, err := svc.Add(ctx, video.ID, alice.ID, "  first! <b>nice</b> ")
	require.NoError(t, err)
	assert.Equal(t, "first! nice", comment.Content)
	assert.Equal(t, "alice", comment.Owner.Username)

	_, err = svc.Update(ctx, comment.ID, bob.ID, "hijacked")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	err = svc.Delete(ctx, comment.ID, bob.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	unchanged, err := mem.Comments().FindByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "first! nice", unchanged.Content)

	require.NoError(t, svc.Delete(ctx, comment.ID, alice.ID))
	err = svc.Delete(ctx, comment.ID, alice.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	_, err = svc.Add(ctx, video.ID, alice.ID, "<script>x</script>")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	_, err = svc.Add(ctx, "missing-video", alice.ID, "hello")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
}

func TestCommentServicePagination(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	video := mem.SeedVideo(alice.ID, "intro")
	svc := NewCommentService(mem.Comments(), mem.Videos())
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Add(ctx, video.ID, alice.ID, "comment")
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, video.ID, listQuery(2, 5))
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	last, err := svc.List(ctx, video.ID, listQuery(3, 5))
	require.NoError(t, err)
	assert.Len(t, last.Items, 2)
}

func TestVideoServiceWatch(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	video := mem.SeedVideo(alice.ID, "intro")
	svc := NewVideoService(mem.Videos(), mem.Users(), servicetest.URLUploader{})
	users := NewUserService(mem.Users(), mem.Videos(), mem.Subscriptions(), servicetest.URLUploader{})
	ctx := context.Background()

	watched, err := svc.Watch(ctx, video.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), watched.Views)

	_, err = svc.Watch(ctx, video.ID, bob.ID)
	require.NoError(t, err)

	stored, _ := mem.Videos().FindByID(ctx, video.ID)
	assert.Equal(t, int64(2), stored.Views)

	history, err := users.WatchHistory(ctx, bob.ID, listQuery(1, 10))
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, video.ID, history.Items[0].Video.ID)

	_, err = svc.TogglePublish(ctx, video.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.Watch(ctx, video.ID, bob.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err), "unpublished videos are hidden from others")

	_, err = svc.Watch(ctx, video.ID, alice.ID)
	assert.NoError(t, err)
}

func TestVideoServicePublishAndUpdate(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	svc := NewVideoService(mem.Videos(), mem.Users(), servicetest.URLUploader{})
	ctx := context.Background()

	_, err := svc.Publish(ctx, alice.ID, model.PublishVideoInput{Title: "t", Description: "d", ThumbnailPath: "thumb.png"})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	video, err := svc.Publish(ctx, alice.ID, model.PublishVideoInput{
		Title: "Go tour", Description: "basics", VideoPath: "clip.mp4", ThumbnailPath: "thumb.png",
	})
	require.NoError(t, err)
	assert.True(t, video.IsPublished)
	assert.Equal(t, "http://media.test/videos/clip.mp4", video.VideoURL)
	assert.Equal(t, "http://media.test/images/thumb.png", video.Thumbnail)

	title := "hacked"
	_, err = svc.Update(ctx, video.ID, bob.ID, model.UpdateVideoInput{Title: &title})
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	title = "Go tour, part 1"
	updated, err := svc.Update(ctx, video.ID, alice.ID, model.UpdateVideoInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Go tour, part 1", updated.Title)
	assert.Equal(t, "basics", updated.Description)

	_, err = svc.Update(ctx, video.ID, alice.ID, model.UpdateVideoInput{})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	require.Error(t, svc.Delete(ctx, video.ID, bob.ID))
	require.NoError(t, svc.Delete(ctx, video.ID, alice.ID))
	_, err = mem.Videos().FindByID(ctx, video.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
}

func TestVideoServicePublishMinimalInput(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	svc := NewVideoService(mem.Videos(), mem.Users(), servicetest.URLUploader{})

	video, err := svc.Publish(context.Background(), alice.ID, model.PublishVideoInput{Title: "clip", VideoPath: "/tmp/clip.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "clip", video.Title)
	assert.Empty(t, video.Description)
	assert.Empty(t, video.Thumbnail)
	assert.Equal(t, "http://media.test/videos//tmp/clip.mp4", video.VideoURL)

	_, err = svc.Publish(context.Background(), alice.ID, model.PublishVideoInput{Title: "  ", VideoPath: "/tmp/clip.mp4"})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
}

func TestVideoServicePublishDiscardsVideoWhenThumbnailFails(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	uploader := new(servicetest.MockUploader)
	svc := NewVideoService(mem.Videos(), mem.Users(), uploader)

	clip := media.Asset{URL: "http://media.test/clip.mp4", Key: "videos/clip.mp4"}
	uploader.On("Upload", mock.Anything, "/tmp/clip.mp4", media.KindVideo).Return(clip, nil).Once()
	uploader.On("Upload", mock.Anything, "/tmp/thumb.png", media.KindImage).
		Return(media.Asset{}, apierror.BadRequest("file is not a supported image", "thumb.png")).Once()
	uploader.On("Discard", mock.Anything, clip).Return(errors.New("already gone")).Once()

	_, err := svc.Publish(context.Background(), alice.ID, model.PublishVideoInput{
		Title: "clip", VideoPath: "/tmp/clip.mp4", ThumbnailPath: "/tmp/thumb.png",
	})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
	uploader.AssertExpectations(t)

	page, err := svc.List(context.Background(), listQuery(1, 10), alice.ID)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestUnpublishedVideoIsHiddenFromInteractions(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	draft := mem.SeedVideo(alice.ID, "draft")
	videos := NewVideoService(mem.Videos(), mem.Users(), servicetest.URLUploader{})
	comments := NewCommentService(mem.Comments(), mem.Videos())
	likes := NewLikeService(mem.Likes(), mem.Videos(), mem.Comments(), mem.Tweets())
	playlists := NewPlaylistService(mem.Playlists(), mem.Videos(), mem.Users(), servicetest.URLUploader{})
	ctx := context.Background()

	_, err := videos.TogglePublish(ctx, draft.ID, alice.ID)
	require.NoError(t, err)
	bobList, err := playlists.Create(ctx, bob.ID, model.CreatePlaylistInput{Name: "later"})
	require.NoError(t, err)
	aliceList, err := playlists.Create(ctx, alice.ID, model.CreatePlaylistInput{Name: "drafts"})
	require.NoError(t, err)

	_, err = comments.Add(ctx, draft.ID, bob.ID, "first")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
	_, err = likes.Toggle(ctx, bob.ID, model.LikeTargetVideo, draft.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
	_, err = playlists.AddVideo(ctx, bobList.ID, draft.ID, bob.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	_, err = comments.Add(ctx, draft.ID, alice.ID, "note to self")
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, alice.ID, model.LikeTargetVideo, draft.ID)
	require.NoError(t, err)
	_, err = playlists.AddVideo(ctx, aliceList.ID, draft.ID, alice.ID)
	require.NoError(t, err)
}

func TestVideoServiceListHidesUnpublished(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	svc := NewVideoService(mem.Videos(), mem.Users(), servicetest.URLUploader{})
	dashboard := NewDashboardService(mem.Dashboard(), mem.Subscriptions(), mem.Videos(), mem.Users())
	ctx := context.Background()

	mem.SeedVideo(alice.ID, "cats")
	hidden := mem.SeedVideo(alice.ID, "dogs")
	_, err := svc.TogglePublish(ctx, hidden.ID, alice.ID)
	require.NoError(t, err)

	public, err := svc.List(ctx, listQuery(1, 10), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, public.Total)

	all, err := dashboard.Videos(ctx, alice.ID, listQuery(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	_, err = svc.List(ctx, listQuery(1, 10), "nobody")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
}

func TestLikeServiceToggle(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	video := mem.SeedVideo(alice.ID, "intro")
	svc := NewLikeService(mem.Likes(), mem.Videos(), mem.Comments(), mem.Tweets())
	ctx := context.Background()

	result, err := svc.Toggle(ctx, alice.ID, model.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)

	liked, err := svc.LikedVideos(ctx, alice.ID, listQuery(1, 10))
	require.NoError(t, err)
	require.Len(t, liked.Items, 1)

	result, err = svc.Toggle(ctx, alice.ID, model.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)

	_, err = svc.Toggle(ctx, alice.ID, model.LikeTargetTweet, "missing")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
}

func TestTweetServiceLifecycle(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	svc := NewTweetService(mem.Tweets(), mem.Users())
	ctx := context.Background()

	tweet, err := svc.Create(ctx, alice.ID, "hello world")
	require.NoError(t, err)

	_, err = svc.Update(ctx, tweet.ID, bob.ID, "mine now")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	updated, err := svc.Update(ctx, tweet.ID, alice.ID, "hello gophers")
	require.NoError(t, err)
	assert.Equal(t, "hello gophers", updated.Content)

	page, err := svc.ListByUser(ctx, alice.ID, listQuery(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, svc.Delete(ctx, tweet.ID, alice.ID))
	_, err = svc.Create(ctx, alice.ID, "   ")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
}

func TestPlaylistServiceVideos(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	video := mem.SeedVideo(alice.ID, "intro")
	other := mem.SeedVideo(bob.ID, "outro")
	svc := NewPlaylistService(mem.Playlists(), mem.Videos(), mem.Users(), servicetest.URLUploader{})
	ctx := context.Background()

	minimal, err := svc.Create(ctx, alice.ID, model.CreatePlaylistInput{Name: "watch later"})
	require.NoError(t, err)
	assert.Empty(t, minimal.Description)
	assert.Empty(t, minimal.Thumbnail)

	_, err = svc.Create(ctx, alice.ID, model.CreatePlaylistInput{Description: "no name"})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	playlist, err := svc.Create(ctx, alice.ID, model.CreatePlaylistInput{Name: "favs", Description: "best"})
	require.NoError(t, err)

	withVideo, err := svc.AddVideo(ctx, playlist.ID, video.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, withVideo.VideoCount)
	require.Len(t, withVideo.Videos, 1)

	_, err = svc.AddVideo(ctx, playlist.ID, video.ID, alice.ID)
	assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))

	_, err = svc.AddVideo(ctx, playlist.ID, other.ID, bob.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err), "only the owner can add videos")

	_, err = svc.RemoveVideo(ctx, playlist.ID, other.ID, alice.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	emptied, err := svc.RemoveVideo(ctx, playlist.ID, video.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, emptied.Videos)

	name := "favourites"
	renamed, err := svc.Update(ctx, playlist.ID, alice.ID, model.UpdatePlaylistInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "favourites", renamed.Name)
	assert.Equal(t, "best", renamed.Description)

	require.Error(t, svc.Delete(ctx, playlist.ID, bob.ID))
	require.NoError(t, svc.Delete(ctx, playlist.ID, alice.ID))
}

func TestSubscriptionServiceToggle(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	svc := NewSubscriptionService(mem.Subscriptions(), mem.Users())
	users := NewUserService(mem.Users(), mem.Videos(), mem.Subscriptions(), servicetest.URLUploader{})
	ctx := context.Background()

	_, err := svc.Toggle(ctx, alice.ID, alice.ID)
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	result, err := svc.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, result.Subscribed)

	profile, err := users.ChannelProfile(ctx, "ALICE", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)

	subscribers, err := svc.Subscribers(ctx, alice.ID, listQuery(1, 10))
	require.NoError(t, err)
	require.Len(t, subscribers.Items, 1)
	assert.Equal(t, "bob", subscribers.Items[0].User.Username)

	channels, err := svc.SubscribedChannels(ctx, bob.ID, listQuery(1, 10))
	require.NoError(t, err)
	require.Len(t, channels.Items, 1)
	assert.Equal(t, "alice", channels.Items[0].User.Username)

	result, err = svc.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, result.Subscribed)
}

func TestDashboardServiceStats(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	bob := mem.SeedUser("bob")
	carol := mem.SeedUser("carol")
	first := mem.SeedVideo(alice.ID, "one")
	mem.SeedVideo(alice.ID, "two")
	ctx := context.Background()

	videos := NewVideoService(mem.Videos(), mem.Users(), servicetest.URLUploader{})
	for i := 0; i < 3; i++ {
		_, err := videos.Watch(ctx, first.ID, bob.ID)
		require.NoError(t, err)
	}
	_, err := mem.Likes().Toggle(ctx, bob.ID, model.LikeTargetVideo, first.ID)
	require.NoError(t, err)

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	mem.Subscriptions().Subscribe(bob.ID, alice.ID, now.AddDate(0, -2, 0))
	mem.Subscriptions().Subscribe(carol.ID, alice.ID, now.AddDate(0, 0, -3))

	svc := NewDashboardService(mem.Dashboard(), mem.Subscriptions(), mem.Videos(), mem.Users())
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ChannelStats{
		TotalSubscribers:        2,
		TotalVideos:             2,
		TotalViews:              3,
		TotalLikes:              1,
		NewSubscribersThisMonth: 1,
		AverageViewsPerVideo:    1.5,
	}, stats)

	empty, err := svc.Stats(ctx, carol.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.AverageViewsPerVideo)
}

func TestUserServiceUpdateAccount(t *testing.T) {
	t.Parallel()

	mem := servicetest.NewMemory()
	alice := mem.SeedUser("alice")
	mem.SeedUser("bob")
	svc := NewUserService(mem.Users(), mem.Videos(), mem.Subscriptions(), servicetest.URLUploader{})
	ctx := context.Background()

	updated, err := svc.UpdateAccount(ctx, alice.ID, model.UpdateAccountRequest{FullName: "Alice A", Email: "ALICE@new.test"})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.test", updated.Email)

	_, err = svc.UpdateAccount(ctx, alice.ID, model.UpdateAccountRequest{FullName: "Alice", Email: "bob@example.com"})
	assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))

	_, err = svc.UpdateAccount(ctx, alice.ID, model.UpdateAccountRequest{FullName: "", Email: "x@y.z"})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	avatar, err := svc.UpdateAvatar(ctx, alice.ID, "new.png")
	require.NoError(t, err)
	assert.Equal(t, "http://media.test/images/new.png", avatar.Avatar)

	_, err = svc.UpdateCoverImage(ctx, alice.ID, "")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
}
