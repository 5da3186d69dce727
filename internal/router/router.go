package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-vidtube/internal/config"
	"go-vidtube/internal/handler"
	"go-vidtube/internal/middleware"
)

type Handlers struct {
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Like         *handler.LikeHandler
	Tweet        *handler.TweetHandler
	Playlist     *handler.PlaylistHandler
	Subscription *handler.SubscriptionHandler
	Dashboard    *handler.DashboardHandler
	Health       *handler.HealthHandler
}

// Options carries the optional pieces of the HTTP surface.
type Options struct {
	Metrics       *middleware.Metrics
	SharedLimiter middleware.WindowLimiter
	// MediaRoot, when set, serves locally stored uploads under /media/.
	MediaRoot string
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, opts.SharedLimiter)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Exposition())
	}

	if opts.MediaRoot != "" {
		files := http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaRoot)))
		r.With(middleware.MediaTransfer(cfg.ServerWriteTimeout, cfg.MediaIdleTimeout)).Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
			// No directory listings.
			if strings.HasSuffix(req.URL.Path, "/") {
				http.NotFound(w, req)
				return
			}
			files.ServeHTTP(w, req)
		})
	}

	auth := authMiddleware.RequireAuth
	// Multipart routes stream large bodies, so they run without the buffered request timeout.
	timeout := middleware.Timeout(cfg.RequestTimeout)

	r.Route("/api/v1", func(api chi.Router) {
		api.With(timeout).Get("/healthcheck", h.Health.Healthcheck)

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", h.User.Register)
			users.With(auth).Patch("/avatar", h.User.UpdateAvatar)
			users.With(auth).Patch("/cover-image", h.User.UpdateCoverImage)

			users.Group(func(g chi.Router) {
				g.Use(timeout)
				g.Post("/login", h.User.Login)
				g.Post("/refresh-token", h.User.RefreshToken)

				g.With(auth).Post("/logout", h.User.Logout)
				g.With(auth).Post("/change-password", h.User.ChangePassword)
				g.With(auth).Get("/current-user", h.User.CurrentUser)
				g.With(auth).Patch("/update-account", h.User.UpdateAccount)
				g.With(auth).Get("/c/{username}", h.User.ChannelProfile)
				g.With(auth).Get("/history", h.User.WatchHistory)
			})
		})

		api.Route("/videos", func(videos chi.Router) {
			videos.Use(auth)
			videos.Post("/", h.Video.Publish)
			videos.Patch("/{videoId}", h.Video.Update)

			videos.Group(func(g chi.Router) {
				g.Use(timeout)
				g.Get("/", h.Video.List)
				g.Get("/{videoId}", h.Video.Get)
				g.Delete("/{videoId}", h.Video.Delete)
				g.Patch("/toggle/publish/{videoId}", h.Video.TogglePublish)
			})
		})

		api.Route("/comments", func(comments chi.Router) {
			comments.Use(auth, timeout)
			comments.Get("/{videoId}", h.Comment.List)
			comments.Post("/{videoId}", h.Comment.Add)
			comments.Patch("/c/{commentId}", h.Comment.Update)
			comments.Delete("/c/{commentId}", h.Comment.Delete)
		})

		api.Route("/likes", func(likes chi.Router) {
			likes.Use(auth, timeout)
			likes.Post("/toggle/v/{videoId}", h.Like.ToggleVideo)
			likes.Post("/toggle/c/{commentId}", h.Like.ToggleComment)
			likes.Post("/toggle/t/{tweetId}", h.Like.ToggleTweet)
			likes.Get("/videos", h.Like.LikedVideos)
		})

		api.Route("/tweets", func(tweets chi.Router) {
			tweets.Use(auth, timeout)
			tweets.Post("/", h.Tweet.Create)
			tweets.Get("/user/{userId}", h.Tweet.ListByUser)
			tweets.Patch("/{tweetId}", h.Tweet.Update)
			tweets.Delete("/{tweetId}", h.Tweet.Delete)
		})

		api.Route("/playlist", func(playlists chi.Router) {
			playlists.Use(auth)
			playlists.Post("/", h.Playlist.Create)

			playlists.Group(func(g chi.Router) {
				g.Use(timeout)
				g.Get("/user/{userId}", h.Playlist.ListByUser)
				g.Get("/{playlistId}", h.Playlist.Get)
				g.Patch("/{playlistId}", h.Playlist.Update)
				g.Delete("/{playlistId}", h.Playlist.Delete)
				g.Patch("/add/{videoId}/{playlistId}", h.Playlist.AddVideo)
				g.Patch("/remove/{videoId}/{playlistId}", h.Playlist.RemoveVideo)
			})
		})

		api.Route("/subscriptions", func(subscriptions chi.Router) {
			subscriptions.Use(auth, timeout)
			subscriptions.Post("/c/{channelId}", h.Subscription.Toggle)
			subscriptions.Get("/c/{channelId}", h.Subscription.Subscribers)
			subscriptions.Get("/u/{subscriberId}", h.Subscription.SubscribedChannels)
		})

		api.Route("/dashboard", func(dashboard chi.Router) {
			dashboard.Use(auth, timeout)
			dashboard.Get("/stats", h.Dashboard.Stats)
			dashboard.Get("/stats/{channelId}", h.Dashboard.Stats)
			dashboard.Get("/videos", h.Dashboard.Videos)
		})
	})

	return r
}
