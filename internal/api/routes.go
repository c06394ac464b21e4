package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(corsMiddleware(s.AllowedOrigins))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Post("/", s.handleCreateDeck)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", s.handleGetDeck)
				r.Put("/", s.handleUpdateDeck)
				r.Delete("/", s.handleDeleteDeck)
				r.Get("/cards", s.handleDeckCards)
				r.Post("/cards", s.handleCreateCard)
				r.Post("/cards/bulk", s.handleBulkCreateCards)
				r.Post("/generated", s.handleSaveGenerated)
				r.Get("/export", s.handleExportDeck)
				r.Post("/import", s.handleImportDeck)
			})
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleCardsByStatus)
			r.Get("/due", s.handleDueCards)
			r.Get("/stats", s.handleCardStats)
			r.Route("/{cardID}", func(r chi.Router) {
				r.Get("/", s.handleGetCard)
				r.Put("/", s.handleUpdateCard)
				r.Delete("/", s.handleDeleteCard)
				r.Post("/review", s.handleReviewCard)
				r.Put("/sentence", s.handleSaveSentence)
				r.Post("/sentence/check", s.handleCheckSentence)
			})
		})

		r.Route("/streak", func(r chi.Router) {
			r.Get("/", s.handleDailyStreak)
			r.Get("/window", s.handleStreakWindow)
			r.Get("/current", s.handleCurrentStreak)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleEndSession)
				r.Post("/swipe", s.handleSwipe)
				r.Post("/filter", s.handleFilterSession)
			})
		})

		r.Post("/generate/text", s.handleGenerateFromText)
		r.Post("/generate/image", s.handleGenerateFromImage)
		r.Post("/chat/continue", s.handleContinueChat)
	})

	return r
}
