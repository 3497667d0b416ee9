package routes

import (
	"github.com/AnshRaj112/promisu-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/health", handlers.Health)

	// Auth routes
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/signin", h.Signin)
	r.Post("/api/auth/signout", h.Signout)
	r.Get("/api/auth/me", h.Me)
	r.Post("/api/auth/check-username", h.CheckUsername)

	// Settings routes
	r.Get("/api/settings", h.GetSettings)
	r.Put("/api/settings", h.UpdateSettings)

	// Promise routes
	r.Get("/api/promises/templates", h.ListTemplates)
	r.Post("/api/promises", h.CreatePromise)
	r.Get("/api/promises", h.ListPromises)
	r.Get("/api/promises/{id}", h.GetPromise)
	r.Put("/api/promises/{id}/status", h.UpdatePromiseStatus)
	r.Delete("/api/promises/{id}", h.DeletePromise)
	r.Get("/api/promises/{id}/progress", h.PromiseProgress)
	r.Get("/api/dashboard", h.Dashboard)

	// Journal entry routes
	r.Post("/api/entries/toggle", h.ToggleToday)
	r.Get("/api/entries", h.ListEntries)
	r.Put("/api/entries/{id}/mood", h.UpdateMood)
	r.Put("/api/entries/{id}/notes", h.UpdateEntryNotes)
	r.Post("/api/entries/{id}/photo", h.UploadEntryPhoto)

	// Daily journal routes
	r.Get("/api/journal/today", h.TodayJournal)
	r.Get("/api/journal/{date}", h.GetJournal)
	r.Put("/api/journal/{date}/notes", h.SaveJournalNotes)

	// WebSocket feed of record changes for the signed-in user
	r.Get("/ws/records", h.RecordsWebSocket)
}
