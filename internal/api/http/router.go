package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/attempt"
	"github.com/studyhall/studyhall-lms/internal/auth"
	"github.com/studyhall/studyhall-lms/internal/catalog"
	"github.com/studyhall/studyhall-lms/internal/journal"
	"github.com/studyhall/studyhall-lms/internal/metrics"
	"github.com/studyhall/studyhall-lms/internal/render"
	"github.com/studyhall/studyhall-lms/internal/storage"
)

// Deps carries everything the router needs.
type Deps struct {
	DB          *sql.DB
	Store       catalog.Store
	Blobs       storage.BlobStore
	Engine      *attempt.Engine
	Journal     *journal.Aggregator
	Renderer    *render.Renderer
	Auth        *auth.Service
	CORSOrigins []string
}

// NewRouter builds the full API surface.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandler(d.DB))
	r.Handle("/metrics", metrics.Handler())
	r.Post("/auth/login", auth.LoginHandler(d.DB, d.Auth))
	r.Get("/files/*", FilesHandler(d.Blobs))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.Auth))

		r.Post("/auth/password", auth.ChangePasswordHandler(d.DB))
		r.Get("/dashboard", DashboardHandler(d.Store))

		// catalog reads for both roles
		r.With(access.Require("subject:view")).Get("/subjects/{subjectID}", GetSubjectHandler(d.Store))
		r.With(access.Require("module:view")).Get("/modules/{moduleID}", GetModuleHandler(d.Store))
		r.With(access.Require("lecture:view")).Get("/lectures", ListLecturesHandler(d.Store))
		r.With(access.Require("lecture:view")).Get("/lectures/{lectureID}", GetLectureHandler(d.Store, d.Renderer))
		r.With(access.Require("test:take")).Get("/tests/{testID}", GetTestHandler(d.Store, d.Engine))
		r.With(access.Require("test:take")).Get("/tests/{testID}/attempts", AttemptStatusHandler(d.Engine))
		r.With(access.Require("attempt:submit")).Post("/tests/{testID}/attempts", SubmitAttemptHandler(d.Engine))
		r.With(access.Require("journal:view-own")).Get("/journal", MyJournalHandler(d.Journal))
		r.With(access.Require("schedule:view")).Get("/groups/{groupID}/schedule", ListGroupScheduleHandler(d.Store))

		// admin surface
		r.Group(func(r chi.Router) {
			r.Use(access.Require("group:manage"))
			r.Get("/groups", ListGroupsHandler(d.Store))
			r.Post("/groups", CreateGroupHandler(d.Store))
			r.Get("/groups/{groupID}", GetGroupHandler(d.Store))
			r.Delete("/groups/{groupID}", DeleteGroupHandler(d.Store))
			r.Post("/groups/{groupID}/schedule", CreateScheduleEntryHandler(d.Store))
			r.Delete("/schedule/{entryID}", DeleteScheduleEntryHandler(d.Store))
		})
		r.Group(func(r chi.Router) {
			r.Use(access.Require("content:manage"))
			r.Post("/subjects", CreateSubjectHandler(d.Store))
			r.Delete("/subjects/{subjectID}", DeleteSubjectHandler(d.Store))
			r.Post("/modules", CreateModuleHandler(d.Store))
			r.Delete("/modules/{moduleID}", DeleteModuleHandler(d.Store))
			r.Post("/lectures", UploadLectureHandler(d.Store, d.Blobs))
			r.Delete("/lectures/{lectureID}", DeleteLectureHandler(d.Store))
			r.Post("/tests", CreateTestHandler(d.Store))
			r.Delete("/tests/{testID}", DeleteTestHandler(d.Store))
			r.Post("/tests/{testID}/questions", CreateQuestionHandler(d.Store))
			r.Delete("/questions/{questionID}", DeleteQuestionHandler(d.Store))
			r.Post("/questions/{questionID}/choices", CreateChoiceHandler(d.Store))
			r.Delete("/choices/{choiceID}", DeleteChoiceHandler(d.Store))
		})
		r.Group(func(r chi.Router) {
			r.Use(access.Require("journal:view-all"))
			r.Get("/subjects/{subjectID}/journal", SubjectJournalHandler(d.Store, d.Journal))
			r.Get("/subjects/{subjectID}/journal/export", ExportSubjectJournalHandler(d.Store, d.Journal))
		})
		r.Group(func(r chi.Router) {
			r.Use(access.Require("user:manage"))
			r.Get("/users", ListUsersHandler(d.Store))
			r.Post("/users", CreateUserHandler(d.Store))
			r.Post("/users/bulk", BulkUpsertUsersHandler(d.Store))
			r.Post("/users/{userID}/password", ResetPasswordHandler(d.Store))
			r.Delete("/users/{userID}", DeleteUserHandler(d.Store))
		})
	})

	return r
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(start))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
