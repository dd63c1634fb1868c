// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/authz"
	"github.com/tomtom215/campus/internal/middleware"
)

// slowRequestThreshold promotes access log lines to warn.
const slowRequestThreshold = time.Second

// Router wires handlers to routes with their middleware.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	guard         *authz.Guard
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMW uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, authMW *auth.Middleware, guard *authz.Guard, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMW,
		guard:         guard,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// ========================
	// Chat
	// ========================
	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Use(router.auth.Optional)
		r.With(router.chiMiddleware.RateLimitCustom("chat", RateLimitChat), chimiddleware.Compress(5)).Post("/", h.Chat)
		r.With(router.chiMiddleware.RateLimitCustom("chat_ws", RateLimitWebSocket)).Get("/ws", h.ChatWebSocket)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("api"))
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5))

		// ========================
		// Catalog
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.auth.Optional)
			r.Get("/courses", h.ListCourses)
			r.Get("/courses/{courseID}", h.GetCourse)
			r.Get("/resources", h.ListResources)
		})

		// ========================
		// Learning
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.auth.Require)

			r.With(router.guard.Require(authz.ObjectLearning, authz.ActionRead)).Group(func(r chi.Router) {
				r.Get("/courses/{courseID}/modules/{moduleID}/lessons/{lessonID}", h.ViewLesson)
				r.Get("/me/courses", h.MyCourses)
				r.Get("/me/courses/{courseID}", h.MyCourse)
				r.Get("/me/recommendations", h.MyRecommendations)
			})

			r.With(router.guard.Require(authz.ObjectLearning, authz.ActionWrite)).Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom("learning_write", RateLimitWrite))
				r.Use(h.InvalidateCatalog)
				r.Post("/courses/{courseID}/enroll", h.Enroll)
				r.Post("/courses/{courseID}/complete", h.CompleteCourse)
				r.Post("/courses/{courseID}/wishlist", h.ToggleCourseWishlist)
				r.Put("/courses/{courseID}/review", h.PutReview)
				r.Post("/resources/{resourceID}/wishlist", h.ToggleResourceWishlist)
			})
		})

		// ========================
		// Authoring
		// ========================
		r.Route("/teacher", func(r chi.Router) {
			r.Use(router.auth.Require)
			r.Use(router.guard.RequireRole(authz.RoleTeacher))
			r.Use(h.InvalidateCatalog)
			r.Use(h.AuditWrites)

			r.With(router.guard.Require(authz.ObjectTeacherProfile, authz.ActionWrite)).Put("/profile", h.PutTeacherProfile)
			r.Get("/activity", h.TeacherActivity)

			r.Group(func(r chi.Router) {
				r.Use(router.guard.RequireTeacherProfile)

				r.Post("/resources", h.CreateStandaloneResource)

				r.Get("/courses", h.TeacherCourses)
				r.Post("/courses", h.CreateCourse)
				r.Route("/courses/{courseID}", func(r chi.Router) {
					r.Get("/", h.GetTeacherCourse)
					r.Put("/", h.UpdateCourse)
					r.Delete("/", h.DeleteCourse)

					r.Post("/certificates", h.CreateCertificate)
					r.Put("/certificates/{certificateID}", h.UpdateCertificate)
					r.Delete("/certificates/{certificateID}", h.DeleteCertificate)

					r.Post("/modules", h.CreateModule)
					r.Route("/modules/{moduleID}", func(r chi.Router) {
						r.Put("/", h.UpdateModule)
						r.Delete("/", h.DeleteModule)

						r.Post("/lessons", h.CreateLesson)
						r.Route("/lessons/{lessonID}", func(r chi.Router) {
							r.Put("/", h.UpdateLesson)
							r.Delete("/", h.DeleteLesson)

							r.Post("/resources", h.CreateResource)
							r.Put("/resources/{resourceID}", h.UpdateResource)
							r.Delete("/resources/{resourceID}", h.DeleteResource)
						})
					})
				})
			})
		})
	})

	return r
}
