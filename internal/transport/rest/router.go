package rest

import (
	"log/slog"
	"net/http"

	_ "inflecto-api/docs"
	"inflecto-api/internal/catalog"
	"inflecto-api/internal/config"
	"inflecto-api/internal/service"
	"inflecto-api/internal/transport/rest/handler"
	"inflecto-api/internal/transport/rest/middleware"
	"inflecto-api/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	Catalog           *catalog.Catalog
	AssessmentService *service.AssessmentService
	ReportService     *service.ReportService
	ContactService    *service.ContactService
	BlogService       *service.BlogService
	WSHandler         *ws.Handler
	Metrics           http.Handler // Optional
	CORS              config.CORSConfig
	Logger            *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	questionHandler := handler.NewQuestionHandler(c.Catalog)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.ReportService, c.Logger)
	contactHandler := handler.NewContactHandler(c.ContactService, c.Logger)
	blogHandler := handler.NewBlogHandler(c.BlogService, c.Logger)

	r.Use(middleware.Recover(c.Logger))
	r.Use(middleware.RequestLogger(c.Logger))
	r.Use(corsMiddleware(c.CORS))

	// Assessment socket
	r.HandleFunc("/ws/ai-readiness", c.WSHandler.AIReadinessWS).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	ai := api.PathPrefix("/ai").Subrouter()
	ai.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	ai.HandleFunc("/assessment", assessmentHandler.Create).Methods("POST", "OPTIONS")
	ai.HandleFunc("/assessment/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	ai.HandleFunc("/assessment/{id}/answer", assessmentHandler.SaveAnswers).Methods("POST", "OPTIONS")
	ai.HandleFunc("/assessment/{id}/finalize", assessmentHandler.Finalize).Methods("POST", "OPTIONS")
	ai.HandleFunc("/assessment/{id}/send-report", assessmentHandler.SendReport).Methods("POST", "OPTIONS")

	api.HandleFunc("/contact", contactHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/contact", contactHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/contact", contactHandler.DeleteAll).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/blogs", blogHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/blogs", blogHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/blogs/{id}", blogHandler.Get).Methods("GET", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.Metrics != nil {
		r.Handle("/metrics", c.Metrics).Methods("GET")
	}

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
